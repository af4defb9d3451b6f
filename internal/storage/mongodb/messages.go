package mongodb

import (
	"context"
	"moviehub/proj/internal/domain/models"
	"moviehub/proj/internal/storage"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MessageModel struct {
	coll *mongo.Collection
}

func (m *MessageModel) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	res, err := m.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		msg.ID = id
	}
	return msg, nil
}

func (m *MessageModel) find(ctx context.Context, filter any) ([]models.Message, error) {
	cur, err := m.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0)
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (m *MessageModel) List(ctx context.Context) ([]models.Message, error) {
	return m.find(ctx, bson.M{})
}

func (m *MessageModel) ListByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	return m.find(ctx, bson.M{"user": userID})
}

func (m *MessageModel) Get(ctx context.Context, id string) (*models.Message, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var msg models.Message
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&msg); err != nil {
		return nil, translateErr(err)
	}
	return &msg, nil
}

func (m *MessageModel) UpdateName(ctx context.Context, id, name string) (*models.Message, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var msg models.Message
	err = m.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&msg)
	if err != nil {
		return nil, translateErr(err)
	}
	return &msg, nil
}

func (m *MessageModel) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
