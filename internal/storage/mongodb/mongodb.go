package mongodb

import (
	"context"
	"errors"
	"moviehub/proj/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	commentsCollection = "comments"
	messagesCollection = "messages"
)

type MongoDB struct {
	Client   *mongo.Client
	Comments *CommentModel
	Messages *MessageModel
}

func New(ctx context.Context, uri, database string) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	db := client.Database(database)
	return &MongoDB{
		Client:   client,
		Comments: &CommentModel{coll: db.Collection(commentsCollection)},
		Messages: &MessageModel{coll: db.Collection(messagesCollection)},
	}, nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, storage.ErrInvalidID
	}
	return oid, nil
}

func translateErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}
