package mongodb

import (
	"context"
	"moviehub/proj/internal/domain/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CommentModel struct {
	coll *mongo.Collection
}

func (m *CommentModel) Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	res, err := m.coll.InsertOne(ctx, comment)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		comment.ID = id
	}
	return comment, nil
}

func (m *CommentModel) ListForMovie(ctx context.Context, movieID int) ([]models.Comment, error) {
	cur, err := m.coll.Find(
		ctx,
		bson.M{"movie_id": movieID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0)
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
