package repository

import (
	"context"
	"studyhub/internal/model"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const interactionsCollection = "user_content_interactions"

// InteractionRepo tracks read/favorite flags on generated content
type InteractionRepo interface {
	// Upsert applies the non-nil flags of req and returns the row as it was
	// before the write, or nil if it did not exist.
	Upsert(ctx context.Context, userID string, req model.InteractionRequest) (*model.UserContentInteraction, error)
	CountRead(ctx context.Context, userID string, contentType model.ContentType) (int64, error)
	FavoriteQuestionIDs(ctx context.Context, userID string) ([]string, error)
}

type interactionRepo struct {
	collection *mongo.Collection
}

func NewInteractionRepo(db *mongo.Database) InteractionRepo {
	return &interactionRepo{
		collection: db.Collection(interactionsCollection),
	}
}

func (r *interactionRepo) Upsert(ctx context.Context, userID string, req model.InteractionRequest) (*model.UserContentInteraction, error) {
	set := bson.M{"updatedAt": time.Now()}
	onInsert := bson.M{"_id": uuid.NewString()}
	if req.IsRead != nil {
		set["isRead"] = *req.IsRead
	} else {
		onInsert["isRead"] = false
	}
	if req.IsFavorite != nil {
		set["isFavorite"] = *req.IsFavorite
	} else {
		onInsert["isFavorite"] = false
	}

	filter := bson.M{"userId": userID, "contentId": req.ContentID, "contentType": req.ContentType}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var previous model.UserContentInteraction
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set, "$setOnInsert": onInsert}, opts).Decode(&previous)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &previous, nil
}

func (r *interactionRepo) CountRead(ctx context.Context, userID string, contentType model.ContentType) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId":      userID,
		"contentType": contentType,
		"isRead":      true,
	})
}

func (r *interactionRepo) FavoriteQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}}).
		SetProjection(bson.M{"contentId": 1})
	cursor, err := r.collection.Find(ctx, bson.M{
		"userId":      userID,
		"contentType": model.ContentQuestion,
		"isFavorite":  true,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ContentID string `bson:"contentId"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ContentID)
	}
	return ids, nil
}
