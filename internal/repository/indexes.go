package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the stores rely on. Safe to call
// on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		answersCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "notebookId", Value: 1}, {Key: "questionId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_notebook_question"),
			},
			{Keys: bson.D{{Key: "notebookId", Value: 1}}},
			{Keys: bson.D{{Key: "questionId", Value: 1}}},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "pseudonym", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("pseudonym"),
			},
		},
		interactionsCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "contentId", Value: 1}, {Key: "contentType", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_content"),
			},
		},
		notebooksCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}
