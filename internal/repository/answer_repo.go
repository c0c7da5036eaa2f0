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

const answersCollection = "user_question_answers"

// AnswerRepo stores one UserQuestionAnswer per (user, notebook, question)
type AnswerRepo interface {
	Find(ctx context.Context, userID, notebookID, questionID string) (*model.UserQuestionAnswer, error)
	ListByUserNotebook(ctx context.Context, userID, notebookID string) ([]model.UserQuestionAnswer, error)
	ListByNotebook(ctx context.Context, notebookID string) ([]model.UserQuestionAnswer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]model.UserQuestionAnswer, error)
	// InsertOnce writes the answer unless one already exists for its key.
	// created is false when an earlier answer was kept.
	InsertOnce(ctx context.Context, answer *model.UserQuestionAnswer) (created bool, err error)
	DeleteByUserNotebook(ctx context.Context, userID, notebookID string) (int64, error)
	DeleteByNotebook(ctx context.Context, notebookID string) (int64, error)
}

type answerRepo struct {
	collection *mongo.Collection
}

func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection(answersCollection),
	}
}

func answerKey(userID, notebookID, questionID string) bson.M {
	return bson.M{"userId": userID, "notebookId": notebookID, "questionId": questionID}
}

func (r *answerRepo) Find(ctx context.Context, userID, notebookID, questionID string) (*model.UserQuestionAnswer, error) {
	var answer model.UserQuestionAnswer
	err := r.collection.FindOne(ctx, answerKey(userID, notebookID, questionID)).Decode(&answer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepo) ListByUserNotebook(ctx context.Context, userID, notebookID string) ([]model.UserQuestionAnswer, error) {
	return r.list(ctx, bson.M{"userId": userID, "notebookId": notebookID})
}

func (r *answerRepo) ListByNotebook(ctx context.Context, notebookID string) ([]model.UserQuestionAnswer, error) {
	return r.list(ctx, bson.M{"notebookId": notebookID})
}

// ListByQuestion returns every user's answer to a question in any notebook
func (r *answerRepo) ListByQuestion(ctx context.Context, questionID string) ([]model.UserQuestionAnswer, error) {
	return r.list(ctx, bson.M{"questionId": questionID})
}

func (r *answerRepo) list(ctx context.Context, filter bson.M) ([]model.UserQuestionAnswer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	answers := []model.UserQuestionAnswer{}
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepo) InsertOnce(ctx context.Context, answer *model.UserQuestionAnswer) (bool, error) {
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	if answer.Timestamp.IsZero() {
		answer.Timestamp = time.Now()
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":               answer.ID,
			"attempts":          answer.Attempts,
			"isCorrectFirstTry": answer.IsCorrectFirstTry,
			"xpAwarded":         answer.XPAwarded,
			"timestamp":         answer.Timestamp,
		},
	}
	filter := answerKey(answer.UserID, answer.NotebookID, answer.QuestionID)
	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// lost a concurrent upsert race on the unique index
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (r *answerRepo) DeleteByUserNotebook(ctx context.Context, userID, notebookID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID, "notebookId": notebookID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *answerRepo) DeleteByNotebook(ctx context.Context, notebookID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"notebookId": notebookID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
