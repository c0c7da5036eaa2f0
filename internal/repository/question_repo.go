package repository

import (
	"context"
	"studyhub/internal/model"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	questionsCollection = "questions"
	sourcesCollection   = "sources"
)

// QuestionRepo reads the global question set. Topics are resolved from the
// owning source on every read.
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetAll(ctx context.Context) ([]model.Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Question, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection(questionsCollection),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	// topic is derived from the source, never stored
	doc := *question
	doc.Topic = ""
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *questionRepo) GetAll(ctx context.Context) ([]model.Question, error) {
	return r.aggregate(ctx, bson.M{})
}

func (r *questionRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}
	return r.aggregate(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *questionRepo) aggregate(ctx context.Context, match bson.M) ([]model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         sourcesCollection,
			"localField":   "sourceId",
			"foreignField": "_id",
			"as":           "source",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"topic": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$source.topic", 0}},
				model.DefaultTopic,
			}},
		}}},
		{{Key: "$project", Value: bson.M{"source": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []model.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SourceRepo stores the documents questions were generated from
type SourceRepo interface {
	Create(ctx context.Context, source *model.Source) error
	GetByID(ctx context.Context, id string) (*model.Source, error)
}

type sourceRepo struct {
	collection *mongo.Collection
}

func NewSourceRepo(db *mongo.Database) SourceRepo {
	return &sourceRepo{
		collection: db.Collection(sourcesCollection),
	}
}

func (r *sourceRepo) Create(ctx context.Context, source *model.Source) error {
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	source.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, source)
	return err
}

func (r *sourceRepo) GetByID(ctx context.Context, id string) (*model.Source, error) {
	var source model.Source
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&source)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}
