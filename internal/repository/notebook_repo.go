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

const notebooksCollection = "question_notebooks"

// NotebookRepo handles MongoDB operations for user-curated notebooks
type NotebookRepo interface {
	Create(ctx context.Context, notebook *model.QuestionNotebook) error
	GetByID(ctx context.Context, id string) (*model.QuestionNotebook, error)
	ListByUser(ctx context.Context, userID string) ([]model.QuestionNotebook, error)
	Update(ctx context.Context, notebook *model.QuestionNotebook) error
	Delete(ctx context.Context, id string) error
}

type notebookRepo struct {
	collection *mongo.Collection
}

func NewNotebookRepo(db *mongo.Database) NotebookRepo {
	return &notebookRepo{
		collection: db.Collection(notebooksCollection),
	}
}

func (r *notebookRepo) Create(ctx context.Context, notebook *model.QuestionNotebook) error {
	if notebook.ID == "" {
		notebook.ID = uuid.NewString()
	}
	if notebook.QuestionIDs == nil {
		notebook.QuestionIDs = []string{}
	}
	notebook.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notebook)
	return err
}

func (r *notebookRepo) GetByID(ctx context.Context, id string) (*model.QuestionNotebook, error) {
	var notebook model.QuestionNotebook
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notebook)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notebook, nil
}

func (r *notebookRepo) ListByUser(ctx context.Context, userID string) ([]model.QuestionNotebook, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notebooks := []model.QuestionNotebook{}
	if err := cursor.All(ctx, &notebooks); err != nil {
		return nil, err
	}
	return notebooks, nil
}

func (r *notebookRepo) Update(ctx context.Context, notebook *model.QuestionNotebook) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": notebook.ID}, bson.M{
		"$set": bson.M{
			"name":        notebook.Name,
			"questionIds": notebook.QuestionIDs,
		},
	})
	return err
}

func (r *notebookRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
