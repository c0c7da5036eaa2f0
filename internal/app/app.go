package app

import (
	"studyhub/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// App groups the Mongo-backed stores shared by the server and the seeder
type App struct {
	QuestionRepo    repository.QuestionRepo
	SourceRepo      repository.SourceRepo
	NotebookRepo    repository.NotebookRepo
	AnswerRepo      repository.AnswerRepo
	UserRepo        repository.UserRepo
	InteractionRepo repository.InteractionRepo
}

func New(db *mongo.Database) *App {
	return &App{
		QuestionRepo:    repository.NewQuestionRepo(db),
		SourceRepo:      repository.NewSourceRepo(db),
		NotebookRepo:    repository.NewNotebookRepo(db),
		AnswerRepo:      repository.NewAnswerRepo(db),
		UserRepo:        repository.NewUserRepo(db),
		InteractionRepo: repository.NewInteractionRepo(db),
	}
}
