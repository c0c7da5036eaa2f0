package model

import "time"

// Pseudo-notebook ids. Neither is ever persisted as a notebook row.
const (
	AllQuestionsNotebookID = "all_questions"
	FavoritesNotebookID    = "favorites_notebook"
)

// QuestionNotebook is a user-curated, ordered list of question ids
type QuestionNotebook struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	Name        string    `json:"name" bson:"name"`
	QuestionIDs []string  `json:"questionIds" bson:"questionIds"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// IsPseudoNotebook reports whether id names one of the virtual notebooks
func IsPseudoNotebook(id string) bool {
	return id == AllQuestionsNotebookID || id == FavoritesNotebookID
}

// CreateNotebookRequest is the request body for creating a notebook
type CreateNotebookRequest struct {
	Name        string   `json:"name"`
	QuestionIDs []string `json:"questionIds"`
}

// UpdateNotebookRequest replaces a notebook's name and question list
type UpdateNotebookRequest struct {
	Name        string   `json:"name"`
	QuestionIDs []string `json:"questionIds"`
}
