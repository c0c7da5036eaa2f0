package model

import "time"

// UserQuestionAnswer records how one user resolved one question inside one
// notebook context. At most one exists per (userId, notebookId, questionId);
// it is written once and only removed by a notebook reset.
type UserQuestionAnswer struct {
	ID                string    `json:"id" bson:"_id"`
	UserID            string    `json:"userId" bson:"userId"`
	NotebookID        string    `json:"notebookId" bson:"notebookId"`
	QuestionID        string    `json:"questionId" bson:"questionId"`
	Attempts          []string  `json:"attempts" bson:"attempts"` // Wrong options in rejection order, then the final option
	IsCorrectFirstTry bool      `json:"isCorrectFirstTry" bson:"isCorrectFirstTry"`
	XPAwarded         int       `json:"xpAwarded" bson:"xpAwarded"`
	Timestamp         time.Time `json:"timestamp" bson:"timestamp"`
}

// AttemptStatus is the per-question answering state
type AttemptStatus string

const (
	AttemptUnanswered AttemptStatus = "unanswered"
	AttemptAttempting AttemptStatus = "attempting"
	AttemptCompleted  AttemptStatus = "completed"
)

// AttemptOutcome distinguishes the two terminal states
type AttemptOutcome string

const (
	OutcomeNone      AttemptOutcome = ""
	OutcomeCorrect   AttemptOutcome = "correct"
	OutcomeExhausted AttemptOutcome = "exhausted"
)

// AttemptState is the cached in-progress state of the current question
type AttemptState struct {
	QuestionID     string         `json:"questionId"`
	Status         AttemptStatus  `json:"status"`
	Outcome        AttemptOutcome `json:"outcome,omitempty"`
	SelectedOption string         `json:"selectedOption,omitempty"`
	WrongAnswers   []string       `json:"wrongAnswers"`
	Recorded       bool           `json:"recorded"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// SessionSnapshot is the cached cursor of a user inside a notebook
type SessionSnapshot struct {
	UserID       string        `json:"userId"`
	NotebookID   string        `json:"notebookId"`
	QuestionIDs  []string      `json:"questionIds"`
	CurrentIndex int           `json:"currentIndex"`
	Attempt      *AttemptState `json:"attempt,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// SubmitAnswerRequest is the request body for answering the current question
type SubmitAnswerRequest struct {
	Option string `json:"option"`
}

// JumpRequest moves the cursor to an explicit index
type JumpRequest struct {
	Index int `json:"index"`
}
