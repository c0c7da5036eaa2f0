package model

import "time"

// Difficulty is the labelled difficulty assigned when a question is generated
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Fácil"
	DifficultyMedium Difficulty = "Médio"
	DifficultyHard   Difficulty = "Difícil"
)

// DefaultTopic is used when a question's source carries no topic
const DefaultTopic = "Geral"

// Source is an uploaded study document that content was generated from
type Source struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Title     string    `json:"title" bson:"title"`
	Materia   string    `json:"materia" bson:"materia"`
	Topic     string    `json:"topic" bson:"topic"`
	Subtopic  string    `json:"subtopic,omitempty" bson:"subtopic,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Question is an immutable multiple-choice item owned by a Source
type Question struct {
	ID            string     `json:"id" bson:"_id"`
	SourceID      string     `json:"sourceId" bson:"sourceId"`
	Topic         string     `json:"topic,omitempty" bson:"topic,omitempty"` // Resolved from the owning source on read
	Difficulty    Difficulty `json:"difficulty" bson:"difficulty"`
	QuestionText  string     `json:"questionText" bson:"questionText"`
	Options       []string   `json:"options" bson:"options"`
	CorrectAnswer string     `json:"correctAnswer" bson:"correctAnswer"`
	Explanation   string     `json:"explanation" bson:"explanation"`
	Hints         []string   `json:"hints" bson:"hints"`
}

// TopicOrDefault returns the source topic, falling back to DefaultTopic
func (q *Question) TopicOrDefault() string {
	if q.Topic == "" {
		return DefaultTopic
	}
	return q.Topic
}

// HasOption reports whether option is one of the question's choices
func (q *Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
