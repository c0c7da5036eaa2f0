package model

// QuestionView is a question as shown to a user. The answer and explanation
// stay hidden until the question is completed.
type QuestionView struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionText  string     `json:"questionText"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"`
	Explanation   string     `json:"explanation,omitempty"`
	Hints         []string   `json:"hints"`
	TotalHints    int        `json:"totalHints"`
}

// SessionView is the answering screen for the question under the cursor
type SessionView struct {
	NotebookID     string         `json:"notebookId"`
	NotebookName   string         `json:"notebookName"`
	CurrentIndex   int            `json:"currentIndex"`
	Total          int            `json:"total"`
	Question       *QuestionView  `json:"question,omitempty"`
	Status         AttemptStatus  `json:"status"`
	Outcome        AttemptOutcome `json:"outcome,omitempty"`
	SelectedOption string         `json:"selectedOption,omitempty"`
	WrongAnswers   []string       `json:"wrongAnswers"`
	Answered       int            `json:"answered"`
	Progress       float64        `json:"progress"`
	AllAnswered    bool           `json:"allAnswered,omitempty"`
	XPAwarded      int            `json:"xpAwarded,omitempty"`
	Achievements   []string       `json:"newAchievements,omitempty"`
	Notice         string         `json:"notice,omitempty"`
}

// ProfileView is a user's profile with level progress and global rank
type ProfileView struct {
	User          *User `json:"user"`
	LevelProgress int   `json:"levelProgress"`
	Rank          int64 `json:"rank"`
}

// InteractionResult reports what an interaction changed on the profile
type InteractionResult struct {
	Interaction     UserContentInteraction `json:"interaction"`
	XPAwarded       int                    `json:"xpAwarded"`
	NewAchievements []string               `json:"newAchievements,omitempty"`
}
