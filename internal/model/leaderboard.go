package model

// LeaderboardEntry is one user's tally inside a notebook
type LeaderboardEntry struct {
	UserID    string `json:"userId"`
	Pseudonym string `json:"pseudonym"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Rank      int    `json:"rank"`
}

// XPEntry is one row of the global XP leaderboard
type XPEntry struct {
	UserID    string `json:"userId"`
	Pseudonym string `json:"pseudonym"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
	Rank      int    `json:"rank"`
}

// NotebookStats is the read projection shown in the notebook stats view
type NotebookStats struct {
	NotebookID      string             `json:"notebookId"`
	Name            string             `json:"name"`
	TotalQuestions  int                `json:"totalQuestions"`
	Answered        int                `json:"answered"`
	CorrectFirstTry int                `json:"correctFirstTry"`
	Accuracy        float64            `json:"accuracy"` // Percent of answered that were first-try correct
	Progress        float64            `json:"progress"` // Percent of the notebook answered
	Leaderboard     []LeaderboardEntry `json:"leaderboard"`
}

// OptionCount is how many first tries picked one option
type OptionCount struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionStats is the community view of one question across every user and
// notebook that answered it
type QuestionStats struct {
	QuestionID   string        `json:"questionId"`
	QuestionText string        `json:"questionText"`
	Total        int           `json:"total"`
	Correct      int           `json:"correct"`   // First try correct
	Incorrect    int           `json:"incorrect"` // First try wrong
	Distribution []OptionCount `json:"distribution"`
}
