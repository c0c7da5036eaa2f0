package model

import "time"

// TopicStat counts first-try-correct answers out of all answers in a topic
type TopicStat struct {
	Correct int `json:"correct" bson:"correct"`
	Total   int `json:"total" bson:"total"`
}

// UserStats are the running answering statistics of a user
type UserStats struct {
	QuestionsAnswered int                  `json:"questionsAnswered" bson:"questionsAnswered"`
	CorrectAnswers    int                  `json:"correctAnswers" bson:"correctAnswers"`
	Streak            int                  `json:"streak" bson:"streak"`
	TopicPerformance  map[string]TopicStat `json:"topicPerformance" bson:"topicPerformance"`
}

// User is the profile aggregate: XP, level, achievements and stats
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Pseudonym    string    `json:"pseudonym" bson:"pseudonym"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Level        int       `json:"level" bson:"level"`
	XP           int       `json:"xp" bson:"xp"`
	Achievements []string  `json:"achievements" bson:"achievements"`
	Stats        UserStats `json:"stats" bson:"stats"`
	Version      int64     `json:"-" bson:"version"` // Bumped on every update
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a deep copy so reducers never alias the caller's maps/slices
func (u User) Clone() User {
	out := u
	out.Achievements = append([]string(nil), u.Achievements...)
	out.Stats.TopicPerformance = make(map[string]TopicStat, len(u.Stats.TopicPerformance))
	for k, v := range u.Stats.TopicPerformance {
		out.Stats.TopicPerformance[k] = v
	}
	return out
}

// StatsDelta is what one terminal answer contributes to a user's profile
type StatsDelta struct {
	CorrectFirstTry bool   `json:"correctFirstTry"`
	Topic           string `json:"topic"`
	XP              int    `json:"xp"`
}
