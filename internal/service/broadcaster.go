package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToNotebook(notebookID string, msgType string, payload interface{})
	BroadcastToUser(userID string, msgType string, payload interface{})
}

// Event types pushed over the websocket
const (
	EventAnswerRecorded       = "answer_recorded"
	EventAchievementsUnlocked = "achievements_unlocked"
	EventLeaderboardUpdate    = "leaderboard_update"
	EventProgressReset        = "progress_reset"
)
