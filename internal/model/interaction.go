package model

import "time"

// ContentType identifies the kind of generated study content
type ContentType string

const (
	ContentSummary      ContentType = "summary"
	ContentFlashcard    ContentType = "flashcard"
	ContentQuestion     ContentType = "question"
	ContentMindMap      ContentType = "mind_map"
	ContentAudioSummary ContentType = "audio_summary"
)

// Valid reports whether t is a known content type
func (t ContentType) Valid() bool {
	switch t {
	case ContentSummary, ContentFlashcard, ContentQuestion, ContentMindMap, ContentAudioSummary:
		return true
	}
	return false
}

// UserContentInteraction tracks read/favorite flags per (user, content, type)
type UserContentInteraction struct {
	ID          string      `json:"id" bson:"_id"`
	UserID      string      `json:"userId" bson:"userId"`
	ContentID   string      `json:"contentId" bson:"contentId"`
	ContentType ContentType `json:"contentType" bson:"contentType"`
	IsRead      bool        `json:"isRead" bson:"isRead"`
	IsFavorite  bool        `json:"isFavorite" bson:"isFavorite"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// InteractionRequest updates the caller's flags on one content item.
// Nil fields are left untouched.
type InteractionRequest struct {
	ContentID   string      `json:"contentId"`
	ContentType ContentType `json:"contentType"`
	IsRead      *bool       `json:"isRead,omitempty"`
	IsFavorite  *bool       `json:"isFavorite,omitempty"`
}
