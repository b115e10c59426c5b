package models

import "time"

// SwipeAction is either like or pass
type SwipeAction string

const (
	SwipeLike SwipeAction = "like"
	SwipePass SwipeAction = "pass"
)

type SwipeRequest struct {
	TargetUserID string      `json:"target_user_id"`
	Action       SwipeAction `json:"action"`
}

// NewMatch is the match created by a mutual like
type NewMatch struct {
	MatchID     string       `json:"match_id"`
	MatchedUser *UserProfile `json:"matched_user"`
}

type SwipeResult struct {
	Success      bool      `json:"success"`
	MatchCreated bool      `json:"match_created"`
	Match        *NewMatch `json:"match,omitempty"`
}

// Match is one entry of the match list
type Match struct {
	MatchID     string       `json:"match_id"`
	MatchedUser *UserProfile `json:"matched_user"`
	CreatedAt   time.Time    `json:"created_at"`
	LastMessage *Message     `json:"last_message,omitempty"`
}

type Message struct {
	MessageID string    `json:"message_id"`
	MatchID   string    `json:"match_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FromSelf reports whether the message was sent by the given user
func (m Message) FromSelf(userID string) bool {
	return userID != "" && m.SenderID == userID
}

type MessageCreate struct {
	Content string `json:"content"`
}
