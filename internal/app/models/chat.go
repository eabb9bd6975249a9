package models

import "time"

// ChatType represents the kind of chat
type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
	ChatTypeServer ChatType = "server"
)

// Chat is a container of participants and messages. A direct chat between two
// users is unique for the unordered pair.
type Chat struct {
	ID        int64     `json:"id" db:"id"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Type      ChatType  `json:"type" db:"chat_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Participant user ids, loaded on demand
	Participants []int64 `json:"participants,omitempty"`
}

// ChatParticipant associates a user with a chat. Membership is the sole
// authorization fact for all chat operations.
type ChatParticipant struct {
	ChatID   int64     `json:"chatId" db:"chat_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}
