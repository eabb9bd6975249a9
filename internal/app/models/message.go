package models

import (
	"strings"
	"time"
)

// Message represents a chat message. Content may be empty only when the
// message carries at least one attachment; NewMessage is the single entry
// point that enforces this, so a silently empty message cannot be built.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    int64     `json:"chatId" db:"chat_id"`
	SenderID  int64     `json:"senderId" db:"sender_id"`
	Content   *string   `json:"content,omitempty" db:"content"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`

	// Files in the order the attachments were submitted
	Files []File `json:"files"`
}

// HasContent reports whether the message carries non-blank text.
func (m *Message) HasContent() bool {
	return m.Content != nil && strings.TrimSpace(*m.Content) != ""
}

// NewMessage builds an unpersisted message after validating the
// content-or-attachments invariant. Blank content is normalized to nil.
func NewMessage(chatID, senderID int64, content *string, attachments []Attachment) (*Message, error) {
	if content != nil && strings.TrimSpace(*content) == "" {
		content = nil
	}
	if content == nil && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	for _, a := range attachments {
		if !a.Type.Valid() {
			return nil, ErrInvalidAttachmentType
		}
	}
	return &Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}, nil
}
