package dto

import (
	"time"

	"github.com/ozgur/courier/internal/app/models"
)

// ChatStatus tells the caller whether initiating a direct chat created a new
// chat or found an existing one for the pair.
type ChatStatus string

const (
	ChatStatusCreated ChatStatus = "created"
	ChatStatusExists  ChatStatus = "exists"
)

// --- Request DTOs ---

// InitiateDirectChatRequest represents data for starting a direct chat
type InitiateDirectChatRequest struct {
	TargetID int64 `json:"targetId" binding:"required,gt=0"`
}

// CreateGroupChatRequest represents data for creating a group chat
type CreateGroupChatRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=128"`
	ParticipantIDs []int64 `json:"participantIds" binding:"omitempty,dive,gt=0"`
}

// --- Response DTOs ---

// InitiateDirectChatResponse identifies the direct chat for the pair
type InitiateDirectChatResponse struct {
	ChatID int64      `json:"chatId"`
	Status ChatStatus `json:"status"`
}

// ChatResponse represents a chat with its participant user ids
type ChatResponse struct {
	ID           int64     `json:"id"`
	Name         *string   `json:"name,omitempty"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
	Participants []int64   `json:"participants"`
}

// ToChatResponse converts a models.Chat to ChatResponse
func ToChatResponse(chat *models.Chat) ChatResponse {
	participants := chat.Participants
	if participants == nil {
		participants = []int64{}
	}
	return ChatResponse{
		ID:           chat.ID,
		Name:         chat.Name,
		Type:         string(chat.Type),
		CreatedAt:    chat.CreatedAt,
		Participants: participants,
	}
}
