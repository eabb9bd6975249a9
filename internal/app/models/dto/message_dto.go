package dto

import (
	"time"

	"github.com/ozgur/courier/internal/app/models"
)

// --- Request DTOs ---

// SendMessageRequest represents an inbound message submission, either from
// the REST endpoint (chat id taken from the path) or from a live connection
// (chat id taken from the frame).
type SendMessageRequest struct {
	ChatID  int64               `json:"chatId"`
	Content *string             `json:"content,omitempty"`
	Files   []AttachmentPayload `json:"files,omitempty" binding:"omitempty,dive"`
}

// AttachmentPayload references an already-stored file to link to the message
type AttachmentPayload struct {
	Type      string  `json:"type" binding:"required"`
	URL       string  `json:"url" binding:"required"`
	Filename  string  `json:"filename" binding:"required"`
	MimeType  *string `json:"mimeType,omitempty"`
	SizeBytes int64   `json:"sizeBytes" binding:"required,gt=0"`
}

// ToAttachment converts an AttachmentPayload to a models.Attachment
func (p AttachmentPayload) ToAttachment() models.Attachment {
	return models.Attachment{
		Type:      models.FileType(p.Type),
		URL:       p.URL,
		Filename:  p.Filename,
		MimeType:  p.MimeType,
		SizeBytes: p.SizeBytes,
	}
}

// GetMessagesRequest represents filter parameters for a chat history read
type GetMessagesRequest struct {
	AfterID  *int64 `form:"afterId"`
	BeforeID *int64 `form:"beforeId"`
	Limit    int    `form:"limit,default=100" binding:"min=1,max=500"`
}

// --- Response DTOs ---

// MessageResponse is the hydrated message returned to senders and pushed to
// every fanned-out recipient channel
type MessageResponse struct {
	ID        int64          `json:"id"`
	ChatID    int64          `json:"chatId"`
	SenderID  int64          `json:"senderId"`
	Content   *string        `json:"content,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Files     []FileResponse `json:"files"`
}

// MessageListResponse represents a chat history page in ascending id order
type MessageListResponse struct {
	ChatID   int64             `json:"chatId"`
	Messages []MessageResponse `json:"messages"`
}

// ToMessageResponse converts a models.Message to MessageResponse
func ToMessageResponse(message *models.Message) MessageResponse {
	files := make([]FileResponse, 0, len(message.Files))
	for _, f := range message.Files {
		files = append(files, ToFileResponse(&f))
	}
	return MessageResponse{
		ID:        message.ID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		Timestamp: message.Timestamp,
		Files:     files,
	}
}
