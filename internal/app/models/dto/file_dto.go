package dto

import (
	"time"

	"github.com/ozgur/courier/internal/app/models"
)

// FileResponse represents a persisted file record
type FileResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	MimeType  *string   `json:"mimeType,omitempty"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileUploadResponse is returned by the upload endpoint; the caller passes
// these fields back as an attachment when sending a message.
type FileUploadResponse struct {
	URL       string  `json:"url"`
	Filename  string  `json:"filename"`
	MimeType  *string `json:"mimeType,omitempty"`
	SizeBytes int64   `json:"sizeBytes"`
}

// ToFileResponse converts a models.File to FileResponse
func ToFileResponse(file *models.File) FileResponse {
	return FileResponse{
		ID:        file.ID,
		Type:      string(file.Type),
		URL:       file.URL,
		Filename:  file.Filename,
		MimeType:  file.MimeType,
		SizeBytes: file.SizeBytes,
		CreatedAt: file.CreatedAt,
	}
}
