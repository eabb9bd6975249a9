package models

import "time"

// FileType represents the media category of a stored file
type FileType string

const (
	FileTypePicture FileType = "picture"
	FileTypeVideo   FileType = "video"
	FileTypeAudio   FileType = "audio"
	FileTypeFile    FileType = "file"
)

// Valid reports whether t is one of the known file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypePicture, FileTypeVideo, FileTypeAudio, FileTypeFile:
		return true
	}
	return false
}

// File represents an uploaded file record. Files are owned independently of
// any message; a file may also back a user's profile image.
type File struct {
	ID        int64     `json:"id" db:"id"`
	Type      FileType  `json:"type" db:"file_type"`
	URL       string    `json:"url" db:"url"`
	Filename  string    `json:"filename" db:"filename"`
	MimeType  *string   `json:"mimeType,omitempty" db:"mime_type"`
	SizeBytes int64     `json:"sizeBytes" db:"size_bytes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Attachment is an already-stored file reference submitted alongside a
// message. The corresponding file row is created when the message is
// persisted.
type Attachment struct {
	Type      FileType `json:"type"`
	URL       string   `json:"url"`
	Filename  string   `json:"filename"`
	MimeType  *string  `json:"mimeType,omitempty"`
	SizeBytes int64    `json:"sizeBytes"`
}
