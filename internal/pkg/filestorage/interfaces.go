package filestorage

import "mime/multipart"

// StoredFile describes a file handed to storage; the caller passes these
// fields back as an attachment reference when sending a message.
type StoredFile struct {
	URL       string
	Filename  string
	MimeType  *string
	SizeBytes int64
}

// Storage stores raw uploads and returns an opaque reference. The core never
// inspects file bytes, only references produced here.
type Storage interface {
	Save(fileHeader *multipart.FileHeader) (*StoredFile, error)
	Delete(url string) error
}
