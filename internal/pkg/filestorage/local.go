package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ozgur/courier/internal/pkg/logger"
)

// LocalStorage saves uploads to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // URL prefix under which basePath is served
}

// NewLocalStorage creates a new LocalStorage instance, ensuring basePath
// exists.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the uploaded file under a collision-free name and returns the
// reference the client uses to attach it to a message.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	uniqueName := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	var mimeType *string
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		mimeType = &ct
	}

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("savedAs", uniqueName).
		Int64("sizeBytes", fileHeader.Size).
		Msg("File stored")

	return &StoredFile{
		URL:       ls.baseURL + "/" + uniqueName,
		Filename:  fileHeader.Filename,
		MimeType:  mimeType,
		SizeBytes: fileHeader.Size,
	}, nil
}

// Delete removes a stored file by its URL. Missing files are not an error.
func (ls *LocalStorage) Delete(url string) error {
	filename := filepath.Base(url)
	if filename == "" || filename == "." || filename == "/" {
		return fmt.Errorf("invalid file url: %s", url)
	}

	physicalPath := filepath.Join(ls.basePath, filename)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
