package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/db"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// FileRepository handles database operations for file records
type FileRepository struct {
	database *db.PostgresDB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(database *db.PostgresDB) *FileRepository {
	return &FileRepository{database: database}
}

// GetByID retrieves a file record by id
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `
		SELECT id, file_type, url, filename, mime_type, size_bytes, created_at
		FROM files
		WHERE id = $1
	`

	var file models.File
	err := r.database.Pool.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.Type,
		&file.URL,
		&file.Filename,
		&file.MimeType,
		&file.SizeBytes,
		&file.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving file: %w", err)
	}

	return &file, nil
}
