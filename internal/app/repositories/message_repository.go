package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/db"
)

// MessageRepository handles database operations for messages and their
// attachment links
type MessageRepository struct {
	database *db.PostgresDB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(database *db.PostgresDB) *MessageRepository {
	return &MessageRepository{database: database}
}

// CreateWithFiles persists a message together with its attachments as a
// single atomic unit: the message row, one file row per attachment and the
// link rows either all commit or none do. On success the message carries its
// generated id, the commit timestamp and the file records in the order the
// attachments were supplied.
func (r *MessageRepository) CreateWithFiles(ctx context.Context, message *models.Message, attachments []models.Attachment) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO messages (chat_id, sender_id, content) VALUES ($1, $2, $3) RETURNING id, created_at`,
			message.ChatID, message.SenderID, message.Content,
		).Scan(&message.ID, &message.Timestamp)
		if err != nil {
			return fmt.Errorf("error creating message: %w", err)
		}

		message.Files = make([]models.File, 0, len(attachments))
		for _, attachment := range attachments {
			file := models.File{
				Type:      attachment.Type,
				URL:       attachment.URL,
				Filename:  attachment.Filename,
				MimeType:  attachment.MimeType,
				SizeBytes: attachment.SizeBytes,
			}

			err := tx.QueryRow(ctx,
				`INSERT INTO files (file_type, url, filename, mime_type, size_bytes)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
				file.Type, file.URL, file.Filename, file.MimeType, file.SizeBytes,
			).Scan(&file.ID, &file.CreatedAt)
			if err != nil {
				return fmt.Errorf("error creating file record: %w", err)
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO message_files (message_id, file_id) VALUES ($1, $2)`,
				message.ID, file.ID,
			)
			if err != nil {
				return fmt.Errorf("error linking file to message: %w", err)
			}

			message.Files = append(message.Files, file)
		}

		return nil
	})
}

// ListByChatID retrieves messages of a chat in ascending id order, hydrated
// with their file records. The id is the authoritative ordering key for
// history reads.
func (r *MessageRepository) ListByChatID(
	ctx context.Context,
	chatID int64,
	afterID *int64,
	beforeID *int64,
	limit int,
) ([]*models.Message, error) {
	queryBuilder := squirrel.Select(
		"id", "chat_id", "sender_id", "content", "created_at",
	).
		From("messages").
		Where("chat_id = ?", chatID).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if afterID != nil {
		queryBuilder = queryBuilder.Where("id > ?", *afterID)
	}

	if beforeID != nil {
		queryBuilder = queryBuilder.Where("id < ?", *beforeID)
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	byID := make(map[int64]*models.Message)
	var ids []int64
	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.SenderID,
			&message.Content,
			&message.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		message.Files = []models.File{}
		messages = append(messages, &message)
		byID[message.ID] = &message
		ids = append(ids, message.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	if len(ids) == 0 {
		return messages, nil
	}

	if err := r.hydrateFiles(ctx, byID, ids); err != nil {
		return nil, err
	}

	return messages, nil
}

// hydrateFiles attaches file records to the given messages, preserving the
// original attachment order within each message.
func (r *MessageRepository) hydrateFiles(ctx context.Context, byID map[int64]*models.Message, messageIDs []int64) error {
	queryBuilder := squirrel.Select(
		"mf.message_id", "f.id", "f.file_type", "f.url", "f.filename", "f.mime_type", "f.size_bytes", "f.created_at",
	).
		From("message_files mf").
		Join("files f ON f.id = mf.file_id").
		Where(squirrel.Eq{"mf.message_id": messageIDs}).
		OrderBy("mf.message_id ASC", "f.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var messageID int64
		var file models.File
		err := rows.Scan(
			&messageID,
			&file.ID,
			&file.Type,
			&file.URL,
			&file.Filename,
			&file.MimeType,
			&file.SizeBytes,
			&file.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("error scanning file row: %w", err)
		}

		if message, ok := byID[messageID]; ok {
			message.Files = append(message.Files, file)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating file rows: %w", err)
	}

	return nil
}
