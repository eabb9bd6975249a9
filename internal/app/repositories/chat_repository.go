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

// ChatRepository handles database operations for chats
type ChatRepository struct {
	database *db.PostgresDB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(database *db.PostgresDB) *ChatRepository {
	return &ChatRepository{database: database}
}

// FindDirectChatID looks up the direct chat shared by two users. The pair is
// unordered; at most one such chat exists.
func (r *ChatRepository) FindDirectChatID(ctx context.Context, userA, userB int64) (int64, bool, error) {
	query := `
		SELECT c.id
		FROM chats c
		JOIN chat_participants cp1 ON c.id = cp1.chat_id
		JOIN chat_participants cp2 ON c.id = cp2.chat_id
		WHERE c.chat_type = 'direct'
		  AND cp1.user_id = $1
		  AND cp2.user_id = $2
		LIMIT 1
	`

	var chatID int64
	err := r.database.Pool.QueryRow(ctx, query, userA, userB).Scan(&chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error finding direct chat: %w", err)
	}

	return chatID, true, nil
}

// CreateDirectChat creates a direct chat between two users, inserting the
// chat row and both participant rows in one transaction.
func (r *ChatRepository) CreateDirectChat(ctx context.Context, userA, userB int64) (*models.Chat, error) {
	chat := &models.Chat{Type: models.ChatTypeDirect}

	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO chats (chat_type) VALUES ($1) RETURNING id, created_at`,
			models.ChatTypeDirect,
		).Scan(&chat.ID, &chat.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating chat: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2), ($1, $3)`,
			chat.ID, userA, userB,
		)
		if err != nil {
			return fmt.Errorf("error adding participants: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	chat.Participants = []int64{userA, userB}
	return chat, nil
}

// CreateGroupChat creates a named group chat with the given members,
// inserting the chat row and all participant rows in one transaction.
func (r *ChatRepository) CreateGroupChat(ctx context.Context, name string, memberIDs []int64) (*models.Chat, error) {
	chat := &models.Chat{Name: &name, Type: models.ChatTypeGroup}

	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO chats (name, chat_type) VALUES ($1, $2) RETURNING id, created_at`,
			name, models.ChatTypeGroup,
		).Scan(&chat.ID, &chat.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating chat: %w", err)
		}

		for _, userID := range memberIDs {
			_, err = tx.Exec(ctx,
				`INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`,
				chat.ID, userID,
			)
			if err != nil {
				return fmt.Errorf("error adding participant %d: %w", userID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	chat.Participants = memberIDs
	return chat, nil
}

// GetByID retrieves a chat by id
func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	query := `
		SELECT id, name, chat_type, created_at
		FROM chats
		WHERE id = $1
	`

	var chat models.Chat
	err := r.database.Pool.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.Name,
		&chat.Type,
		&chat.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("error retrieving chat: %w", err)
	}

	return &chat, nil
}

// ListByUserID retrieves the chats a user participates in, newest first
func (r *ChatRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Chat, error) {
	query := `
		SELECT c.id, c.name, c.chat_type, c.created_at
		FROM chats c
		JOIN chat_participants cp ON c.id = cp.chat_id
		WHERE cp.user_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.database.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		var chat models.Chat
		err := rows.Scan(&chat.ID, &chat.Name, &chat.Type, &chat.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat row: %w", err)
		}
		chats = append(chats, &chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	return chats, nil
}
