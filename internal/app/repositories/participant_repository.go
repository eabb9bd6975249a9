package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ozgur/courier/internal/db"
)

// ParticipantRepository handles database operations for chat participants
type ParticipantRepository struct {
	database *db.PostgresDB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(database *db.PostgresDB) *ParticipantRepository {
	return &ParticipantRepository{database: database}
}

// IsParticipant checks whether a user currently belongs to a chat. This is a
// single consistent read; results are never cached since membership can
// change between calls.
func (r *ParticipantRepository) IsParticipant(ctx context.Context, chatID, userID int64) (bool, error) {
	query := squirrel.Select("1").
		From("chat_participants").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.database.Pool.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

// GetUserIDs retrieves the user ids of a chat's current participants
func (r *ParticipantRepository) GetUserIDs(ctx context.Context, chatID int64) ([]int64, error) {
	query := squirrel.Select("user_id").
		From("chat_participants").
		Where("chat_id = ?", chatID).
		OrderBy("user_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return userIDs, nil
}
