package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/db"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// UserRepository handles database operations for users
type UserRepository struct {
	database *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{database: database}
}

// Create inserts a new user and fills in the generated id and timestamp
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.database.Pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, display_name, bio, image_id, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.database.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Bio,
		&user.ImageID,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// FindByUsername retrieves a user by username. Returns (nil, nil) when no
// such user exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, display_name, bio, image_id, created_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	err := r.database.Pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Bio,
		&user.ImageID,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// Search retrieves users whose username contains the given fragment; an empty
// fragment lists everyone.
func (r *UserRepository) Search(ctx context.Context, username string) ([]*models.User, error) {
	queryBuilder := squirrel.Select(
		"id", "username", "password_hash", "display_name", "bio", "image_id", "created_at",
	).
		From("users").
		OrderBy("username ASC").
		PlaceholderFormat(squirrel.Dollar)

	if username != "" {
		queryBuilder = queryBuilder.Where("username ILIKE ?", "%"+username+"%")
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

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.DisplayName,
			&user.Bio,
			&user.ImageID,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, displayName, bio *string, imageID *int64) error {
	query := `
		UPDATE users
		SET display_name = $1, bio = $2, image_id = $3
		WHERE id = $4
	`

	result, err := r.database.Pool.Exec(ctx, query, displayName, bio, imageID, userID)
	if err != nil {
		return fmt.Errorf("error updating user profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
