package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/pkg/apperrors"
	"github.com/ozgur/courier/internal/pkg/auth"
)

type authFakeUsers struct {
	byName    map[string]*models.User
	nextID    int64
	createErr error
}

func newAuthFakeUsers() *authFakeUsers {
	return &authFakeUsers{byName: make(map[string]*models.User)}
}

func (f *authFakeUsers) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.byName[user.Username] = user
	return nil
}

func (f *authFakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.byName {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *authFakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return f.byName[username], nil
}

func (f *authFakeUsers) Search(_ context.Context, username string) ([]*models.User, error) {
	return nil, nil
}

func (f *authFakeUsers) UpdateProfile(_ context.Context, userID int64, displayName, bio *string, imageID *int64) error {
	return nil
}

func newTestAuthService(users UserStore) (*AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return NewAuthService(users, jwtService, zerolog.Nop()), jwtService
}

func TestLoginCreatesAccountOnFirstUse(t *testing.T) {
	users := newAuthFakeUsers()
	svc, jwtService := newTestAuthService(users)

	response, err := svc.Login(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)

	created := users.byName["alice"]
	require.NotNil(t, created, "account should exist after first login")
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash, "password must be stored hashed")

	claims, err := jwtService.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginVerifiesPasswordOnReturn(t *testing.T) {
	users := newAuthFakeUsers()
	svc, _ := newTestAuthService(users)

	_, err := svc.Login(context.Background(), "bob", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "bob", "wrong-battery")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	response, err := svc.Login(context.Background(), "bob", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)
}

// racingUsers simulates losing a create race: the insert hits the unique
// constraint and the subsequent lookup finds the winner's row.
type racingUsers struct {
	*authFakeUsers
	winner *models.User
	raced  bool
}

func (f *racingUsers) Create(_ context.Context, user *models.User) error {
	f.raced = true
	f.byName[f.winner.Username] = f.winner
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
}

func TestLoginSurvivesCreateRace(t *testing.T) {
	hash, err := auth.HashPassword("shared-pass")
	require.NoError(t, err)

	users := &racingUsers{
		authFakeUsers: newAuthFakeUsers(),
		winner:        &models.User{ID: 7, Username: "carol", PasswordHash: hash},
	}
	svc, jwtService := newTestAuthService(users)

	response, err := svc.Login(context.Background(), "carol", "shared-pass")
	require.NoError(t, err)
	assert.True(t, users.raced)

	claims, err := jwtService.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestLoginCreateRaceStillChecksPassword(t *testing.T) {
	hash, err := auth.HashPassword("winners-pass")
	require.NoError(t, err)

	users := &racingUsers{
		authFakeUsers: newAuthFakeUsers(),
		winner:        &models.User{ID: 8, Username: "dave", PasswordHash: hash},
	}
	svc, _ := newTestAuthService(users)

	_, err = svc.Login(context.Background(), "dave", "losers-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
