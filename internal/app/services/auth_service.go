package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/pkg/apperrors"
	"github.com/ozgur/courier/internal/pkg/auth"
	"github.com/ozgur/courier/internal/pkg/dberrors"
)

// AuthService handles login. There is no separate registration flow: logging
// in with an unknown username creates the account with the given password.
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates the user, creating the account on first use, and
// returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		user, err = s.register(ctx, username, password)
		if err != nil {
			return nil, err
		}
	} else if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn().
			Str("username", username).
			Msg("Login rejected, wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// register creates the account. Two clients racing on the same fresh username
// hit the unique constraint; the loser re-reads the winner's row and must
// still prove the password.
func (s *AuthService) register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	err = s.users.Create(ctx, user)
	if err == nil {
		s.logger.Info().
			Str("username", username).
			Int64("userID", user.ID).
			Msg("Account created on first login")
		return user, nil
	}

	if !dberrors.IsUniqueViolation(err) {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	existing, findErr := s.users.FindByUsername(ctx, username)
	if findErr != nil {
		return nil, fmt.Errorf("failed to look up user after create race: %w", findErr)
	}
	if existing == nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !auth.CheckPassword(existing.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return existing, nil
}
