package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// UserService handles user profile operations
type UserService struct {
	users  UserStore
	files  FileStore
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, files FileStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		files:  files,
		logger: logger,
	}
}

// GetByID retrieves a user profile
func (s *UserService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := dto.ToUserResponse(user)
	return &response, nil
}

// Search retrieves users whose username contains the given fragment
func (s *UserService) Search(ctx context.Context, username string) ([]dto.UserResponse, error) {
	users, err := s.users.Search(ctx, username)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.ToUserResponse(user))
	}
	return responses, nil
}

// UpdateProfile updates the caller's profile fields and returns the updated
// profile. A referenced profile image must be an uploaded file.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if req.ImageID != nil {
		if _, err := s.files.GetByID(ctx, *req.ImageID); err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewBadRequestError(
					fmt.Sprintf("profile image %d does not exist", *req.ImageID))
			}
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, userID, req.DisplayName, req.Bio, req.ImageID); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, userID)
}
