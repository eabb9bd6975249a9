package dto

import "github.com/ozgur/courier/internal/app/models"

// UserSearchRequest represents filter parameters for user search
type UserSearchRequest struct {
	Username string `form:"username"`
}

// UpdateProfileRequest represents data for updating the caller's profile
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,max=128"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=1024"`
	ImageID     *int64  `json:"imageId,omitempty" binding:"omitempty,gt=0"`
}

// UserResponse represents a user profile
type UserResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	ImageID     *int64  `json:"imageId,omitempty"`
}

// ToUserResponse converts a models.User to UserResponse
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		ImageID:     user.ImageID,
	}
}
