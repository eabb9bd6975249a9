package models

import "time"

// User represents a registered account. Accounts are created implicitly on
// first login and are never deleted.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  *string   `json:"displayName,omitempty" db:"display_name"`
	Bio          *string   `json:"bio,omitempty" db:"bio"`
	ImageID      *int64    `json:"imageId,omitempty" db:"image_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
