package dto

// LoginRequest represents credentials for login. Logging in with an unknown
// username registers the account.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// AuthResponse carries the issued access token
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
