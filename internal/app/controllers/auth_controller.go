package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/app/services"
	"github.com/ozgur/courier/internal/middleware"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login authenticates the caller and returns an access token. An unknown
// username registers a new account with the given password.
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := ctrl.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
