package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/app/services"
	"github.com/ozgur/courier/internal/middleware"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// UserController handles user profile endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUser retrieves a user profile by id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("invalid user id"))
		return
	}

	response, err := ctrl.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SearchUsers retrieves users whose username contains the query fragment
func (ctrl *UserController) SearchUsers(c *gin.Context) {
	var req dto.UserSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	responses, err := ctrl.userService.Search(c.Request.Context(), req.Username)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// UpdateProfile updates the caller's profile fields
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
