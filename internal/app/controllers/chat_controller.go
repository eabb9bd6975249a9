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

// ChatController handles chat endpoints
type ChatController struct {
	chatService *services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// InitiateDirectChat returns the direct chat with the target user, creating
// it when the pair has none. Responds 201 when a chat was created, 200 when
// it already existed.
func (ctrl *ChatController) InitiateDirectChat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.InitiateDirectChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := ctrl.chatService.InitiateDirect(c.Request.Context(), userID, req.TargetID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	status := http.StatusOK
	if response.Status == dto.ChatStatusCreated {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewSuccessResponse(response))
}

// CreateGroupChat creates a named group chat with the caller as a member
func (ctrl *ChatController) CreateGroupChat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenInvalid)
		return
	}

	var req dto.CreateGroupChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := ctrl.chatService.CreateGroup(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// ListChats retrieves the caller's chats
func (ctrl *ChatController) ListChats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenInvalid)
		return
	}

	responses, err := ctrl.chatService.ListChats(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// GetChat retrieves a chat with its participants
func (ctrl *ChatController) GetChat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenInvalid)
		return
	}

	chatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("invalid chat id"))
		return
	}

	response, err := ctrl.chatService.GetChat(c.Request.Context(), userID, chatID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
