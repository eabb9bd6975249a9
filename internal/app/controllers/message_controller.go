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

// MessageController handles message endpoints. The send endpoint is the
// synchronous counterpart of the live-connection path; both run through the
// same service.
type MessageController struct {
	messageService *services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService *services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// SendMessage persists a message in the chat and fans it out to connected
// participants. The chat id comes from the path, not the body.
func (ctrl *MessageController) SendMessage(c *gin.Context) {
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

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.ChatID = chatID

	response, err := ctrl.messageService.Send(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetMessages retrieves a page of the chat's history in ascending id order
func (ctrl *MessageController) GetMessages(c *gin.Context) {
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

	var req dto.GetMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := ctrl.messageService.GetHistory(c.Request.Context(), userID, chatID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
