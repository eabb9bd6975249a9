package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// MessageService implements the send path: authorize the sender, persist the
// message with its attachments atomically, then fan the hydrated message out
// to every participant's live sessions. It also serves history reads.
type MessageService struct {
	messages     MessageStore
	participants ParticipantStore
	registry     Registry

	maxFiles    int
	maxFileSize int64

	logger zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages MessageStore,
	participants ParticipantStore,
	registry Registry,
	maxFiles int,
	maxFileSize int64,
	logger zerolog.Logger,
) *MessageService {
	return &MessageService{
		messages:     messages,
		participants: participants,
		registry:     registry,
		maxFiles:     maxFiles,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// Send processes one message submission. The caller gets the persisted,
// hydrated message back once the transaction commits; delivery to live
// sessions happens after that and can never fail the send. Nothing is written
// for an unauthorized sender or an invalid message.
func (s *MessageService) Send(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	isMember, err := s.participants.IsParticipant(ctx, req.ChatID, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check chat membership: %w", err)
	}
	if !isMember {
		return nil, apperrors.NewForbiddenError("you are not a participant of this chat")
	}

	attachments, err := s.validateAttachments(req.Files)
	if err != nil {
		return nil, err
	}

	message, err := models.NewMessage(req.ChatID, senderID, req.Content, attachments)
	if err != nil {
		if errors.Is(err, models.ErrEmptyMessage) || errors.Is(err, models.ErrInvalidAttachmentType) {
			return nil, apperrors.NewInvalidMessageError(err.Error())
		}
		return nil, err
	}

	if err := s.messages.CreateWithFiles(ctx, message, attachments); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	response := dto.ToMessageResponse(message)
	s.fanOut(ctx, &response)

	return &response, nil
}

// validateAttachments enforces the per-message limits and converts the
// payloads, all before anything is written.
func (s *MessageService) validateAttachments(payloads []dto.AttachmentPayload) ([]models.Attachment, error) {
	if len(payloads) > s.maxFiles {
		return nil, apperrors.NewInvalidMessageError(
			fmt.Sprintf("a message may carry at most %d files", s.maxFiles))
	}

	attachments := make([]models.Attachment, 0, len(payloads))
	for _, p := range payloads {
		if p.SizeBytes > s.maxFileSize {
			return nil, apperrors.NewInvalidMessageError(
				fmt.Sprintf("file %q exceeds the %d byte limit", p.Filename, s.maxFileSize))
		}
		attachments = append(attachments, p.ToAttachment())
	}
	return attachments, nil
}

// fanOut pushes the hydrated message to every current participant of the
// chat, the sender included, so every device of every member sees it. The
// participant set is read fresh after the commit. Failures here are logged
// and swallowed; the message is already durable.
func (s *MessageService) fanOut(ctx context.Context, message *dto.MessageResponse) {
	userIDs, err := s.participants.GetUserIDs(ctx, message.ChatID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("chatID", message.ChatID).
			Int64("messageID", message.ID).
			Msg("Failed to load participants for fan-out")
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("messageID", message.ID).
			Msg("Failed to marshal message for fan-out")
		return
	}

	offline := 0
	for _, userID := range userIDs {
		if s.registry.Push(userID, payload) == 0 {
			offline++
		}
	}

	if offline > 0 {
		s.logger.Debug().
			Int64("chatID", message.ChatID).
			Int64("messageID", message.ID).
			Int("offline", offline).
			Int("participants", len(userIDs)).
			Msg("Message not delivered to offline participants")
	}
}

// GetHistory retrieves a page of a chat's messages in ascending id order.
// Only current participants may read it.
func (s *MessageService) GetHistory(ctx context.Context, userID, chatID int64, req *dto.GetMessagesRequest) (*dto.MessageListResponse, error) {
	isMember, err := s.participants.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check chat membership: %w", err)
	}
	if !isMember {
		return nil, apperrors.NewForbiddenError("you are not a participant of this chat")
	}

	messages, err := s.messages.ListByChatID(ctx, chatID, req.AfterID, req.BeforeID, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.ToMessageResponse(message))
	}

	return &dto.MessageListResponse{ChatID: chatID, Messages: responses}, nil
}

// HandleInbound parses a send frame from a live connection and runs it
// through Send. The sender's own echo arrives through the registry like any
// other delivery, so the return value is not written back directly.
func (s *MessageService) HandleInbound(ctx context.Context, senderID int64, frame []byte) error {
	var req dto.SendMessageRequest
	if err := json.Unmarshal(frame, &req); err != nil {
		return apperrors.NewBadRequestError("malformed message frame")
	}
	if req.ChatID <= 0 {
		return apperrors.NewBadRequestError("chatId is required")
	}

	_, err := s.Send(ctx, senderID, &req)
	return err
}
