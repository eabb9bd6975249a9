package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// ChatService handles chat creation, lookup and listing
type ChatService struct {
	chats        ChatStore
	participants ParticipantStore
	users        UserStore
	logger       zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(chats ChatStore, participants ParticipantStore, users UserStore, logger zerolog.Logger) *ChatService {
	return &ChatService{
		chats:        chats,
		participants: participants,
		users:        users,
		logger:       logger,
	}
}

// InitiateDirect returns the direct chat between the caller and the target,
// creating it if the pair has none yet. The status field tells the caller
// which case occurred.
func (s *ChatService) InitiateDirect(ctx context.Context, userID, targetID int64) (*dto.InitiateDirectChatResponse, error) {
	if targetID == userID {
		return nil, apperrors.NewBadRequestError("cannot start a direct chat with yourself")
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}

	chatID, found, err := s.chats.FindDirectChatID(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if found {
		return &dto.InitiateDirectChatResponse{ChatID: chatID, Status: dto.ChatStatusExists}, nil
	}

	chat, err := s.chats.CreateDirectChat(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("chatID", chat.ID).
		Int64("userID", userID).
		Int64("targetID", targetID).
		Msg("Direct chat created")

	return &dto.InitiateDirectChatResponse{ChatID: chat.ID, Status: dto.ChatStatusCreated}, nil
}

// CreateGroup creates a named group chat. The creator is always a member,
// whether or not they appear in the participant list.
func (s *ChatService) CreateGroup(ctx context.Context, creatorID int64, req *dto.CreateGroupChatRequest) (*dto.ChatResponse, error) {
	memberIDs := dedupeMembers(creatorID, req.ParticipantIDs)

	for _, memberID := range memberIDs {
		if memberID == creatorID {
			continue
		}
		if _, err := s.users.FindByID(ctx, memberID); err != nil {
			return nil, err
		}
	}

	chat, err := s.chats.CreateGroupChat(ctx, req.Name, memberIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("chatID", chat.ID).
		Int64("creatorID", creatorID).
		Int("members", len(memberIDs)).
		Msg("Group chat created")

	response := dto.ToChatResponse(chat)
	return &response, nil
}

// ListChats retrieves the caller's chats with their participant ids
func (s *ChatService) ListChats(ctx context.Context, userID int64) ([]dto.ChatResponse, error) {
	chats, err := s.chats.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		if err := s.loadParticipants(ctx, chat); err != nil {
			return nil, err
		}
		responses = append(responses, dto.ToChatResponse(chat))
	}
	return responses, nil
}

// GetChat retrieves a chat with its participants. Only current participants
// may read it.
func (s *ChatService) GetChat(ctx context.Context, userID, chatID int64) (*dto.ChatResponse, error) {
	isMember, err := s.participants.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check chat membership: %w", err)
	}
	if !isMember {
		return nil, apperrors.NewForbiddenError("you are not a participant of this chat")
	}

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.loadParticipants(ctx, chat); err != nil {
		return nil, err
	}

	response := dto.ToChatResponse(chat)
	return &response, nil
}

func (s *ChatService) loadParticipants(ctx context.Context, chat *models.Chat) error {
	userIDs, err := s.participants.GetUserIDs(ctx, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to load participants of chat %d: %w", chat.ID, err)
	}
	chat.Participants = userIDs
	return nil
}

// dedupeMembers returns the creator plus the given ids with duplicates
// removed, preserving first-seen order.
func dedupeMembers(creatorID int64, participantIDs []int64) []int64 {
	seen := map[int64]struct{}{creatorID: {}}
	memberIDs := []int64{creatorID}
	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		memberIDs = append(memberIDs, id)
	}
	return memberIDs
}
