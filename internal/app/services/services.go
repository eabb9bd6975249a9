package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/app/repositories"
	"github.com/ozgur/courier/internal/config"
	"github.com/ozgur/courier/internal/pkg/auth"
)

// Store interfaces consumed by the services. The repositories satisfy them;
// tests substitute in-memory fakes.

// UserStore provides access to user records
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Search(ctx context.Context, username string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, displayName, bio *string, imageID *int64) error
}

// ChatStore provides access to chat records
type ChatStore interface {
	FindDirectChatID(ctx context.Context, userA, userB int64) (int64, bool, error)
	CreateDirectChat(ctx context.Context, userA, userB int64) (*models.Chat, error)
	CreateGroupChat(ctx context.Context, name string, memberIDs []int64) (*models.Chat, error)
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Chat, error)
}

// ParticipantStore answers chat membership questions
type ParticipantStore interface {
	IsParticipant(ctx context.Context, chatID, userID int64) (bool, error)
	GetUserIDs(ctx context.Context, chatID int64) ([]int64, error)
}

// MessageStore persists and reads messages
type MessageStore interface {
	CreateWithFiles(ctx context.Context, message *models.Message, attachments []models.Attachment) error
	ListByChatID(ctx context.Context, chatID int64, afterID, beforeID *int64, limit int) ([]*models.Message, error)
}

// FileStore provides access to stored file records
type FileStore interface {
	GetByID(ctx context.Context, id int64) (*models.File, error)
}

// Registry delivers a payload to every live session of a user and reports how
// many sessions accepted it. Zero means the user is offline.
type Registry interface {
	Push(userID int64, payload []byte) int
}

// Services holds all the service instances
type Services struct {
	AuthService    *AuthService
	UserService    *UserService
	ChatService    *ChatService
	MessageService *MessageService
}

// NewServices initializes all services
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	registry Registry,
	cfg *config.Config,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository,
			jwtService,
			logger.With().Str("service", "auth").Logger(),
		),
		UserService: NewUserService(
			repos.UserRepository,
			repos.FileRepository,
			logger.With().Str("service", "user").Logger(),
		),
		ChatService: NewChatService(
			repos.ChatRepository,
			repos.ParticipantRepository,
			repos.UserRepository,
			logger.With().Str("service", "chat").Logger(),
		),
		MessageService: NewMessageService(
			repos.MessageRepository,
			repos.ParticipantRepository,
			registry,
			cfg.Chat.MaxFilesPerMessage,
			cfg.Chat.MaxFileSizeBytes,
			logger.With().Str("service", "message").Logger(),
		),
	}
}
