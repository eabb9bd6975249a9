package repositories

import (
	"github.com/ozgur/courier/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	ChatRepository        *ChatRepository
	ParticipantRepository *ParticipantRepository
	MessageRepository     *MessageRepository
	FileRepository        *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(database),
		ChatRepository:        NewChatRepository(database),
		ParticipantRepository: NewParticipantRepository(database),
		MessageRepository:     NewMessageRepository(database),
		FileRepository:        NewFileRepository(database),
	}
}
