package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgur/courier/internal/app/models"
	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/pkg/apperrors"
)

// --- fakes ---

type fakeChatStore struct {
	chats     map[int64]*models.Chat
	directIDs map[[2]int64]int64
	nextID    int64
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		chats:     make(map[int64]*models.Chat),
		directIDs: make(map[[2]int64]int64),
	}
}

func directKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func (f *fakeChatStore) FindDirectChatID(_ context.Context, userA, userB int64) (int64, bool, error) {
	id, ok := f.directIDs[directKey(userA, userB)]
	return id, ok, nil
}

func (f *fakeChatStore) CreateDirectChat(_ context.Context, userA, userB int64) (*models.Chat, error) {
	f.nextID++
	chat := &models.Chat{
		ID:           f.nextID,
		Type:         models.ChatTypeDirect,
		CreatedAt:    time.Now(),
		Participants: []int64{userA, userB},
	}
	f.chats[chat.ID] = chat
	f.directIDs[directKey(userA, userB)] = chat.ID
	return chat, nil
}

func (f *fakeChatStore) CreateGroupChat(_ context.Context, name string, memberIDs []int64) (*models.Chat, error) {
	f.nextID++
	chat := &models.Chat{
		ID:           f.nextID,
		Name:         &name,
		Type:         models.ChatTypeGroup,
		CreatedAt:    time.Now(),
		Participants: memberIDs,
	}
	f.chats[chat.ID] = chat
	return chat, nil
}

func (f *fakeChatStore) GetByID(_ context.Context, id int64) (*models.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, apperrors.ErrChatNotFound
	}
	return chat, nil
}

func (f *fakeChatStore) ListByUserID(_ context.Context, userID int64) ([]*models.Chat, error) {
	var result []*models.Chat
	for _, chat := range f.chats {
		for _, id := range chat.Participants {
			if id == userID {
				result = append(result, chat)
				break
			}
		}
	}
	return result, nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error { return nil }

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Search(_ context.Context, username string) ([]*models.User, error) {
	return nil, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, userID int64, displayName, bio *string, imageID *int64) error {
	return nil
}

// chatParticipants adapts a fakeChatStore so membership answers always track
// the chats it holds.
type chatParticipants struct {
	chats *fakeChatStore
}

func (p *chatParticipants) IsParticipant(_ context.Context, chatID, userID int64) (bool, error) {
	chat, ok := p.chats.chats[chatID]
	if !ok {
		return false, nil
	}
	for _, id := range chat.Participants {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (p *chatParticipants) GetUserIDs(_ context.Context, chatID int64) ([]int64, error) {
	chat, ok := p.chats.chats[chatID]
	if !ok {
		return nil, nil
	}
	return chat.Participants, nil
}

func newTestChatService(chats *fakeChatStore, users *fakeUserStore) *ChatService {
	return NewChatService(chats, &chatParticipants{chats: chats}, users, zerolog.Nop())
}

func testUsers(ids ...int64) *fakeUserStore {
	users := make(map[int64]*models.User, len(ids))
	for _, id := range ids {
		users[id] = &models.User{ID: id, Username: "user"}
	}
	return &fakeUserStore{users: users}
}

// --- tests ---

func TestInitiateDirectCreatesChatOnFirstContact(t *testing.T) {
	chats := newFakeChatStore()
	svc := newTestChatService(chats, testUsers(1, 2))

	response, err := svc.InitiateDirect(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, dto.ChatStatusCreated, response.Status)
	assert.NotZero(t, response.ChatID)
}

func TestInitiateDirectReturnsExistingChat(t *testing.T) {
	chats := newFakeChatStore()
	svc := newTestChatService(chats, testUsers(1, 2))

	first, err := svc.InitiateDirect(context.Background(), 1, 2)
	require.NoError(t, err)

	// The pair is unordered; re-initiation from either side finds the chat.
	second, err := svc.InitiateDirect(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, dto.ChatStatusExists, second.Status)
	assert.Equal(t, first.ChatID, second.ChatID)
}

func TestInitiateDirectRejectsSelf(t *testing.T) {
	svc := newTestChatService(newFakeChatStore(), testUsers(1))

	_, err := svc.InitiateDirect(context.Background(), 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestInitiateDirectRejectsUnknownTarget(t *testing.T) {
	svc := newTestChatService(newFakeChatStore(), testUsers(1))

	_, err := svc.InitiateDirect(context.Background(), 1, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCreateGroupAlwaysIncludesCreator(t *testing.T) {
	chats := newFakeChatStore()
	svc := newTestChatService(chats, testUsers(1, 2, 3))

	response, err := svc.CreateGroup(context.Background(), 1, &dto.CreateGroupChatRequest{
		Name:           "weekend plans",
		ParticipantIDs: []int64{2, 3, 2}, // duplicate on purpose
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3}, response.Participants)
	assert.Equal(t, "weekend plans", *response.Name)
}

func TestGetChatRequiresMembership(t *testing.T) {
	chats := newFakeChatStore()
	svc := newTestChatService(chats, testUsers(1, 2, 3))

	created, err := svc.InitiateDirect(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.GetChat(context.Background(), 3, created.ChatID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	chat, err := svc.GetChat(context.Background(), 1, created.ChatID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, chat.Participants)
}

func TestListChatsReturnsOnlyOwn(t *testing.T) {
	chats := newFakeChatStore()
	svc := newTestChatService(chats, testUsers(1, 2, 3))

	_, err := svc.InitiateDirect(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = svc.InitiateDirect(context.Background(), 2, 3)
	require.NoError(t, err)

	mine, err := svc.ListChats(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListChats(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
}
