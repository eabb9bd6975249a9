package services

import (
	"context"
	"encoding/json"
	"errors"
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

type fakeParticipantStore struct {
	members map[int64][]int64
	err     error
}

func (f *fakeParticipantStore) IsParticipant(_ context.Context, chatID, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, id := range f.members[chatID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeParticipantStore) GetUserIDs(_ context.Context, chatID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members[chatID], nil
}

type fakeMessageStore struct {
	created   []*models.Message
	createErr error
	listed    []*models.Message
	nextID    int64
}

func (f *fakeMessageStore) CreateWithFiles(_ context.Context, message *models.Message, attachments []models.Attachment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	message.ID = f.nextID
	message.Timestamp = time.Now()
	message.Files = make([]models.File, 0, len(attachments))
	for i, a := range attachments {
		message.Files = append(message.Files, models.File{
			ID:        f.nextID*100 + int64(i),
			Type:      a.Type,
			URL:       a.URL,
			Filename:  a.Filename,
			MimeType:  a.MimeType,
			SizeBytes: a.SizeBytes,
		})
	}
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageStore) ListByChatID(_ context.Context, chatID int64, afterID, beforeID *int64, limit int) ([]*models.Message, error) {
	return f.listed, nil
}

type fakeRegistry struct {
	pushes map[int64][][]byte
	online map[int64]int
}

func newFakeRegistry(online map[int64]int) *fakeRegistry {
	return &fakeRegistry{pushes: make(map[int64][][]byte), online: online}
}

func (f *fakeRegistry) Push(userID int64, payload []byte) int {
	f.pushes[userID] = append(f.pushes[userID], payload)
	return f.online[userID]
}

func newTestMessageService(messages *fakeMessageStore, participants *fakeParticipantStore, registry *fakeRegistry) *MessageService {
	return NewMessageService(messages, participants, registry, 10, 10*1024*1024, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

// --- tests ---

func TestSendRejectsNonParticipant(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10, 20}}}
	messages := &fakeMessageStore{}
	registry := newFakeRegistry(nil)
	svc := newTestMessageService(messages, participants, registry)

	_, err := svc.Send(context.Background(), 99, &dto.SendMessageRequest{
		ChatID:  1,
		Content: strPtr("hi"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, messages.created, "nothing should be persisted for an unauthorized sender")
	assert.Empty(t, registry.pushes, "nothing should be delivered for an unauthorized sender")
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{}
	svc := newTestMessageService(messages, participants, newFakeRegistry(nil))

	cases := []struct {
		name    string
		content *string
	}{
		{"nil content", nil},
		{"blank content", strPtr("   ")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), 10, &dto.SendMessageRequest{
				ChatID:  1,
				Content: tc.content,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidMessage)
			assert.Empty(t, messages.created)
		})
	}
}

func TestSendAcceptsFilesOnlyMessage(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{}
	svc := newTestMessageService(messages, participants, newFakeRegistry(nil))

	response, err := svc.Send(context.Background(), 10, &dto.SendMessageRequest{
		ChatID: 1,
		Files: []dto.AttachmentPayload{
			{Type: "picture", URL: "/uploads/a.png", Filename: "a.png", SizeBytes: 1024},
		},
	})

	require.NoError(t, err)
	assert.Nil(t, response.Content)
	require.Len(t, response.Files, 1)
	assert.Equal(t, "a.png", response.Files[0].Filename)
}

func TestSendEnforcesAttachmentLimits(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{}
	svc := NewMessageService(messages, participants, newFakeRegistry(nil), 2, 100, zerolog.Nop())

	tooMany := []dto.AttachmentPayload{
		{Type: "file", URL: "/u/1", Filename: "1", SizeBytes: 1},
		{Type: "file", URL: "/u/2", Filename: "2", SizeBytes: 1},
		{Type: "file", URL: "/u/3", Filename: "3", SizeBytes: 1},
	}
	_, err := svc.Send(context.Background(), 10, &dto.SendMessageRequest{ChatID: 1, Files: tooMany})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMessage)

	tooBig := []dto.AttachmentPayload{
		{Type: "file", URL: "/u/1", Filename: "big", SizeBytes: 101},
	}
	_, err = svc.Send(context.Background(), 10, &dto.SendMessageRequest{ChatID: 1, Files: tooBig})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMessage)

	badType := []dto.AttachmentPayload{
		{Type: "hologram", URL: "/u/1", Filename: "h", SizeBytes: 1},
	}
	_, err = svc.Send(context.Background(), 10, &dto.SendMessageRequest{ChatID: 1, Files: badType})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMessage)

	assert.Empty(t, messages.created)
}

func TestSendFansOutToEveryParticipantIncludingSender(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10, 20, 30}}}
	messages := &fakeMessageStore{}
	registry := newFakeRegistry(map[int64]int{10: 1, 20: 2, 30: 0})
	svc := newTestMessageService(messages, participants, registry)

	response, err := svc.Send(context.Background(), 10, &dto.SendMessageRequest{
		ChatID:  1,
		Content: strPtr("hello all"),
	})
	require.NoError(t, err)

	require.Len(t, registry.pushes, 3)
	for _, userID := range []int64{10, 20, 30} {
		require.Len(t, registry.pushes[userID], 1, "participant %d should receive the push", userID)

		var pushed dto.MessageResponse
		require.NoError(t, json.Unmarshal(registry.pushes[userID][0], &pushed))
		assert.Equal(t, response.ID, pushed.ID)
		assert.Equal(t, int64(10), pushed.SenderID)
		assert.Equal(t, "hello all", *pushed.Content)
	}
}

func TestSendSucceedsWhenEveryoneIsOffline(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10, 20}}}
	messages := &fakeMessageStore{}
	registry := newFakeRegistry(nil) // every push returns 0
	svc := newTestMessageService(messages, participants, registry)

	response, err := svc.Send(context.Background(), 10, &dto.SendMessageRequest{
		ChatID:  1,
		Content: strPtr("durable"),
	})

	require.NoError(t, err)
	assert.NotZero(t, response.ID)
	assert.Len(t, messages.created, 1)
}

func TestSendReturnsPersistenceError(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{createErr: errors.New("connection lost")}
	registry := newFakeRegistry(nil)
	svc := newTestMessageService(messages, participants, registry)

	_, err := svc.Send(context.Background(), 10, &dto.SendMessageRequest{
		ChatID:  1,
		Content: strPtr("doomed"),
	})

	require.Error(t, err)
	assert.Empty(t, registry.pushes, "nothing may be delivered when the transaction fails")
}

func TestGetHistoryRequiresMembership(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{}
	svc := newTestMessageService(messages, participants, newFakeRegistry(nil))

	_, err := svc.GetHistory(context.Background(), 99, 1, &dto.GetMessagesRequest{Limit: 100})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetHistoryReturnsHydratedMessages(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{
		listed: []*models.Message{
			{ID: 1, ChatID: 1, SenderID: 10, Content: strPtr("one"), Files: []models.File{}},
			{ID: 2, ChatID: 1, SenderID: 10, Files: []models.File{{ID: 5, Type: models.FileTypePicture, Filename: "p.png"}}},
		},
	}
	svc := newTestMessageService(messages, participants, newFakeRegistry(nil))

	response, err := svc.GetHistory(context.Background(), 10, 1, &dto.GetMessagesRequest{Limit: 100})
	require.NoError(t, err)
	require.Len(t, response.Messages, 2)
	assert.Equal(t, "one", *response.Messages[0].Content)
	require.Len(t, response.Messages[1].Files, 1)
	assert.Equal(t, "p.png", response.Messages[1].Files[0].Filename)
}

func TestHandleInboundRejectsMalformedFrame(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10}}}
	messages := &fakeMessageStore{}
	svc := newTestMessageService(messages, participants, newFakeRegistry(nil))

	err := svc.HandleInbound(context.Background(), 10, []byte("{not json"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	err = svc.HandleInbound(context.Background(), 10, []byte(`{"content":"no chat"}`))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Empty(t, messages.created)
}

func TestHandleInboundPersistsValidFrame(t *testing.T) {
	participants := &fakeParticipantStore{members: map[int64][]int64{1: {10, 20}}}
	messages := &fakeMessageStore{}
	registry := newFakeRegistry(map[int64]int{20: 1})
	svc := newTestMessageService(messages, participants, registry)

	err := svc.HandleInbound(context.Background(), 10, []byte(`{"chatId":1,"content":"over the wire"}`))
	require.NoError(t, err)

	require.Len(t, messages.created, 1)
	assert.Equal(t, int64(10), messages.created[0].SenderID)
	assert.Len(t, registry.pushes, 2)
}
