package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewMessageRequiresContentOrAttachments(t *testing.T) {
	_, err := NewMessage(1, 2, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = NewMessage(1, 2, strPtr(""), nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = NewMessage(1, 2, strPtr("  \t "), nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNewMessageNormalizesBlankContent(t *testing.T) {
	attachments := []Attachment{{Type: FileTypePicture, URL: "/u/p.png", Filename: "p.png", SizeBytes: 10}}

	message, err := NewMessage(1, 2, strPtr("   "), attachments)
	require.NoError(t, err)
	assert.Nil(t, message.Content)
	assert.False(t, message.HasContent())
}

func TestNewMessageAcceptsTextOnly(t *testing.T) {
	message, err := NewMessage(1, 2, strPtr("hello"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), message.ChatID)
	assert.Equal(t, int64(2), message.SenderID)
	assert.True(t, message.HasContent())
}

func TestNewMessageRejectsUnknownAttachmentType(t *testing.T) {
	attachments := []Attachment{{Type: "hologram", URL: "/u/h", Filename: "h", SizeBytes: 10}}

	_, err := NewMessage(1, 2, nil, attachments)
	assert.ErrorIs(t, err, ErrInvalidAttachmentType)
}

func TestFileTypeValid(t *testing.T) {
	for _, valid := range []FileType{FileTypePicture, FileTypeVideo, FileTypeAudio, FileTypeFile} {
		assert.True(t, valid.Valid(), "type %s should be valid", valid)
	}
	assert.False(t, FileType("document").Valid())
	assert.False(t, FileType("").Valid())
}
