package models

import "errors"

// Validation errors raised by model constructors.
var (
	ErrEmptyMessage          = errors.New("message must have text or at least one file")
	ErrInvalidAttachmentType = errors.New("invalid attachment type")
)
