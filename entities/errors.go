package entities

import "errors"

var (
	ErrNotFound          = errors.New("item not found")
	ErrConflict          = errors.New("item already exists")
	ErrEmptyMedia        = errors.New("no media file")
	ErrInvalidTransition = errors.New("invalid status transition")
)
