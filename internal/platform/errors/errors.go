package apperrors

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrEmptyRoster    = errors.New("roster is empty")
	ErrConcurrentSpin = errors.New("a spin is already in progress")
	ErrInvalidWeight  = errors.New("invalid weight")
)
