package service

import (
	"errors"
	"fmt"
)

const (
	MinPasswordLength = 4
	MaxMessageLength  = 255
)

var (
	// ErrInvalid is matched by every validation failure.
	ErrInvalid       = errors.New("invalid input")
	ErrUsernameTaken = errors.New("username already taken")
	ErrNotFound      = errors.New("not found")

	ErrInvalidUsername = fmt.Errorf("%w: username must be non-empty UTF-8 text", ErrInvalid)
	ErrInvalidPassword = fmt.Errorf("%w: password must be at least %d characters of UTF-8 text", ErrInvalid, MinPasswordLength)
	ErrInvalidText     = fmt.Errorf("%w: message text must be 1 to %d characters of UTF-8 text", ErrInvalid, MaxMessageLength)
	ErrUnknownAuthor   = fmt.Errorf("%w: posted_by does not reference an account", ErrInvalid)
	ErrMessageNotFound = fmt.Errorf("%w: message does not exist", ErrInvalid)
)
