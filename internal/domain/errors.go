package domain

import "errors"

// Domain errors
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownPlayer     = errors.New("player not in session")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrAlreadyQueued     = errors.New("participant already queued or racing")
)
