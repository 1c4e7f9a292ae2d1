package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session is unknown or already ended.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrMissingListener is returned when a controller is built without a presentation collaborator.
	ErrMissingListener = errors.New("round listener is required")
	// ErrControllerStopped indicates the controller's run loop has exited.
	ErrControllerStopped = errors.New("round controller stopped")
)
