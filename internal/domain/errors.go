package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transport failures talking to a collaborator.
	ErrNetwork = errors.New("network error")
	// ErrProvider marks a collaborator that answered with an error or unusable payload.
	ErrProvider = errors.New("provider error")
	// ErrNoResults is returned by image providers without a match.
	ErrNoResults = errors.New("no results")
	// ErrInvalidTransition is returned when a stage status would regress.
	ErrInvalidTransition = errors.New("invalid stage transition")
	// ErrRunInProgress is returned when another run holds the lock.
	ErrRunInProgress = errors.New("another run is in progress")
	// ErrUnknownRequest is returned for progress updates of an unseen request.
	ErrUnknownRequest = errors.New("unknown request")
)

// ValidationError aborts a run before any work when no usable titles remain.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// AuthError aborts a run when no authenticated identity is available.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Reason
}

// StageError wraps a failed generation or provider call.
type StageError struct {
	Stage StageKey
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Message is the text shown next to the stage indicator.
func (e *StageError) Message() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// PersistError wraps a failed article insert.
type PersistError struct {
	Title string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %q: %v", e.Title, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
