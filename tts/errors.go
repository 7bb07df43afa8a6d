package tts

import "errors"

// Common errors for the narration pipeline.
var (
	// Engine errors
	ErrEngineNotAvailable = errors.New("speech engine is not available")
	ErrSynthesisFailed    = errors.New("speech synthesis failed")
	ErrEngineShutdown     = errors.New("engine has been shut down")

	// Script errors
	ErrEmptyScript  = errors.New("empty script provided")
	ErrInvalidVoice = errors.New("invalid voice name")

	// Asset errors
	ErrSoundNotFound  = errors.New("sound not found")
	ErrDownloadFailed = errors.New("asset download failed")

	// Configuration errors
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// General errors
	ErrTimeout  = errors.New("operation timed out")
	ErrCanceled = errors.New("operation was canceled")
)

// IsRecoverableError checks if an error is recoverable. Recoverable errors
// let a job degrade (a missing sound is skipped); the rest abort it.
func IsRecoverableError(err error) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, ErrEngineNotAvailable),
		errors.Is(err, ErrEngineShutdown),
		errors.Is(err, ErrSynthesisFailed),
		errors.Is(err, ErrDownloadFailed),
		errors.Is(err, ErrInvalidConfig):
		return false
	}
	return true
}

// Error provides detailed error information for a narration failure.
type Error struct {
	Err       error  // The underlying error
	Component string // Component that generated the error
	Action    string // Action being performed when the error occurred
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Component + ": " + e.Action + ": " + e.Err.Error()
	}
	return e.Component + ": " + e.Action + ": unknown error"
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRecoverable checks if the error is recoverable.
func (e *Error) IsRecoverable() bool {
	return IsRecoverableError(e.Err)
}

// NewError creates a new narration error with component and action context.
func NewError(err error, component, action string) *Error {
	return &Error{Err: err, Component: component, Action: action}
}
