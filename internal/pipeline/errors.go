package pipeline

import (
	"errors"
	"fmt"
)

// Terminal failure reasons a question transaction can report. Degraded
// answer generation and unavailable synthesis are deliberately absent:
// those reduce the richness of a successful transaction, they do not fail it.
const (
	ReasonNoActiveDocument     = "no_active_document"
	ReasonEmptyTranscription   = "empty_transcription"
	ReasonTranscriptionService = "transcription_service_failure"
	ReasonStorage              = "storage_failure"
)

var (
	ErrNoActiveDocument   = errors.New("no document loaded — upload one first")
	ErrEmptyTranscription = errors.New("could not understand the question")
)

// Error is a terminal pipeline failure with a machine-readable reason and a
// message fit for showing to the user.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failure(reason string, err error) *Error {
	return &Error{Reason: reason, Err: err}
}
