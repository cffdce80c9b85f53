package service

import (
	"errors"
	"fmt"

	"LetterHunt/internal/model"
)

// Machine-readable codes carried by ValidationError and ConflictError.
// The API layer keys its status mapping off these.
const (
	CodeMissingImage     = "missing_image"
	CodeUnsupportedMedia = "unsupported_media"
	CodePayloadTooLarge  = "payload_too_large"
	CodeMissingField     = "missing_field"
	CodeInvalidLetter    = "invalid_letter"
	CodeNamingViolation  = "naming_violation"

	CodeNoActiveGame     = "no_active_game"
	CodeLetterMismatch   = "letter_mismatch"
	CodeLetterAlreadyWon = "letter_already_won"
)

// ErrNoWallet means a winner has no wallet on file: the win stands but
// no payout is possible.
var ErrNoWallet = errors.New("winner has no wallet address")

// ValidationError is user-correctable bad input. Detected before any
// durable write, so it never needs compensation.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ConflictError is input that is well-formed but clashes with current
// game state. ExistingWinner is set for letter_already_won so the API
// can echo who holds the letter.
type ConflictError struct {
	Code           string
	Message        string
	ExistingWinner *model.Winner
}

func (e *ConflictError) Error() string { return e.Message }

func conflictErr(code, format string, args ...interface{}) *ConflictError {
	return &ConflictError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError wraps an unknown-id lookup.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// DependencyError is a failure of a backing system (database, blob
// store, reward service). Not user-correctable; surfaces as 500.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *DependencyError) Unwrap() error { return e.Err }

func dependencyErr(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}
