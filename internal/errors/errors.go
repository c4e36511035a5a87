// internal/errors/errors.go
package apperrors

import "fmt"

// ValidationError rejects malformed input before any side effect happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned for id-based lookup misses.
type NotFoundError struct {
	CampaignID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

func NewCampaignNotFound(id string) error {
	return &NotFoundError{CampaignID: id}
}

// PersistenceError wraps a store failure. For a launch it is fatal: emails
// already dispatched cannot be un-sent.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save campaign: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(err error) error {
	return &PersistenceError{Err: err}
}
