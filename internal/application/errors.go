package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound    = errors.New("not found")
	ErrNoImage     = errors.New("no image available")
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceReadError reports an index file that exists but cannot be used.
// Loading recovers from it by falling back to defaults.
type PersistenceReadError struct {
	Path string
	Err  error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("cannot read index %s: %v", e.Path, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

func (e *PersistenceReadError) Is(target error) bool {
	return target == ErrPersistence
}

// PersistenceWriteError reports a failed index write. The save that caused
// it is considered failed.
type PersistenceWriteError struct {
	Path string
	Err  error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("cannot write index %s: %v", e.Path, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error {
	return e.Err
}

func (e *PersistenceWriteError) Is(target error) bool {
	return target == ErrPersistence
}

// CaptureUnavailableError is returned when there is nothing to save: no image
// on the clipboard and no readable image path in the clipboard text.
type CaptureUnavailableError struct {
	Source string
	Reason string
}

func (e *CaptureUnavailableError) Error() string {
	return fmt.Sprintf("no image found in %s: %s", e.Source, e.Reason)
}

func (e *CaptureUnavailableError) Is(target error) bool {
	return target == ErrNoImage
}
