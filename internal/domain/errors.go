package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is
var (
	ErrDuplicateName    = errors.New("duplicate counter name")
	ErrUnknownCounter   = errors.New("unknown counter")
	ErrProtectedCounter = errors.New("protected counter")
	ErrUnresolvedToken  = errors.New("unresolved token")
	ErrMalformed        = errors.New("malformed template")
	ErrInvalidCounter   = errors.New("invalid counter")
)

// DuplicateNameError is returned when creating a counter whose name is taken
// and the caller did not ask to overwrite it.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("counter %q already exists", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// UnknownCounterError is returned for operations on a counter that does not exist
type UnknownCounterError struct {
	Name string
}

func (e *UnknownCounterError) Error() string {
	return fmt.Sprintf("unknown counter %q", e.Name)
}

func (e *UnknownCounterError) Is(target error) bool {
	return target == ErrUnknownCounter
}

// ProtectedCounterError is returned when deleting the default counter
type ProtectedCounterError struct {
	Name string
}

func (e *ProtectedCounterError) Error() string {
	return fmt.Sprintf("counter %q cannot be deleted", e.Name)
}

func (e *ProtectedCounterError) Is(target error) bool {
	return target == ErrProtectedCounter
}

// UnresolvedTokenError is returned when a template references a name that is
// neither a built-in token nor a counter.
type UnresolvedTokenError struct {
	Name string
}

func (e *UnresolvedTokenError) Error() string {
	return fmt.Sprintf("unknown token {%s}", e.Name)
}

func (e *UnresolvedTokenError) Is(target error) bool {
	return target == ErrUnresolvedToken
}

// MalformedTemplateError reports unbalanced braces in a template
type MalformedTemplateError struct {
	Template string
	Offset   int
	Reason   string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed template %q at offset %d: %s", e.Template, e.Offset, e.Reason)
}

func (e *MalformedTemplateError) Is(target error) bool {
	return target == ErrMalformed
}

// InvalidCounterError reports a counter definition that cannot be created
type InvalidCounterError struct {
	Name   string
	Reason string
}

func (e *InvalidCounterError) Error() string {
	return fmt.Sprintf("invalid counter %q: %s", e.Name, e.Reason)
}

func (e *InvalidCounterError) Is(target error) bool {
	return target == ErrInvalidCounter
}
