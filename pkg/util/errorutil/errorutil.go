package errorutil

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Kind classifies a DomainError independently of any transport.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindInvalidRange    Kind = "INVALID_RANGE"
	KindConflict        Kind = "CONFLICT"
	KindValidation      Kind = "VALIDATION_FAILED"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same kind, so errors.Is(err, ErrForbidden) works.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels usable with errors.Is.
var (
	ErrUnauthenticated = &DomainError{Kind: KindUnauthenticated}
	ErrNotFound        = &DomainError{Kind: KindNotFound}
	ErrForbidden       = &DomainError{Kind: KindForbidden}
	ErrInvalidRange    = &DomainError{Kind: KindInvalidRange}
	ErrConflict        = &DomainError{Kind: KindConflict}
	ErrValidation      = &DomainError{Kind: KindValidation}
)

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Code: string(kind), Message: message, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, message, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource), details)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(KindUnauthenticated, message, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, nil)
}

func NewInvalidRange(message string, details map[string]any) error {
	return NewDomainError(KindInvalidRange, message, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:    KindInternal,
		Code:    string(KindInternal),
		Message: "internal server error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(KindNotFound, "resource not found", map[string]any{})
	}
	return &DomainError{
		Kind:    KindInternal,
		Code:    string(KindInternal),
		Message: "internal server error",
		Err:     err,
	}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if de := ToDomainError(err); de != nil {
		return de.Kind
	}
	return ""
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
