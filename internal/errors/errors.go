// Package errors defines the typed error taxonomy shared by all services.
// Every state-machine guard failure is recovered into a DomainError so the
// HTTP layer can translate it into a status code without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a DomainError for HTTP translation.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
	KindAuth         Kind = "auth"
	KindInternal     Kind = "internal"
)

// DomainError carries a stable machine-readable code alongside the
// human-readable message returned to API callers.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is lets errors.Is match two domain errors by code.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// Validationf builds a KindValidation error with a formatted message.
func Validationf(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// unexpected persistence or network failures.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
