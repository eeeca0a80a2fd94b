package sqlitestore

import (
	"errors"
	"fmt"

	"github.com/buildsignal/statusstore/internal/ident"
)

// Kind is the store-level error taxonomy from spec.md §7. The RPC layer
// maps each Kind to a gRPC status code; nothing downstream of this package
// should need to inspect driver-specific error types.
type Kind int

const (
	KindStorageFailure Kind = iota
	KindInvalidIdentifier
	KindEmptyColumns
	KindInvalidTimeRange
	KindMissingField
	KindNotInitialized
	KindDuplicate
)

// Error is a classified store error. The message is always safe to log: it
// never contains generated SQL, only identifiers and counts.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func errNotInitialized(repositoryID string) *Error {
	return newError(KindNotInitialized, fmt.Sprintf("repository %q has no database yet", repositoryID), nil)
}

func errMissingField(field string) *Error {
	return newError(KindMissingField, fmt.Sprintf("%s is a mandatory field", field), nil)
}

func errEmptyColumns() *Error {
	return newError(KindEmptyColumns, "at least one column is required", nil)
}

func errInvalidTimeRange(from, to int64) *Error {
	return newError(KindInvalidTimeRange, fmt.Sprintf("invalid time range: from=%d to=%d", from, to), nil)
}

func errDuplicate(cause error) *Error {
	return newError(KindDuplicate, "duplicate record", cause)
}

func errStorage(message string, cause error) *Error {
	return newError(KindStorageFailure, message, cause)
}

// errInvalidIdentifier wraps an ident.Error (or any identifier validation
// failure) as a store Error without leaking SQL.
func errInvalidIdentifier(err error) *Error {
	var identErr *ident.Error
	if errors.As(err, &identErr) {
		return newError(KindInvalidIdentifier, fmt.Sprintf("invalid identifier: %q", identErr.Identifier), nil)
	}
	return newError(KindInvalidIdentifier, "invalid identifier", err)
}
