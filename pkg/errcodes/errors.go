package errcodes

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CodeMalformedIdentifier = "malformed_identifier"
	CodeMissingIdentifier   = "missing_identifier"
	CodeInvalidFieldValue   = "invalid_field_value"
	CodeUnknownField        = "unknown_field"
	CodePersistence         = "persistence_error"
	CodeSourceUnavailable   = "source_unavailable"
	CodeNotFound            = "not_found"
)

// Error is the single error type for every failure kind the application
// reports. Callers branch on Code rather than on the message.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (err *Error) Error() string {
	if err.cause != nil {
		return err.Message + ": " + err.cause.Error()
	}
	return err.Message
}

// Unwrap exposes the underlying storage or transport error, if any.
func (err *Error) Unwrap() error {
	return err.cause
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.Code = err.Code
	te.Message = err.Message
	te.cause = err.cause
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Code == err.Code && te.Message == err.Message
}

// HasCode reports whether any error in err's chain is an *Error with the
// given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// Code returns the code of the first *Error in err's chain, or an empty string.
func Code(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// MalformedIdentifier is returned when an identifier has the right length for
// an ISBN but contains characters that can't be part of one.
func MalformedIdentifier(value string) error {
	return &Error{
		Code:    CodeMalformedIdentifier,
		Message: fmt.Sprintf("Malformed identifier %q", value),
	}
}

// MissingIdentifier is returned when a source that must supply an identifier
// didn't.
func MissingIdentifier(source string) error {
	return &Error{
		Code:    CodeMissingIdentifier,
		Message: source + " is missing an ISBN.",
	}
}

func InvalidFieldValue(field, value string) error {
	return &Error{
		Code:    CodeInvalidFieldValue,
		Message: fmt.Sprintf("Invalid value %q for %s", value, field),
	}
}

func UnknownField(field string) error {
	return &Error{
		Code:    CodeUnknownField,
		Message: fmt.Sprintf("Unknown field %q", field),
	}
}

// Persistence wraps a storage I/O failure.
func Persistence(err error) error {
	return &Error{
		Code:    CodePersistence,
		Message: "Storage failure",
		cause:   err,
	}
}

// SourceUnavailable wraps a network or container read failure in an adapter.
func SourceUnavailable(source string, err error) error {
	return &Error{
		Code:    CodeSourceUnavailable,
		Message: source + " is unavailable",
		cause:   err,
	}
}

// NotFound returns an error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		Code:    CodeNotFound,
		Message: resource + " not found.",
	}
}
