// Package apperrors defines the error taxonomy shared by controllers and
// internal components. Every error carries a Kind that maps to an HTTP
// status, so handlers translate failures uniformly.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind categorizes an error for HTTP translation.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindExtraction
	KindUpstream
	KindFilesystem
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a 400-class error for bad or missing input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound creates a 404-class error for unknown projects, conversations or files.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Extraction wraps a failure to extract an uploaded archive.
func Extraction(message string, cause error) *Error {
	return &Error{Kind: KindExtraction, Message: message, Cause: cause}
}

// Upstream wraps a failure from the model endpoint.
func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Cause: cause}
}

// Filesystem wraps a filesystem failure outside the analysis walk.
func Filesystem(message string, cause error) *Error {
	return &Error{Kind: KindFilesystem, Message: message, Cause: cause}
}

// KindOf returns the Kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// HTTPStatus maps an error to the status code its kind carries.
// Untyped errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
