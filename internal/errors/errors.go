package errors

import (
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"casaads/internal/auth"
	"casaads/internal/validation"
)

// Error is an HTTP-coded failure. Every failure raised anywhere in the request
// path is eventually normalized into one of these and rendered by the central
// error handler; no other component writes an error response.
type Error struct {
	StatusCode int
	Message    string
	Field      string
	Errors     []string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a coded error.
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// BadRequest creates a 400 error.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden creates a 403 error.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound creates a 404 error.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Internal creates a 500 error.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// InvalidID reports a path identifier that does not have the store's native id
// shape. Raised before any validation or store lookup runs.
func InvalidID(field string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid ID format",
		Field:      field,
	}
}

// Duplicate reports a unique-constraint conflict on the given field.
func Duplicate(field string) *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		Message:    field + " already exists",
		Field:      field,
	}
}

// Validation wraps accumulated schema violations into the 400 envelope.
func Validation(violations validation.Errors) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation error",
		Errors:     violations.Messages(),
	}
}

// Normalize maps any failure into a coded Error. Already-coded errors pass
// through; store, token and validation failures get their table entry; anything
// unrecognized becomes a 500.
func Normalize(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var violations validation.Errors
	if errors.As(err, &violations) {
		return Validation(violations)
	}

	if mongo.IsDuplicateKeyError(err) {
		return Duplicate(duplicateKeyField(err))
	}

	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return Unauthorized("Token expired")
	case errors.Is(err, auth.ErrTokenInvalid):
		return Unauthorized("Invalid token")
	}

	return Internal(err.Error())
}

// duplicateKeyField extracts the offending field from a mongo duplicate-key
// error. The server message carries the index name ("index: email_1 dup key"),
// which for single-field unique indexes is the field path plus a "_1" suffix.
func duplicateKeyField(err error) string {
	msg := err.Error()
	marker := "index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return "value"
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, " \t"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSuffix(rest, "_1")
}
