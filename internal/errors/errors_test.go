package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"casaads/internal/auth"
	"casaads/internal/validation"
)

func duplicateKeyError(index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: "E11000 duplicate key error collection: casaads.ads index: " + index + " dup key: { : \"x\" }",
		}},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantField   string
		wantErrors  int
	}{
		{
			name:        "coded error passes through",
			err:         NotFound("ad not found"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "ad not found",
		},
		{
			name:        "malformed identifier",
			err:         InvalidID("id"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid ID format",
			wantField:   "id",
		},
		{
			name:        "validation violations",
			err:         validation.Errors{{Field: "price", Message: "price must be greater than 0"}, {Field: "title", Message: "title is required"}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation error",
			wantErrors:  2,
		},
		{
			name:        "duplicate key on email",
			err:         duplicateKeyError("email_1"),
			wantStatus:  http.StatusConflict,
			wantMessage: "email already exists",
			wantField:   "email",
		},
		{
			name:        "duplicate key on reference id",
			err:         duplicateKeyError("property.referenceId_1"),
			wantStatus:  http.StatusConflict,
			wantMessage: "property.referenceId already exists",
			wantField:   "property.referenceId",
		},
		{
			name:        "invalid token",
			err:         auth.ErrTokenInvalid,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name:        "expired token",
			err:         auth.ErrTokenExpired,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token expired",
		},
		{
			name:        "uncoded error becomes 500",
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantField, got.Field)
			assert.Len(t, got.Errors, tt.wantErrors)
		})
	}
}

func TestNormalize_WrappedCodedError(t *testing.T) {
	wrapped := errorWrap(Unauthorized("user inactive"))
	got := Normalize(wrapped)
	assert.Equal(t, http.StatusUnauthorized, got.StatusCode)
	assert.Equal(t, "user inactive", got.Message)
}

func errorWrap(err error) error {
	return wrapped{err}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }
