package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"casaads/internal/validation"
)

func serve(t *testing.T, isProduction bool, fail error) (int, map[string]interface{}) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(isProduction)
	e.GET("/boom", func(c echo.Context) error {
		return fail
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHTTPErrorHandler_Envelope(t *testing.T) {
	t.Run("validation failure carries the errors list", func(t *testing.T) {
		code, body := serve(t, false, validation.Errors{
			{Field: "price", Message: "price must be greater than 0"},
			{Field: "currency", Message: "currency must be one of: USD, EUR, GBP"},
		})

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Validation error", body["message"])
		assert.Len(t, body["errors"], 2)
	})

	t.Run("duplicate key carries the field", func(t *testing.T) {
		code, body := serve(t, false, Duplicate("email"))

		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "email already exists", body["message"])
		assert.Equal(t, "email", body["field"])
	})

	t.Run("production hides 500 detail", func(t *testing.T) {
		code, body := serve(t, true, errors.New("dial tcp: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", body["message"])
		assert.NotContains(t, body, "stack")
	})

	t.Run("development exposes 500 detail and stack", func(t *testing.T) {
		code, body := serve(t, false, errors.New("dial tcp: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "dial tcp: connection refused", body["message"])
		assert.Contains(t, body, "stack")
	})

	t.Run("coded failures keep their status", func(t *testing.T) {
		code, body := serve(t, true, Forbidden("admin access required"))

		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "admin access required", body["message"])
	})
}

func TestHTTPErrorHandler_RouteNotFound(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(true)
	e.RouteNotFound("/*", func(c echo.Context) error {
		return NotFound("Not found - " + c.Request().RequestURI)
	})

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not found - /no/such/route", body["message"])
}
