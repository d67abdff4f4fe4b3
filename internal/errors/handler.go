package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"casaads/internal/model"
)

// envelope is the uniform error response body.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Field   string   `json:"field,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

// HTTPErrorHandler returns the terminal Echo error handler. It normalizes the
// failure, logs it with request context, and writes the uniform envelope. In
// production, 500 detail is replaced by a generic message; otherwise the
// original message and a stack trace are included.
func HTTPErrorHandler(isProduction bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := normalizeWithEcho(err)

		userID := ""
		if u, ok := c.Get("user").(*model.User); ok && u != nil {
			userID = u.ID.Hex()
		}
		c.Logger().Errorj(log.JSON{
			"error":  err.Error(),
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
			"ip":     c.RealIP(),
			"userId": userID,
		})

		body := envelope{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Errors,
			Field:   appErr.Field,
		}
		if appErr.StatusCode == http.StatusInternalServerError {
			if isProduction {
				body.Message = "Internal server error"
			} else {
				body.Message = err.Error()
				body.Stack = string(debug.Stack())
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(appErr.StatusCode)
		} else {
			err = c.JSON(appErr.StatusCode, body)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}

// normalizeWithEcho extends Normalize with echo's own HTTPError, raised by the
// framework for body-bind failures and method/route mismatches.
func normalizeWithEcho(err error) *Error {
	if he, ok := err.(*echo.HTTPError); ok {
		if inner, ok := he.Message.(error); ok {
			return New(he.Code, inner.Error())
		}
		return New(he.Code, fmt.Sprintf("%v", he.Message))
	}
	return Normalize(err)
}
