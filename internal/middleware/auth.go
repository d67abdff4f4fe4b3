package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"casaads/internal/auth"
	apperrors "casaads/internal/errors"
	"casaads/internal/model"
	"casaads/internal/repository"
)

const userContextKey = "user"

// CurrentUser returns the identity attached by the auth gate, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok && user != nil
}

// AuthGate resolves bearer tokens into active-user identities. It is stateless
// per request; the user record is loaded fresh each time so deactivation takes
// effect immediately, valid token or not.
type AuthGate struct {
	jwtService *auth.JWTService
	users      repository.UserRepository
}

// NewAuthGate creates the gate.
func NewAuthGate(jwtService *auth.JWTService, users repository.UserRepository) *AuthGate {
	return &AuthGate{jwtService: jwtService, users: users}
}

// Authenticate is the mandatory variant: no resolvable active user, no entry.
func (g *AuthGate) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// OptionalAuth attaches an identity when one resolves and swallows every
// failure; the request always proceeds.
func (g *AuthGate) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := g.resolve(c); err == nil {
			c.Set(userContextKey, user)
		}
		return next(c)
	}
}

// RequireAdmin gates a route on a previously attached admin identity. Runs
// after Authenticate; a missing identity or wrong role is a 403, distinct from
// the gate's 401s.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			return apperrors.Forbidden("admin access required")
		}
		return next(c)
	}
}

func (g *AuthGate) resolve(c echo.Context) (*model.User, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, apperrors.Unauthorized("no token provided")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, apperrors.Unauthorized("no token provided")
	}

	claims, err := g.jwtService.Validate(parts[1])
	if err != nil {
		// ErrTokenInvalid / ErrTokenExpired; the normalizer tells them apart
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("user not found")
	}

	user, err := g.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Unauthorized("user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("user inactive")
	}

	return user, nil
}
