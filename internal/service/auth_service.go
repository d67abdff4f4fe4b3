package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"casaads/internal/auth"
	apperrors "casaads/internal/errors"
	"casaads/internal/model"
	"casaads/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and account self-service.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, email string) (*model.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{users: users, jwtService: jwtService}
}

// Register creates a user with a hashed password and issues a token. Emails are
// lowercased before the uniqueness check so case variants collide.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.Duplicate("email")
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A concurrent registration slipping past the lookup is caught by the
	// unique index; the raw duplicate-key error maps to the same 409.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and issues a token. Unknown email and wrong
// password produce the same response.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", apperrors.Unauthorized("invalid credentials")
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := verifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", apperrors.Unauthorized("user inactive")
	}

	token, err := s.jwtService.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// UpdateProfile applies the supplied name/email. A changed email re-checks
// uniqueness against everyone but the caller.
func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, email string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		email = normalizeEmail(email)
		existing, err := s.users.FindByEmail(ctx, email)
		if err == nil && existing != nil && existing.ID != user.ID {
			return nil, apperrors.Duplicate("email")
		}
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a fresh hash of the
// new one. The rehash is unconditional: every password write hashes, even when
// the plaintext did not change.
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := verifyPassword(user.PasswordHash, currentPassword); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return apperrors.Unauthorized("current password is incorrect")
		}
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	return s.users.Update(ctx, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword distinguishes a mismatch (a 401 for the caller) from a broken
// comparator, which is an internal failure.
func verifyPassword(hash, candidate string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.Unauthorized("invalid credentials")
	}
	return fmt.Errorf("compare password: %w", err)
}
