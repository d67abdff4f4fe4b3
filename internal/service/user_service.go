package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "casaads/internal/errors"
	"casaads/internal/model"
	"casaads/internal/repository"
)

// UserService exposes the admin-facing account operations.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetActive toggles an account. Deactivated users fail authentication on their
// next request even if they hold a valid token.
func (s *userService) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
