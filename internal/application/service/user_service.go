package service

import (
	"context"
	"strings"

	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
	"github.com/sangkips/invoice-dashboard/internal/domain/repository"
	"github.com/sangkips/invoice-dashboard/pkg/apperror"
	"github.com/sangkips/invoice-dashboard/pkg/utils"
)

// UserService manages dashboard accounts. Every non-admin account is bound
// to the invoice location equal to its username.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents the input for creating an account
type CreateUserInput struct {
	Username string
	Password string
}

// CreateUser creates an account for a location
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "username", Message: "username is required"},
		})
	}
	if entity.IsAdmin(username) {
		return nil, apperror.NewConflictError("The admin account is reserved")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every dashboard account ordered by username
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.List(ctx)
}
