package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"valkyrie/internal/model"
	"valkyrie/internal/repository"
)

const bcryptCost = 10

var (
	// ErrEmailTaken is returned when the sign-up email is already registered.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrUsernameTaken is returned when the sign-up username is already registered.
	ErrUsernameTaken = errors.New("this username is already taken")
)

// AuthService handles account creation and credential verification.
type AuthService interface {
	SignUp(ctx context.Context, email, username, password string) (*model.User, error)
	SignIn(ctx context.Context, emailOrUsername, password string) (*model.User, error)
}

type authService struct {
	users repository.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

// SignUp creates a new user with a hashed password. Email and username are
// pre-checked so conflicts surface as form errors, not unique-constraint
// failures.
func (s *authService) SignUp(ctx context.Context, email, username, password string) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email existence: %w", err)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// SignIn verifies credentials against the stored hash. An unknown identifier
// or a wrong password both return (nil, nil): absence is a signal the caller
// turns into a flash message, it is not an error. Only infrastructure
// failures produce a non-nil error.
func (s *authService) SignIn(ctx context.Context, emailOrUsername, password string) (*model.User, error) {
	user, err := s.users.FindByEmailOrUsername(ctx, emailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}
