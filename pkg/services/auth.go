package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/innofeed-labs/innofeed-engine/pkg/apperrors"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/repositories"
)

// AuthService defines registration and login operations.
type AuthService interface {
	// Register creates an account and returns its ID. Returns ErrEmailTaken
	// for an already-registered email.
	Register(ctx context.Context, name, email, password string) (int64, error)
	// Login verifies credentials and returns the user. Returns
	// ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// authService implements AuthService with bcrypt password hashing.
type authService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users repositories.UserRepository, logger *zap.Logger) AuthService {
	return &authService{users: users, logger: logger.Named("auth")}
}

// Register creates an account.
func (s *authService) Register(ctx context.Context, name, email, password string) (int64, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return 0, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user.ID, nil
}

// Login verifies credentials.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), truncatePassword(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// truncatePassword caps input at bcrypt's 72-byte limit instead of letting
// longer passwords fail.
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

var _ AuthService = (*authService)(nil)
