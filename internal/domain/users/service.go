// Package users implements credential-based signup and login on top of a
// key-value user store keyed by email. Passwords are bcrypt-hashed and
// successful logins are exchanged for a signed session token.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/planora/server/internal/auth"
)

var (
	// ErrValidation is returned when caller input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrUserExists is returned when signup targets an email that already
	// has a record.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no record exists for an email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword is returned when login presents a wrong password.
	ErrInvalidPassword = errors.New("invalid password")
)

// FallbackDisplayName is used when a display-name lookup fails.
const FallbackDisplayName = "User"

// User is a stored credential record. Records are created on signup and
// never updated by this service.
type User struct {
	Email        string `json:"email" dynamodbav:"email"`
	UserID       string `json:"userId" dynamodbav:"userId"`
	FullName     string `json:"full_name" dynamodbav:"full_name"`
	PasswordHash string `json:"-" dynamodbav:"password"`
}

// Repository is the credential store adapter.
type Repository interface {
	// Create persists a new user record. The write must be an atomic
	// insert-if-absent on the email key: a concurrent duplicate signup
	// loses with ErrUserExists rather than overwriting.
	Create(ctx context.Context, user User) error

	// GetByEmail returns the record for an email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	repo     Repository
	tokens   *auth.TokenManager
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, tokens *auth.TokenManager, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger.With().Str("component", "users").Logger(),
	}
}

// SignupParams contains the signup request fields.
type SignupParams struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresAt string
	Email     string
	FullName  string
}

// Signup validates the input, hashes the password, and persists a new user
// record. No token is issued; the user logs in afterwards.
func (s *Service) Signup(ctx context.Context, params SignupParams) error {
	if err := s.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: missing or malformed fields", ErrValidation)
	}
	if params.Password != params.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	user := User{
		Email:        params.Email,
		UserID:       uuid.New().String(),
		FullName:     params.FullName,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("user signed up")
	return nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: missing credentials", ErrValidation)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidPassword
	}

	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("user logged in")
	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		Email:     user.Email,
		FullName:  user.FullName,
	}, nil
}

// DisplayName returns the user's full name, or FallbackDisplayName when the
// lookup fails for any reason. Used by the notifier, which must not abort a
// delivery over a missing profile.
func (s *Service) DisplayName(ctx context.Context, email string) string {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil || user.FullName == "" {
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			s.logger.Warn().Err(err).Msg("display name lookup failed")
		}
		return FallbackDisplayName
	}
	return user.FullName
}
