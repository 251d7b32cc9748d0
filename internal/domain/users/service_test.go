package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/auth"
)

type stubRepo struct {
	users   map[string]User
	createe error
	gete    error
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]User)}
}

func (r *stubRepo) Create(_ context.Context, user User) error {
	if r.createe != nil {
		return r.createe
	}
	if _, ok := r.users[user.Email]; ok {
		return ErrUserExists
	}
	r.users[user.Email] = user
	return nil
}

func (r *stubRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if r.gete != nil {
		return nil, r.gete
	}
	user, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func newTestService(repo Repository) *Service {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "planora")
	return NewService(repo, tokens, zerolog.Nop())
}

func validSignup() SignupParams {
	return SignupParams{
		FullName:        "Alice Smith",
		Email:           "alice@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}
}

func TestSignup(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.Signup(context.Background(), validSignup()))

	stored, ok := repo.users["alice@example.com"]
	require.True(t, ok)
	require.Equal(t, "Alice Smith", stored.FullName)
	require.NotEmpty(t, stored.UserID)
	require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	require.True(t, auth.CheckPassword("s3cret-pass", stored.PasswordHash))
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newStubRepo())

	tests := []struct {
		name   string
		mutate func(*SignupParams)
		want   error
	}{
		{"missing full name", func(p *SignupParams) { p.FullName = "" }, ErrValidation},
		{"missing email", func(p *SignupParams) { p.Email = "" }, ErrValidation},
		{"malformed email", func(p *SignupParams) { p.Email = "not-an-email" }, ErrValidation},
		{"missing password", func(p *SignupParams) { p.Password = "" }, ErrValidation},
		{"missing confirmation", func(p *SignupParams) { p.ConfirmPassword = "" }, ErrValidation},
		{"mismatched passwords", func(p *SignupParams) { p.ConfirmPassword = "different" }, ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validSignup()
			tt.mutate(&params)
			require.ErrorIs(t, svc.Signup(context.Background(), params), tt.want)
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.Signup(context.Background(), validSignup()))
	require.ErrorIs(t, svc.Signup(context.Background(), validSignup()), ErrUserExists)

	// The original record is untouched.
	require.Len(t, repo.users, 1)
}

func TestLogin(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	require.NoError(t, svc.Signup(context.Background(), validSignup()))

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "alice@example.com", result.Email)
	require.Equal(t, "Alice Smith", result.FullName)

	expiresAt, err := time.Parse(time.RFC3339, result.ExpiresAt)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))
}

func TestLoginFailures(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	require.NoError(t, svc.Signup(context.Background(), validSignup()))

	_, err := svc.Login(context.Background(), "", "s3cret-pass")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(context.Background(), "alice@example.com", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLoginRepoError(t *testing.T) {
	repo := newStubRepo()
	repo.gete = errors.New("store unavailable")
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUserNotFound)
}

func TestDisplayName(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	require.NoError(t, svc.Signup(context.Background(), validSignup()))

	require.Equal(t, "Alice Smith", svc.DisplayName(context.Background(), "alice@example.com"))
	require.Equal(t, FallbackDisplayName, svc.DisplayName(context.Background(), "nobody@example.com"))

	repo.gete = errors.New("store unavailable")
	require.Equal(t, FallbackDisplayName, svc.DisplayName(context.Background(), "alice@example.com"))
}
