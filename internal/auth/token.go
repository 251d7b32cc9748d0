package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed is returned when a token fails to parse or its
	// signature does not verify.
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the session token payload. The user's email is carried in the
// registered subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed session tokens. Tokens are
// self-contained: validation consults no server-side state and there is no
// revocation list, so logout is client-side token discard.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewTokenManager(secret string, expiry time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Issue produces a signed HS256 token embedding email and expiry.
func (m *TokenManager) Issue(email string) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, ErrTokenMalformed
	}

	now := time.Now()
	expiresAt := now.Add(m.expiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses a raw token, stripping an optional "Bearer " prefix, and
// returns the embedded email. Expired tokens fail with ErrTokenExpired;
// anything else that does not verify fails with ErrTokenMalformed.
func (m *TokenManager) Validate(raw string) (string, error) {
	raw = StripBearer(raw)
	if raw == "" {
		return "", ErrTokenMalformed
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// StripBearer removes a leading "Bearer " scheme, case-insensitively.
// Input without the scheme is returned trimmed but otherwise untouched.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
