package middleware

import (
	"context"
	"net/http"

	"github.com/planora/server/internal/auth"
)

type contextKey string

const ownerEmailKey contextKey = "ownerEmail"

// RequireAuth validates the bearer token on a request and stores the
// resolved owner email in the context. A missing header, wrong scheme,
// malformed token, and expired token all produce the same 401 body so a
// caller cannot distinguish which check failed.
//
// Header lookup is case-insensitive: net/http canonicalizes header keys, so
// "authorization" and "AUTHORIZATION" both resolve here.
func RequireAuth(tokens *auth.TokenManager, reject func(w http.ResponseWriter, r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, r)
				return
			}

			email, err := tokens.Validate(header)
			if err != nil {
				reject(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ownerEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext returns the authenticated owner's email, or "" when the
// request did not pass through RequireAuth.
func OwnerFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(ownerEmailKey).(string); ok {
		return email
	}
	return ""
}
