package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmynk/ledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// RequestIDKey is the context key for the per-request correlation ID.
	RequestIDKey contextKey = "request_id"
)

// legacyTokenHeader is accepted alongside Authorization for older clients.
const legacyTokenHeader = "x-auth-token"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithUser returns ctx carrying the given identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, status int, message string)

// RequireAuth validates the bearer token and adds the user ID and email to
// the request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := TokenFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			// Surface the caller to the request log, which sits outside this middleware.
			if rec, ok := w.(*statusRecorder); ok {
				rec.userID = claims.UserID
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Email)))
		})
	}
}

// TokenFromRequest reads "Authorization: Bearer <token>", falling back to
// the x-auth-token header.
func TokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", auth.ErrInvalidToken
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if token := r.Header.Get(legacyTokenHeader); token != "" {
		return token, nil
	}
	return "", auth.ErrMissingToken
}
