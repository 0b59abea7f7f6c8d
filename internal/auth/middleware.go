package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cropdesk/internal/http/respond"
	"cropdesk/internal/logger"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// Verifier resolves a bearer credential to a user id.
// It returns an error matching ErrUnauthorized when the credential is not valid.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "No authorization token provided")
				return
			}

			uid, err := v.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					logger.Debug("rejected bearer token", "path", r.URL.Path, "error", err)
					respond.Error(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				logger.Error("verify bearer token", "path", r.URL.Path, "error", err)
				respond.Error(w, http.StatusInternalServerError, "Internal server error while verifying credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}

// OptionalAuth attaches the user id when the credential resolves and lets
// the request through anonymously otherwise.
func OptionalAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			uid, err := v.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrUnauthorized) {
					logger.Warn("verify bearer token, continuing anonymously", "path", r.URL.Path, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}
