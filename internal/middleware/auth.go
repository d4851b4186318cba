// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

const DefaultSessionCookie = "token"

type TokenVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (*SessionClaims, error)
}

type SessionClaims struct {
	UserID    string
	Username  string
	Email     string
	Level     string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// Authenticator rejects requests without a valid session. The token is
// read from the session cookie first and from a bearer header otherwise.
// A session already resolved by OptionalAuth is reused.
func Authenticator(
	verifier TokenVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAuthenticated(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			token := ExtractToken(r, cookieName)
			if token == "" {
				core.JSONError(w, core.UnauthorizedError("Unauthorized"))
				return
			}

			claims, err := verifier.VerifySessionToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the session when the request carries a valid
// token and otherwise lets the request through anonymously.
func OptionalAuth(
	verifier TokenVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r, cookieName); token != "" {
				claims, err := verifier.VerifySessionToken(r.Context(), token)
				if err == nil {
					r = r.WithContext(WithSession(r.Context(), claims))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			core.JSONError(w, core.UnauthorizedError(""))
			return
		}

		if !IsAdmin(r.Context()) {
			core.JSONError(w, core.ForbiddenError("insufficient permissions"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request, cookieName string) string {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}

	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.JSONError(w, err)
	}
}
