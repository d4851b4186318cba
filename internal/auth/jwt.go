// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/ploteasy/ploteasy-api/internal/config"
	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

// SessionManager signs and verifies the HS256 session token carried in
// the session cookie.
type SessionManager struct {
	secret      []byte
	ttl         time.Duration
	issuer      string
	revocations RevocationStore
	now         func() time.Time
}

func NewSessionManager(
	cfg config.SessionConfig,
	revocations RevocationStore,
) (*SessionManager, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("session secret too short")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &SessionManager{
		secret:      []byte(cfg.Secret),
		ttl:         ttl,
		issuer:      cfg.Issuer,
		revocations: revocations,
		now:         time.Now,
	}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(u *UserInfo) (*IssuedToken, error) {
	now := m.now()
	jti := uuid.NewString()
	expiresAt := now.Add(m.ttl)

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.issuer).
		Subject(u.ID).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim("username", u.Username).
		Claim("email", u.Email).
		Claim("level", u.Level()).
		Claim("isAdmin", u.IsAdmin).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		ID:        jti,
		ExpiresAt: expiresAt,
	}, nil
}

func (m *SessionManager) VerifySessionToken(
	ctx context.Context,
	tokenString string,
) (*middleware.SessionClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify token: missing subject: %w", core.ErrTokenInvalid)
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, fmt.Errorf("verify token: missing jti: %w", core.ErrTokenInvalid)
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, jti)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	claims := &middleware.SessionClaims{
		UserID:  subject,
		TokenID: jti,
	}
	//nolint:errcheck // optional profile claims default to zero values
	_ = token.Get("username", &claims.Username)
	//nolint:errcheck // see above
	_ = token.Get("email", &claims.Email)
	//nolint:errcheck // see above
	_ = token.Get("level", &claims.Level)
	//nolint:errcheck // see above
	_ = token.Get("isAdmin", &claims.IsAdmin)

	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	return claims, nil
}

// Revoke blacklists the token id for whatever lifetime it has left.
func (m *SessionManager) Revoke(
	ctx context.Context,
	claims *middleware.SessionClaims,
) error {
	if m.revocations == nil || claims == nil || claims.TokenID == "" {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(m.now())
	if claims.ExpiresAt.IsZero() {
		ttl = m.ttl
	}

	return m.revocations.Revoke(ctx, claims.TokenID, ttl)
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
