// AngelaMos | 2026
// service.go

package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

// TokenStore persists the digest of a mailed token with its expiry. Reset
// tokens also keep the opaque id carried in the link.
type TokenStore interface {
	SetVerifyToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time, hashedEmail string) error
}

type Service struct {
	tokens TokenStore
	sender Sender
	domain string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewService(
	tokens TokenStore,
	sender Sender,
	domain string,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tokens: tokens,
		sender: sender,
		domain: strings.TrimRight(domain, "/"),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) SendVerification(ctx context.Context, userID, email string) error {
	return s.send(ctx, KindVerify, userID, email)
}

func (s *Service) SendPasswordReset(ctx context.Context, userID, email string) error {
	return s.send(ctx, KindReset, userID, email)
}

// send issues a fresh token, stores only its digest and mails the link.
// Issuing a new token replaces whatever token of the same kind was
// outstanding.
func (s *Service) send(ctx context.Context, kind Kind, userID, email string) error {
	token, err := core.GenerateSecureToken(core.EmailTokenBytes)
	if err != nil {
		return err
	}
	tokenHash := core.HashToken(token)
	expiry := s.now().Add(s.ttl)

	var hashedEmail string
	if kind == KindReset {
		var salt string
		if salt, err = core.GenerateSecureToken(core.EmailTokenBytes); err != nil {
			return err
		}
		hashedEmail = core.HashToken(salt + email)
		err = s.tokens.SetResetToken(ctx, userID, tokenHash, expiry, hashedEmail)
	} else {
		err = s.tokens.SetVerifyToken(ctx, userID, tokenHash, expiry)
	}
	if err != nil {
		return fmt.Errorf("store %s token: %w", strings.ToLower(string(kind)), err)
	}

	link := s.Link(kind, token, hashedEmail)
	html, err := render(kind, link, s.ttl, s.now())
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, Message{
		To:      email,
		Subject: kind.subject(),
		HTML:    html,
	}); err != nil {
		return err
	}

	s.logger.Debug("mail sent",
		zap.String("kind", string(kind)),
		zap.String("user_id", userID),
		zap.String("email", core.MaskEmail(email)),
	)
	return nil
}

// Link is the front-end page the mailed button points at. The id is only
// set on reset links.
func (s *Service) Link(kind Kind, token, hashedEmail string) string {
	q := url.Values{}
	q.Set("token", token)
	if hashedEmail != "" {
		q.Set("id", hashedEmail)
	}
	return fmt.Sprintf("%s/auth/%s/?%s", s.domain, kind.path(), q.Encode())
}
