// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

// ResetWindow is how long NewPassword stays open after a reset token
// has been accepted.
const ResetWindow = 15 * time.Minute

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
)

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByHashedEmail(ctx context.Context, hashedEmail string) (*UserInfo, error)
	GetByVerifyToken(ctx context.Context, tokenHash string) (*UserInfo, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*UserInfo, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	MarkVerified(ctx context.Context, userID string) error
	OpenResetWindow(ctx context.Context, userID string, until time.Time) error
	CompletePasswordReset(ctx context.Context, userID, passwordHash string) error
	ResetStreak(ctx context.Context, userID string) error
}

// Mailer delivers the verification and reset links.
type Mailer interface {
	SendVerification(ctx context.Context, userID, email string) error
	SendPasswordReset(ctx context.Context, userID, email string) error
}

type Service struct {
	users    UserProvider
	sessions *SessionManager
	mailer   Mailer
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	users UserProvider,
	sessions *SessionManager,
	mailer Mailer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp creates an unverified account and mails the verification link.
// A failed send is logged; the account still exists and the user can ask
// for another link through forgot-password.
func (s *Service) SignUp(
	ctx context.Context,
	req SignUpRequest,
) (*UserResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.SignUp")
	defer span.End()

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, NewUser{
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, u.ID, u.Email); err != nil {
		core.SetSpanError(ctx, err)
		s.logger.Error("send verification email",
			zap.String("user_id", u.ID),
			zap.String("email", core.MaskEmail(u.Email)),
			zap.Error(err),
		)
	}

	resp := ToUserResponse(u)
	return &resp, nil
}

func (s *Service) SignIn(
	ctx context.Context,
	req SignInRequest,
) (*Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.SignIn")
	defer span.End()

	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}

	valid, newHash, err := core.VerifyPasswordWithRehash(req.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, u.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed",
				zap.String("user_id", u.ID),
				zap.Error(err),
			)
		}
	}

	return s.newSession(u)
}

// SaveUser upserts the account behind a federated sign-in. New accounts
// are verified from the start and get a random password nobody knows.
func (s *Service) SaveUser(
	ctx context.Context,
	req SaveUserRequest,
) (*Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.SaveUser")
	defer span.End()

	email := normalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return s.newSession(u)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	secret, err := core.GenerateSecureToken(core.EmailTokenBytes)
	if err != nil {
		return nil, err
	}
	hash, err := core.HashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err = s.users.Create(ctx, NewUser{
		Username:        strings.TrimSpace(req.Username),
		Email:           email,
		PasswordHash:    hash,
		ProfileImageURL: req.ProfileImageURL,
		IsVerified:      true,
	})
	if err != nil {
		return nil, err
	}

	return s.newSession(u)
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.users.GetByVerifyToken(ctx, core.HashToken(token))
	if errors.Is(err, core.ErrNotFound) {
		return core.InvalidOrExpiredTokenError()
	}
	if err != nil {
		return err
	}

	return s.users.MarkVerified(ctx, u.ID)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, u.ID, u.Email); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes the mailed reset token and opens a short window
// in which NewPassword accepts the hashed email from the same link.
func (s *Service) ResetPassword(ctx context.Context, token string) error {
	u, err := s.users.GetByResetToken(ctx, core.HashToken(token))
	if errors.Is(err, core.ErrNotFound) {
		return core.InvalidOrExpiredTokenError()
	}
	if err != nil {
		return err
	}

	return s.users.OpenResetWindow(ctx, u.ID, s.now().Add(ResetWindow))
}

func (s *Service) NewPassword(
	ctx context.Context,
	req NewPasswordRequest,
) error {
	u, err := s.users.GetByHashedEmail(ctx, req.Email)
	if errors.Is(err, core.ErrNotFound) {
		return core.InvalidOrExpiredTokenError()
	}
	if err != nil {
		return err
	}

	hash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.CompletePasswordReset(ctx, u.ID, hash)
}

// Me loads the caller and zeroes a lapsed streak on the way out.
func (s *Service) Me(ctx context.Context, userID string) (*UserResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.Me",
		attribute.String("user.id", userID),
	)
	defer span.End()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.StreakLapsed(s.now()) && u.Streak != 0 {
		if err := s.users.ResetStreak(ctx, u.ID); err != nil {
			return nil, err
		}
		u.Streak = 0
	}

	resp := ToUserResponse(u)
	return &resp, nil
}

func (s *Service) SignOut(
	ctx context.Context,
	claims *middleware.SessionClaims,
) error {
	return s.sessions.Revoke(ctx, claims)
}

func (s *Service) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func (s *Service) newSession(u *UserInfo) (*Session, error) {
	token, err := s.sessions.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{User: ToUserResponse(u), Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
