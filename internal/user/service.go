// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ploteasy/ploteasy-api/internal/auth"
	"github.com/ploteasy/ploteasy-api/internal/core"
)

// ImageUploader stores an uploaded image and returns its public URL.
type ImageUploader interface {
	UploadDataURI(ctx context.Context, dataURI string) (string, error)
}

type Service struct {
	repo     Repository
	uploader ImageUploader
	now      func() time.Time
}

func NewService(repo Repository, uploader ImageUploader) *Service {
	return &Service{
		repo:     repo,
		uploader: uploader,
		now:      time.Now,
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByHashedEmail(
	ctx context.Context,
	hashedEmail string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByHashedEmail(ctx, hashedEmail, s.now())
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByVerifyToken(
	ctx context.Context,
	tokenHash string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByVerifyToken(ctx, tokenHash, s.now())
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByResetToken(
	ctx context.Context,
	tokenHash string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByResetToken(ctx, tokenHash, s.now())
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	nu auth.NewUser,
) (*auth.UserInfo, error) {
	profileImage := nu.ProfileImageURL
	if profileImage == "" {
		profileImage = DefaultProfileImage
	}

	user := &User{
		ID:              uuid.New().String(),
		Username:        nu.Username,
		Email:           strings.ToLower(nu.Email),
		PasswordHash:    nu.PasswordHash,
		IsVerified:      nu.IsVerified,
		ProfileImageURL: profileImage,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) MarkVerified(ctx context.Context, userID string) error {
	return s.repo.MarkVerified(ctx, userID)
}

func (s *Service) OpenResetWindow(
	ctx context.Context,
	userID string,
	until time.Time,
) error {
	return s.repo.OpenResetWindow(ctx, userID, until)
}

func (s *Service) CompletePasswordReset(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.CompletePasswordReset(ctx, userID, passwordHash)
}

func (s *Service) ResetStreak(ctx context.Context, userID string) error {
	return s.repo.ResetStreak(ctx, userID)
}

// PublicProfile is what listings and posts show about their author.
func (s *Service) PublicProfile(
	ctx context.Context,
	id string,
) (*PublicProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := ToPublicProfile(user)
	return &p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			user.Phone = nil
		} else {
			user.Phone = &phone
		}
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UploadProfileImage stores the data URI with the image host and points
// the profile at it.
func (s *Service) UploadProfileImage(
	ctx context.Context,
	userID, dataURI string,
) (string, error) {
	if s.uploader == nil {
		return "", errors.New("upload profile image: no image host configured")
	}

	url, err := s.uploader.UploadDataURI(ctx, dataURI)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateProfileImage(ctx, userID, url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Phone:             u.PhoneNumber(),
		PasswordHash:      u.PasswordHash,
		IsVerified:        u.IsVerified,
		IsAdmin:           u.IsAdmin,
		ProfileImageURL:   u.ProfileImageURL,
		Streak:            u.Streak,
		LastCompletedDate: u.LastCompletedDate,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
