// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByHashedEmail(ctx context.Context, hashedEmail string, now time.Time) (*User, error)
	GetByVerifyToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdateProfileImage(ctx context.Context, id, url string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetVerifyToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time, hashedEmail string) error
	MarkVerified(ctx context.Context, id string) error
	OpenResetWindow(ctx context.Context, id string, until time.Time) error
	CompletePasswordReset(ctx context.Context, id, passwordHash string) error
	ResetStreak(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

const userColumns = `
	id, username, email, phone, password_hash, is_verified, is_admin,
	profile_image_url, forgot_password_token, forgot_password_token_expiry,
	verify_token, verify_token_expiry, hashed_email, reset_verified_until, streak,
	last_completed_date, created_at, updated_at`

var uniqueFields = map[string]string{
	"users_username_key": "username",
	"users_email_key":    "email",
	"users_phone_key":    "phone",
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, username, email, phone, password_hash, is_verified,
			is_admin, profile_image_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.IsVerified,
		user.IsAdmin,
		user.ProfileImageURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) getOne(
	ctx context.Context,
	op, where string,
	args ...any,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	var user User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, "get user", "id = $1", id)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.getOne(ctx, "get user by email", "email = $1", email)
}

// GetByHashedEmail only matches while a reset token checked by
// OpenResetWindow is still inside its window.
func (r *repository) GetByHashedEmail(
	ctx context.Context,
	hashedEmail string,
	now time.Time,
) (*User, error) {
	return r.getOne(
		ctx,
		"get user by hashed email",
		"hashed_email = $1 AND reset_verified_until > $2",
		hashedEmail,
		now,
	)
}

func (r *repository) GetByVerifyToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*User, error) {
	return r.getOne(
		ctx,
		"get user by verify token",
		"verify_token = $1 AND verify_token_expiry > $2",
		tokenHash,
		now,
	)
}

func (r *repository) GetByResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*User, error) {
	return r.getOne(
		ctx,
		"get user by reset token",
		"forgot_password_token = $1 AND forgot_password_token_expiry > $2",
		tokenHash,
		now,
	)
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, phone = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Username,
		user.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) UpdateProfileImage(
	ctx context.Context,
	id, url string,
) error {
	return r.execOne(ctx, "update profile image", `
		UPDATE users
		SET profile_image_url = $2, updated_at = NOW()
		WHERE id = $1`, id, url)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.execOne(ctx, "update password", `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (r *repository) SetVerifyToken(
	ctx context.Context,
	id, tokenHash string,
	expiry time.Time,
) error {
	return r.execOne(ctx, "set verify token", `
		UPDATE users
		SET verify_token = $2, verify_token_expiry = $3, updated_at = NOW()
		WHERE id = $1`, id, tokenHash, expiry)
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, tokenHash string,
	expiry time.Time,
	hashedEmail string,
) error {
	return r.execOne(ctx, "set reset token", `
		UPDATE users
		SET forgot_password_token = $2, forgot_password_token_expiry = $3,
		    hashed_email = $4, reset_verified_until = NULL,
		    updated_at = NOW()
		WHERE id = $1`, id, tokenHash, expiry, hashedEmail)
}

func (r *repository) MarkVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, "mark verified", `
		UPDATE users
		SET is_verified = TRUE, verify_token = NULL,
		    verify_token_expiry = NULL, updated_at = NOW()
		WHERE id = $1`, id)
}

// OpenResetWindow consumes the reset token and lets NewPassword run
// until the given time.
func (r *repository) OpenResetWindow(
	ctx context.Context,
	id string,
	until time.Time,
) error {
	return r.execOne(ctx, "open reset window", `
		UPDATE users
		SET forgot_password_token = NULL,
		    forgot_password_token_expiry = NULL,
		    reset_verified_until = $2, updated_at = NOW()
		WHERE id = $1`, id, until)
}

func (r *repository) CompletePasswordReset(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.execOne(ctx, "complete password reset", `
		UPDATE users
		SET password_hash = $2, hashed_email = NULL,
		    reset_verified_until = NULL, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (r *repository) ResetStreak(ctx context.Context, id string) error {
	return r.execOne(ctx, "reset streak", `
		UPDATE users
		SET streak = 0, updated_at = NOW()
		WHERE id = $1`, id)
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapWriteError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

// mapWriteError turns unique violations into a duplicate error naming the
// colliding field.
func mapWriteError(err error) error {
	for constraint, field := range uniqueFields {
		if core.IsUniqueViolation(err, constraint) {
			return core.DuplicateError(field)
		}
	}
	if core.IsUniqueViolation(err, "") {
		return core.DuplicateError("account")
	}
	return err
}
