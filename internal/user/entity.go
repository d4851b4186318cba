// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

const DefaultProfileImage = "/profile.webp"

const (
	LevelUser  = "user"
	LevelAdmin = "admin"
)

type User struct {
	ID                        string     `db:"id"`
	Username                  string     `db:"username"`
	Email                     string     `db:"email"`
	Phone                     *string    `db:"phone"`
	PasswordHash              string     `db:"password_hash"`
	IsVerified                bool       `db:"is_verified"`
	IsAdmin                   bool       `db:"is_admin"`
	ProfileImageURL           string     `db:"profile_image_url"`
	ForgotPasswordToken       *string    `db:"forgot_password_token"`
	ForgotPasswordTokenExpiry *time.Time `db:"forgot_password_token_expiry"`
	VerifyToken               *string    `db:"verify_token"`
	VerifyTokenExpiry         *time.Time `db:"verify_token_expiry"`
	HashedEmail               *string    `db:"hashed_email"`
	ResetVerifiedUntil        *time.Time `db:"reset_verified_until"`
	Streak                    int        `db:"streak"`
	LastCompletedDate         *time.Time `db:"last_completed_date"`
	CreatedAt                 time.Time  `db:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at"`
}

func (u *User) Level() string {
	if u.IsAdmin {
		return LevelAdmin
	}
	return LevelUser
}

func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}

// StreakLapsed reports whether the last completed day is more than a day
// behind now.
func (u *User) StreakLapsed(now time.Time) bool {
	if u.LastCompletedDate == nil {
		return false
	}
	return u.LastCompletedDate.Before(now.Add(-24 * time.Hour))
}
