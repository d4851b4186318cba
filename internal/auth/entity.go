// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// UserInfo is the account view auth needs. The user package fills it.
type UserInfo struct {
	ID                string
	Username          string
	Email             string
	Phone             string
	PasswordHash      string
	IsVerified        bool
	IsAdmin           bool
	ProfileImageURL   string
	Streak            int
	LastCompletedDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *UserInfo) Level() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// StreakLapsed is true when the last completed day is older than a day.
func (u *UserInfo) StreakLapsed(now time.Time) bool {
	return u.LastCompletedDate != nil &&
		u.LastCompletedDate.Before(now.Add(-24*time.Hour))
}

type NewUser struct {
	Username        string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	IsVerified      bool
}

// IssuedToken is a freshly signed session token.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}
