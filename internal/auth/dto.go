// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SaveUserRequest finishes a federated sign-in the client already
// completed with the identity provider.
type SaveUserRequest struct {
	Username        string `json:"username"        validate:"required,min=2,max=50"`
	Email           string `json:"email"           validate:"required,email"`
	ProfileImageURL string `json:"profileImageURL" validate:"omitempty,url"`
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewPasswordRequest struct {
	// Email carries the hashed email from the reset link, not an address.
	Email       string `json:"email"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=128"`
}

type UserResponse struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone,omitempty"`
	IsVerified        bool       `json:"isVerified"`
	IsAdmin           bool       `json:"isAdmin"`
	ProfileImageURL   string     `json:"profileImageURL"`
	Streak            int        `json:"streak"`
	LastCompletedDate *time.Time `json:"lastCompletedDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type SessionResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Session is a signed-in user together with the token to hand out.
type Session struct {
	User  UserResponse
	Token *IssuedToken
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Phone:             u.Phone,
		IsVerified:        u.IsVerified,
		IsAdmin:           u.IsAdmin,
		ProfileImageURL:   u.ProfileImageURL,
		Streak:            u.Streak,
		LastCompletedDate: u.LastCompletedDate,
		CreatedAt:         u.CreatedAt,
	}
}
