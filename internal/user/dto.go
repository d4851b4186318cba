// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,phone"`
}

type UploadImageRequest struct {
	Image string `json:"image" validate:"required"`
}

type UserResponse struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	IsVerified      bool       `json:"isVerified"`
	IsAdmin         bool       `json:"isAdmin"`
	ProfileImageURL string     `json:"profileImageURL"`
	Streak          int        `json:"streak"`
	LastCompleted   *time.Time `json:"lastCompletedDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PublicProfile is the subset of an account shown next to a listing or
// post it authored.
type PublicProfile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profileImageURL"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Phone:           u.PhoneNumber(),
		IsVerified:      u.IsVerified,
		IsAdmin:         u.IsAdmin,
		ProfileImageURL: u.ProfileImageURL,
		Streak:          u.Streak,
		LastCompleted:   u.LastCompletedDate,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func ToPublicProfile(u *User) PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Phone:           u.PhoneNumber(),
		ProfileImageURL: u.ProfileImageURL,
	}
}
