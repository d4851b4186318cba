// AngelaMos | 2026
// dto.go

package blog

import (
	"strings"
	"time"

	"github.com/ploteasy/ploteasy-api/internal/user"
)

type CreateRequest struct {
	Title         string `json:"title"         validate:"required,max=200"`
	Body          string `json:"body"          validate:"required"`
	CoverImageURL string `json:"coverImageURL" validate:"required"`
}

func (r *CreateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	r.CoverImageURL = strings.TrimSpace(r.CoverImageURL)
}

type PostResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CoverImageURL string    `json:"coverImageURL"`
	CreatedBy     string    `json:"createdBy"`
	Likes         int       `json:"likes"`
	LikedBy       []string  `json:"likedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type DetailResponse struct {
	Post   PostResponse       `json:"blog"`
	Author user.PublicProfile `json:"user"`
}

func ToPostResponse(p *Post) PostResponse {
	likedBy := []string(p.LikedBy)
	if likedBy == nil {
		likedBy = []string{}
	}
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		CoverImageURL: p.CoverImageURL,
		CreatedBy:     p.CreatedBy,
		Likes:         p.Likes,
		LikedBy:       likedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToPostResponseList(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	return out
}
