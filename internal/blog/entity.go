// AngelaMos | 2026
// entity.go

package blog

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Body          string         `db:"body"`
	CoverImageURL string         `db:"cover_image_url"`
	CreatedBy     string         `db:"created_by"`
	Likes         int            `db:"likes"`
	LikedBy       pq.StringArray `db:"liked_by"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
