// AngelaMos | 2026
// repository.go

package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

const postColumns = `
	id, title, body, cover_image_url, created_by, likes, liked_by,
	created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO blogs (id, title, body, cover_image_url, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING likes, liked_by, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		post.ID,
		post.Title,
		post.Body,
		post.CoverImageURL,
		post.CreatedBy,
	).Scan(&post.Likes, &post.LikedBy, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create blog: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blogs WHERE id = $1`

	var post Post
	err := r.db.GetContext(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get blog: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}

	return &post, nil
}

func (r *repository) List(ctx context.Context) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM blogs ORDER BY created_at DESC`

	var posts []Post
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	return posts, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete blog: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM blogs`); err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return n, nil
}
