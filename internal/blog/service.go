// AngelaMos | 2026
// service.go

package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/user"
)

type AuthorDirectory interface {
	PublicProfile(ctx context.Context, id string) (*user.PublicProfile, error)
}

// Actor is the caller of a write. Admins may remove any post.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type Service struct {
	repo    Repository
	authors AuthorDirectory
	logger  *zap.Logger
}

func NewService(repo Repository, authors AuthorDirectory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, authors: authors, logger: logger}
}

func (s *Service) Create(
	ctx context.Context,
	authorID string,
	req CreateRequest,
) (*PostResponse, error) {
	if authorID == "" {
		return nil, fmt.Errorf("create blog: %w", core.ErrUnauthorized)
	}

	req.normalize()
	post := &Post{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Body:          req.Body,
		CoverImageURL: req.CoverImageURL,
		CreatedBy:     authorID,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("blog published",
		zap.String("blog_id", post.ID),
		zap.String("author_id", authorID),
	)

	resp := ToPostResponse(post)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]PostResponse, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToPostResponseList(posts), nil
}

func (s *Service) Get(ctx context.Context, id string) (*DetailResponse, error) {
	ctx, span := core.StartSpan(ctx, "blog.Get", attribute.String("blog.id", id))
	defer span.End()

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author, err := s.authors.PublicProfile(ctx, post.CreatedBy)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("user")
	}
	if err != nil {
		return nil, err
	}

	return &DetailResponse{Post: ToPostResponse(post), Author: *author}, nil
}

func (s *Service) Delete(ctx context.Context, id string, actor Actor) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if post.CreatedBy != actor.UserID && !actor.IsAdmin {
		return core.ForbiddenError("only the author can delete this blog")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("blog deleted",
		zap.String("blog_id", id),
		zap.String("actor_id", actor.UserID),
		zap.Bool("admin", actor.IsAdmin),
	)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
