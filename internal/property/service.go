// AngelaMos | 2026
// service.go

package property

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/user"
)

// OwnerDirectory resolves the public profile shown next to a listing.
type OwnerDirectory interface {
	PublicProfile(ctx context.Context, id string) (*user.PublicProfile, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type Service struct {
	repo      Repository
	owners    OwnerDirectory
	images    ImageUploader
	cache     FeaturedCache
	validator *Validator
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	owners OwnerDirectory,
	images ImageUploader,
	cache FeaturedCache,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		owners:    owners,
		images:    images,
		cache:     cache,
		validator: NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	req CreateRequest,
) (*Response, error) {
	ctx, span := core.StartSpan(ctx, "property.Create",
		attribute.String("user.id", ownerID),
	)
	defer span.End()

	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, core.ValidationError(
			"missing required fields: " + strings.Join(missing, ", "),
		)
	}

	p := req.ToProperty(ownerID)
	p.ID = uuid.New().String()

	if err := s.validator.Validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}
	s.invalidateFeatured(ctx)

	resp := ToResponse(p)
	return &resp, nil
}

// Get returns a listing with its owner. A listing whose owner no longer
// exists is reported as missing.
func (s *Service) Get(ctx context.Context, id string) (*DetailResponse, error) {
	ctx, span := core.StartSpan(ctx, "property.Get",
		attribute.String("property.id", id),
	)
	defer span.End()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.owners.PublicProfile(ctx, p.CreatedBy)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("user")
	}
	if err != nil {
		return nil, err
	}

	return &DetailResponse{Property: ToResponse(p), User: *owner}, nil
}

func (s *Service) Related(ctx context.Context, id string) ([]Response, error) {
	ctx, span := core.StartSpan(ctx, "property.Related")
	defer span.End()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.repo.Related(ctx, p, relatedLimit)
	if err != nil {
		return nil, err
	}
	return ToResponseList(related), nil
}

func (s *Service) Search(ctx context.Context, params SearchParams) ([]Response, error) {
	ctx, span := core.StartSpan(ctx, "property.Search")
	defer span.End()

	found, err := s.repo.Search(ctx, params, s.now())
	if err != nil {
		return nil, err
	}
	return ToResponseList(found), nil
}

// Featured serves the premium strip from cache when it can. Cache faults
// are logged and fall through to the database.
func (s *Service) Featured(ctx context.Context) ([]Response, error) {
	ctx, span := core.StartSpan(ctx, "property.Featured")
	defer span.End()

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("featured cache read failed", zap.Error(err))
		}
		if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	listings, err := s.repo.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	resp := ToResponseList(listings)

	if s.cache != nil {
		if err := s.cache.Set(ctx, resp); err != nil {
			s.logger.Warn("featured cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID string) ([]Response, error) {
	mine, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ToResponseList(mine), nil
}

func (s *Service) GetMine(ctx context.Context, id, ownerID string) (*Response, error) {
	p, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(p)
	return &resp, nil
}

// Update applies a multipart edit to a listing the caller owns. New
// images are uploaded one at a time; a failed upload aborts the edit and
// leaves earlier uploads in the store.
func (s *Service) Update(
	ctx context.Context,
	id, ownerID string,
	form *UpdateForm,
) (*Response, error) {
	ctx, span := core.StartSpan(ctx, "property.Update",
		attribute.String("property.id", id),
		attribute.Int("images.new", len(form.NewImages)),
	)
	defer span.End()

	existing, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if len(form.ExistingImages)+len(form.NewImages) == 0 {
		return nil, core.ValidationError("at least one image is required for the property")
	}

	if _, err := form.Apply(*existing); err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, len(form.NewImages))
	for i, data := range form.NewImages {
		url, err := s.images.Upload(ctx, data)
		if err != nil {
			core.SetSpanError(ctx, err)
			return nil, fmt.Errorf("upload image %d: %w", i+1, err)
		}
		uploaded = append(uploaded, url)
	}

	edited, err := s.repo.Edit(ctx, id, ownerID, func(current *Property) error {
		next, err := form.Apply(*current)
		if err != nil {
			return err
		}
		next.Images = append(next.Images, uploaded...)
		if err := s.validator.Validate(next); err != nil {
			return err
		}
		*current = *next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateFeatured(ctx)

	resp := ToResponse(edited)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidateFeatured(ctx)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) invalidateFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("featured cache invalidation failed", zap.Error(err))
	}
}
