// AngelaMos | 2026
// service_test.go

package blog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/user"
)

type memoryRepo struct {
	mu    sync.Mutex
	posts map[string]Post
	clock time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		posts: map[string]Post{},
		clock: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepo) Create(_ context.Context, p *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	p.CreatedAt, p.UpdatedAt = m.clock, m.clock
	m.posts[p.ID] = *p
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("get blog: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (m *memoryRepo) List(context.Context) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("delete blog: %w", core.ErrNotFound)
	}
	delete(m.posts, id)
	return nil
}

func (m *memoryRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts), nil
}

type fakeAuthors map[string]user.PublicProfile

func (f fakeAuthors) PublicProfile(_ context.Context, id string) (*user.PublicProfile, error) {
	p, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &p, nil
}

const (
	authorID   = "0b7c1f7e-4a55-4c1a-9e43-6d7c2a1f0001"
	strangerID = "0b7c1f7e-4a55-4c1a-9e43-6d7c2a1f0002"
	adminID    = "0b7c1f7e-4a55-4c1a-9e43-6d7c2a1f0003"
)

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	authors := fakeAuthors{
		authorID:   {ID: authorID, Username: "meera", Email: "meera@example.com"},
		strangerID: {ID: strangerID, Username: "arjun", Email: "arjun@example.com"},
	}
	return NewService(repo, authors, nil), repo
}

func samplePost() CreateRequest {
	return CreateRequest{
		Title:         "  Buying farmland near Nashik  ",
		Body:          "Check the 7/12 extract first.\n\nThen visit the plot.",
		CoverImageURL: "https://cdn.example.com/blog/cover.jpg",
	}
}

func TestServiceCreate(t *testing.T) {
	svc, repo := newTestService()

	post, err := svc.Create(context.Background(), authorID, samplePost())
	require.NoError(t, err)

	assert.Equal(t, "Buying farmland near Nashik", post.Title)
	assert.Equal(t, authorID, post.CreatedBy)
	assert.Zero(t, post.Likes)
	assert.Equal(t, []string{}, post.LikedBy)
	assert.Len(t, repo.posts, 1)
}

func TestServiceCreateRequiresAuthor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "", samplePost())
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestServiceListNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, authorID, samplePost())
	require.NoError(t, err)
	second, err := svc.Create(ctx, strangerID, samplePost())
	require.NoError(t, err)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestServiceGetJoinsAuthor(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	post, err := svc.Create(ctx, authorID, samplePost())
	require.NoError(t, err)

	detail, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "meera", detail.Author.Username)
	assert.Equal(t, post.ID, detail.Post.ID)
}

func TestServiceGetMissing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	orphan, err := svc.Create(ctx, "deleted-user", samplePost())
	require.NoError(t, err)

	_, err = svc.Get(ctx, orphan.ID)
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "user not found", appErr.Message)
}

func TestServiceDeletePermissions(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{name: "author", actor: Actor{UserID: authorID}},
		{name: "admin", actor: Actor{UserID: adminID, IsAdmin: true}},
		{name: "stranger", actor: Actor{UserID: strangerID}, wantErr: core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			ctx := context.Background()

			post, err := svc.Create(ctx, authorID, samplePost())
			require.NoError(t, err)

			err = svc.Delete(ctx, post.ID, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, repo.posts, 1)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, repo.posts)
		})
	}
}

func TestServiceDeleteMissing(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Delete(context.Background(), "missing", Actor{UserID: authorID, IsAdmin: true})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
