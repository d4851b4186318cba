// AngelaMos | 2026
// session.go

package client

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ploteasy/ploteasy-api/internal/auth"
)

// Session caches the signed-in user for the life of the client so pages
// that all need "who am I" share one request.
type Session struct {
	client *Client

	mu    sync.RWMutex
	user  *auth.UserResponse
	epoch uint64
	group singleflight.Group
}

func newSession(c *Client) *Session {
	return &Session{client: c}
}

// User returns the cached user, fetching /auth/me on first use.
// Concurrent callers share a single fetch.
func (s *Session) User(ctx context.Context) (*auth.UserResponse, error) {
	s.mu.RLock()
	cached, epoch := s.user, s.epoch
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	// The shared fetch outlives any single caller; each caller still
	// stops waiting when its own ctx ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("me", func() (any, error) {
		user, err := s.client.fetchMe(fetchCtx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.epoch == epoch {
			s.user = user
		}
		s.mu.Unlock()
		return user, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*auth.UserResponse), nil
	}
}

// Cached returns the user without touching the network.
func (s *Session) Cached() *auth.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Invalidate drops the cached user. A fetch already in flight will not
// repopulate it.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.user = nil
	s.epoch++
	s.mu.Unlock()
}

func (s *Session) set(user *auth.UserResponse) {
	s.mu.Lock()
	s.user = user
	s.epoch++
	s.mu.Unlock()
}
