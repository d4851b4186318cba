// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ploteasy/ploteasy-api/internal/middleware"
)

type fixedCount struct {
	n   int
	err error
}

func (f fixedCount) Count(context.Context) (int, error) { return f.n, f.err }

func asUser(admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithSession(r.Context(), &middleware.SessionClaims{
				UserID:  "u-1",
				IsAdmin: admin,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(t *testing.T, h *Handler, admin bool) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r, asUser(admin), middleware.RequireAdmin)
	return r
}

func TestGetStats(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewHandler(HandlerConfig{
		DBStats: func() sql.DBStats {
			return sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1, Idle: 2}
		},
		RedisStats: rdb.PoolStats,
		DBPing:     func(context.Context) error { return errors.New("connection refused") },
		RedisPing:  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		Users:      fixedCount{n: 42},
		Properties: fixedCount{n: 17},
		Blogs:      fixedCount{err: errors.New("relation does not exist")},
	})

	rec := httptest.NewRecorder()
	newRouter(t, h, true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data StatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))

	assert.Equal(t, PlatformStats{Users: 42, Properties: 17, Blogs: -1}, env.Data.Platform)
	assert.False(t, env.Data.Database.Healthy)
	require.NotNil(t, env.Data.Database.Stats)
	assert.Equal(t, 25, env.Data.Database.Stats.MaxOpenConnections)
	assert.True(t, env.Data.Redis.Healthy)
	assert.NotNil(t, env.Data.Redis.Stats)
	assert.NotEmpty(t, env.Data.Runtime.GoVersion)
}

func TestStatsRequireAdmin(t *testing.T) {
	h := NewHandler(HandlerConfig{Users: fixedCount{n: 1}})

	rec := httptest.NewRecorder()
	newRouter(t, h, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/platform", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlatformStatsWithoutCounters(t *testing.T) {
	h := NewHandler(HandlerConfig{Users: fixedCount{n: 5}})

	stats := h.platformStats(context.Background())
	assert.Equal(t, PlatformStats{Users: 5, Properties: -1, Blogs: -1}, stats)
}
