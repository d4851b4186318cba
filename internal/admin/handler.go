// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

// Counter reports how many records of one kind exist.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	users      Counter
	properties Counter
	blogs      Counter
	logger     *zap.Logger
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Users      Counter
	Properties Counter
	Blogs      Counter
	Logger     *zap.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		users:      cfg.Users,
		properties: cfg.Properties,
		blogs:      cfg.Blogs,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetStats)
		r.Get("/platform", h.GetPlatformStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, StatsResponse{
		Platform: h.platformStats(ctx),
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	})
}

func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.platformStats(r.Context()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

// platformStats counts every entity concurrently. A failed count is
// logged and reported as -1 so the rest of the page still renders.
func (h *Handler) platformStats(ctx context.Context) PlatformStats {
	var (
		wg    sync.WaitGroup
		stats PlatformStats
	)

	count := func(name string, c Counter, dst *int) {
		defer wg.Done()
		if c == nil {
			*dst = -1
			return
		}
		n, err := c.Count(ctx)
		if err != nil {
			h.logger.Warn("entity count failed", zap.String("entity", name), zap.Error(err))
			*dst = -1
			return
		}
		*dst = n
	}

	wg.Add(3)
	go count("users", h.users, &stats.Users)
	go count("properties", h.properties, &stats.Properties)
	go count("blogs", h.blogs, &stats.Blogs)
	wg.Wait()

	return stats
}

func pingOK(ctx context.Context, ping func(ctx context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
