// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/admin"
	"github.com/ploteasy/ploteasy-api/internal/auth"
	"github.com/ploteasy/ploteasy-api/internal/blog"
	"github.com/ploteasy/ploteasy-api/internal/config"
	"github.com/ploteasy/ploteasy-api/internal/core"
	"github.com/ploteasy/ploteasy-api/internal/health"
	"github.com/ploteasy/ploteasy-api/internal/mail"
	"github.com/ploteasy/ploteasy-api/internal/media"
	"github.com/ploteasy/ploteasy-api/internal/middleware"
	"github.com/ploteasy/ploteasy-api/internal/migrations"
	"github.com/ploteasy/ploteasy-api/internal/property"
	"github.com/ploteasy/ploteasy-api/internal/server"
	"github.com/ploteasy/ploteasy-api/internal/user"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "ploteasy-api: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := core.NewLogger(cfg.Log, cfg.App.Environment)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some platforms
	zap.ReplaceGlobals(logger)

	logger.Info("starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("telemetry disabled", zap.Error(err))
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db.DB.DB, logger); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", zap.Int("pool_size", cfg.Redis.PoolSize))

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	uploader := media.NewUploader(store, cfg.Storage.Folder, cfg.Server.MaxUploadBytes)

	sender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessionManager(cfg.Session, auth.NewRevocationStore(redis.Client))
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, uploader)
	mailSvc := mail.NewService(userRepo, sender, cfg.App.Domain, cfg.Mail.TokenTTL, logger)
	authSvc := auth.NewService(userSvc, sessions, mailSvc, logger)

	propertyRepo := property.NewRepository(db.DB)
	propertySvc := property.NewService(
		propertyRepo,
		userSvc,
		uploader,
		property.NewFeaturedCache(redis.Client, cfg.Cache.FeaturedTTL),
		logger,
	)

	blogSvc := blog.NewService(blog.NewRepository(db.DB), userSvc, logger)

	healthHandler := health.NewHandler(0,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Users:      userSvc,
		Properties: propertySvc,
		Blogs:      blogSvc,
		Logger:     logger,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))

	if cfg.Metrics.Enabled {
		metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
		if err != nil {
			return err
		}
		router.Use(metrics.Handler)
	}

	router.Use(middleware.OptionalAuth(sessions, cfg.Session.CookieName))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit:      middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
			KeyFunc:    middleware.KeyByUser,
			BypassFunc: adminRequest,
			FailOpen:   true,
		}, logger).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthRequests),
		Prefix:   "ratelimit:auth",
		FailOpen: true,
	}, logger).Handler

	uploadLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:      middleware.PerHour(cfg.RateLimit.UploadsPerHour, cfg.RateLimit.UploadsPerHour),
		Prefix:     "ratelimit:upload",
		KeyFunc:    middleware.KeyByUser,
		BypassFunc: adminRequest,
		FailOpen:   true,
	}, logger).Handler

	authenticator := middleware.Authenticator(sessions, cfg.Session.CookieName)

	router.Route("/api", func(r chi.Router) {
		auth.NewHandler(
			authSvc,
			auth.CookieConfig{
				Name:   cfg.Session.CookieName,
				Secure: cfg.IsProduction(),
			},
			auth.WithFederationKey(cfg.Session.FederationKey),
		).RegisterRoutes(r, authenticator, authLimiter)

		user.NewHandler(userSvc).RegisterRoutes(r, authenticator, uploadLimiter)
		property.NewHandler(propertySvc, cfg.Server.MaxUploadBytes).
			RegisterRoutes(r, authenticator, uploadLimiter)
		blog.NewHandler(blogSvc).RegisterRoutes(r, authenticator)
		media.NewHandler(uploader).RegisterRoutes(r, authenticator, uploadLimiter)
		adminHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	drainDelay := cfg.Server.DrainDelay
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", zap.Error(err))
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", zap.Error(err))
	}

	logger.Info("application stopped")
	return nil
}

func adminRequest(r *http.Request) bool {
	return middleware.IsAdmin(r.Context())
}

// fallbackLog is the level used when a local stand-in replaces an external
// service. Outside development that is worth a warning.
func fallbackLog(cfg *config.Config, logger *zap.Logger) func(string, ...zap.Field) {
	if cfg.IsDevelopment() {
		return logger.Info
	}
	return logger.Warn
}

// newStore picks the object store for uploaded images. Without a bucket
// the API keeps images in memory, which only suits local development.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (media.Store, error) {
	if cfg.Storage.Bucket == "" {
		fallbackLog(cfg, logger)("no storage bucket configured, keeping uploads in memory")
		return media.NewMemoryStore(cfg.App.Domain + "/uploads"), nil
	}

	store, err := media.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	logger.Info("object storage ready",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("region", cfg.Storage.Region),
	)
	return store, nil
}

func newSender(cfg *config.Config, logger *zap.Logger) (mail.Sender, error) {
	if !cfg.Mail.Enabled {
		fallbackLog(cfg, logger)("mail relay disabled, outgoing mail is logged only")
		return mail.NewLogSender(logger), nil
	}

	sender, err := mail.NewSMTPSender(cfg.Mail)
	if err != nil {
		return nil, err
	}
	logger.Info("mail relay ready",
		zap.String("host", cfg.Mail.Host),
		zap.Int("port", cfg.Mail.Port),
	)
	return sender, nil
}
