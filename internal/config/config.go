// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const minSessionSecretLen = 32

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Session   SessionConfig   `koanf:"session"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Mail      MailConfig      `koanf:"mail"`
	Storage   StorageConfig   `koanf:"storage"`
	Cache     CacheConfig     `koanf:"cache"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	// Domain is the public origin used to build links in outgoing mail.
	Domain string `koanf:"domain"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	DrainDelay      time.Duration `koanf:"drain_delay"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type SessionConfig struct {
	Secret        string        `koanf:"secret"`
	TTL           time.Duration `koanf:"ttl"`
	Issuer        string        `koanf:"issuer"`
	CookieName    string        `koanf:"cookie_name"`
	FederationKey string        `koanf:"federation_key"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
	// AuthRequests limits sign-in and password endpoints per client IP.
	AuthRequests int `koanf:"auth_requests"`
	// UploadsPerHour limits image uploads per signed-in user.
	UploadsPerHour int `koanf:"uploads_per_hour"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type MailConfig struct {
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"`
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	From     string        `koanf:"from"`
	TokenTTL time.Duration `koanf:"token_ttl"`
	Enabled  bool          `koanf:"enabled"`
}

type StorageConfig struct {
	Bucket        string `koanf:"bucket"`
	Region        string `koanf:"region"`
	Endpoint      string `koanf:"endpoint"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	PublicBaseURL string `koanf:"public_base_url"`
	Folder        string `koanf:"folder"`
	UsePathStyle  bool   `koanf:"use_path_style"`
}

type CacheConfig struct {
	FeaturedTTL time.Duration `koanf:"featured_ttl"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

var (
	cfg *Config
	mu  sync.RWMutex
)

func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	loaded := &Config{}
	if err := k.Unmarshal("", loaded); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(loaded); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	mu.Lock()
	cfg = loaded
	mu.Unlock()

	return loaded, nil
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Ploteasy API",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.domain":      "http://localhost:3000",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "60s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.drain_delay":      "2s",
		"server.max_upload_bytes": 20 << 20,

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"session.ttl":         "24h",
		"session.issuer":      "ploteasy",
		"session.cookie_name": "token",

		"rate_limit.requests":         100,
		"rate_limit.window":           "1m",
		"rate_limit.burst":            20,
		"rate_limit.auth_requests":    10,
		"rate_limit.uploads_per_hour": 60,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "ploteasy-api",

		"mail.host":      "smtp-relay.brevo.com",
		"mail.port":      587,
		"mail.from":      "Ploteasy <no-reply@ploteasy.com>",
		"mail.token_ttl": "1h",
		"mail.enabled":   true,

		"storage.region":         "us-east-1",
		"storage.folder":         "ploteasy",
		"storage.use_path_style": false,

		"cache.featured_ttl": "60s",

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"DOMAIN":                      "app.domain",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"MAX_UPLOAD_BYTES":            "server.max_upload_bytes",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_SECRET":                  "session.secret",
	"SESSION_TTL":                 "session.ttl",
	"SESSION_ISSUER":              "session.issuer",
	"FEDERATION_KEY":              "session.federation_key",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_AUTH_REQUESTS":    "rate_limit.auth_requests",
	"RATE_LIMIT_UPLOADS_PER_HOUR": "rate_limit.uploads_per_hour",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"SMTP_HOST":                   "mail.host",
	"SMTP_PORT":                   "mail.port",
	"BREVO_USER":                  "mail.username",
	"BREVO_API_KEY":               "mail.password",
	"MAIL_FROM":                   "mail.from",
	"MAIL_ENABLED":                "mail.enabled",
	"STORAGE_BUCKET":              "storage.bucket",
	"STORAGE_REGION":              "storage.region",
	"STORAGE_ENDPOINT":            "storage.endpoint",
	"STORAGE_ACCESS_KEY":          "storage.access_key",
	"STORAGE_SECRET_KEY":          "storage.secret_key",
	"STORAGE_PUBLIC_BASE_URL":     "storage.public_base_url",
	"STORAGE_FOLDER":              "storage.folder",
	"STORAGE_USE_PATH_STYLE":      "storage.use_path_style",
	"FEATURED_CACHE_TTL":          "cache.featured_ttl",
	"METRICS_ENABLED":             "metrics.enabled",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if len(c.Session.Secret) < minSessionSecretLen {
		return fmt.Errorf(
			"JWT_SECRET must be at least %d bytes",
			minSessionSecretLen,
		)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if c.Storage.Bucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required in production")
		}
		if len(c.Session.FederationKey) < minSessionSecretLen {
			return fmt.Errorf(
				"FEDERATION_KEY must be at least %d bytes in production",
				minSessionSecretLen,
			)
		}
	}

	if c.Mail.Enabled && c.Mail.TokenTTL <= 0 {
		return fmt.Errorf("mail.token_ttl must be positive")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
