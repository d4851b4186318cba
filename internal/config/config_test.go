// AngelaMos | 2026
// config_test.go

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Server:   ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Database: DatabaseConfig{URL: "postgres://localhost/ploteasy"},
		Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
		Session: SessionConfig{
			Secret: strings.Repeat("s", minSessionSecretLen),
			TTL:    24 * time.Hour,
		},
		Mail: MailConfig{Enabled: true, TokenTTL: time.Hour},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing redis url",
			mutate:  func(c *Config) { c.Redis.URL = "" },
			wantErr: "REDIS_URL",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.Session.Secret = "short" },
			wantErr: "JWT_SECRET",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "wildcard",
		},
		{
			name: "production without bucket",
			mutate: func(c *Config) {
				c.App.Environment = "production"
			},
			wantErr: "STORAGE_BUCKET",
		},
		{
			name: "production without federation key",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Storage.Bucket = "ploteasy-media"
			},
			wantErr: "FEDERATION_KEY",
		},
		{
			name: "production with federation key",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Storage.Bucket = "ploteasy-media"
				c.Session.FederationKey = strings.Repeat("f", minSessionSecretLen)
			},
		},
		{
			name: "mail enabled without ttl",
			mutate: func(c *Config) {
				c.Mail.TokenTTL = 0
			},
			wantErr: "token_ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "session.secret", envKeyReplacer("JWT_SECRET"))
	assert.Equal(t, "app.domain", envKeyReplacer("DOMAIN"))
	assert.Equal(t, "mail.password", envKeyReplacer("BREVO_API_KEY"))
	assert.Equal(t, "session.federation_key", envKeyReplacer("FEDERATION_KEY"))
	assert.Empty(t, envKeyReplacer("PATH"))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/ploteasy")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("JWT_SECRET", strings.Repeat("x", 40))
	t.Setenv("PORT", "9090")
	t.Setenv("DOMAIN", "https://ploteasy.example")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "https://ploteasy.example", c.App.Domain)
	assert.Equal(t, 24*time.Hour, c.Session.TTL)
	assert.Equal(t, "token", c.Session.CookieName)
	assert.Equal(t, time.Hour, c.Mail.TokenTTL)
	assert.Same(t, c, Get())
	assert.Equal(t, "0.0.0.0:9090", c.Server.Address())
}
