package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/corpman/internal/auth"
	"github.com/charlesng35/corpman/internal/database"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "https://api.corpman.example.com", cfg.Server.BaseURL)
	require.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Database.Postgres.Enabled)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, 20, cfg.Database.MaxOpenConns)
	require.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)

	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "rediss://cache.example.com:6380/2", cfg.Cache.Redis.URL)
	require.Equal(t, 3*time.Second, cfg.Cache.Redis.Timeout)

	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@every 1h", cfg.Maintenance.Schedule)
	require.Equal(t, 720*time.Hour, cfg.Maintenance.LoginHistoryRetention)

	require.Equal(t, 30, cfg.RateLimit.Requests)
	require.Equal(t, 10*time.Second, cfg.RateLimit.Window)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "corpman-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 12*time.Hour, cfg.Auth.JWT.AccessTTL)
	require.Equal(t, 96*time.Hour, cfg.Auth.JWT.RefreshTTL)
	require.Equal(t, 5*time.Minute, cfg.Auth.JWT.TempTTL)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, "smtp-user", cfg.Email.SMTP.Username)
	require.Equal(t, "smtp-pass", cfg.Email.SMTP.Password)
	require.Equal(t, "no-reply@example.com", cfg.Email.SMTP.From)
	require.Equal(t, "Corpman Support", cfg.Email.SMTP.FromName)
	require.True(t, cfg.Email.SMTP.UseTLS)
	require.Equal(t, 15*time.Second, cfg.Email.SMTP.Timeout)

	require.True(t, cfg.SMS.SNS.Enabled)
	require.Equal(t, "eu-west-1", cfg.SMS.SNS.Region)
	require.Equal(t, "CORPMAN", cfg.SMS.SNS.SenderID)

	require.Equal(t, "corpman-dev", cfg.Federated.FirebaseProjectID)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.False(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.AccessTTL)
	require.Equal(t, 48*time.Hour, cfg.Auth.JWT.RefreshTTL)
	require.Equal(t, 10*time.Minute, cfg.Auth.JWT.TempTTL)
	require.Equal(t, "@every 15m", cfg.Maintenance.Schedule)
	require.False(t, cfg.SMS.SNS.Enabled)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("CORPMAN_SERVER_PORT", "7070")
	t.Setenv("CORPMAN_AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "from-env", cfg.Auth.JWT.Secret)
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := Config{
		Auth: AuthConfig{
			JWT: JWTSettings{
				Secret:     "secret",
				Issuer:     "issuer",
				AccessTTL:  30 * time.Minute,
				RefreshTTL: 10 * time.Hour,
				TempTTL:    2 * time.Minute,
			},
		},
	}

	require.Equal(t, auth.JWTConfig{
		Secret:          "secret",
		Issuer:          "issuer",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 10 * time.Hour,
		TempTokenTTL:    2 * time.Minute,
	}, cfg.Auth.JWTServiceConfig())
}

func TestAuthConfigAdaptersFallback(t *testing.T) {
	var cfg AuthConfig

	jwtCfg := cfg.JWTServiceConfig()
	require.Equal(t, defaultIssuer, jwtCfg.Issuer)
	require.Equal(t, auth.DefaultAccessTokenTTL, jwtCfg.AccessTokenTTL)
	require.Equal(t, auth.DefaultRefreshTokenTTL, jwtCfg.RefreshTokenTTL)
	require.Equal(t, auth.DefaultTempTokenTTL, jwtCfg.TempTokenTTL)
}

func TestEmailConfigAdapter(t *testing.T) {
	cfg := EmailConfig{
		SMTP: SMTPConfig{
			Enabled:  true,
			Host:     "smtp.example.com",
			Port:     2525,
			Username: "user",
			Password: "pass",
			From:     "no-reply@example.com",
			FromName: "Corpman",
			UseTLS:   true,
			Timeout:  10 * time.Second,
		},
	}

	settings := cfg.SMTPSettings()
	require.True(t, settings.Enabled)
	require.Equal(t, "smtp.example.com", settings.Host)
	require.Equal(t, 2525, settings.Port)
	require.Equal(t, "user", settings.Username)
	require.Equal(t, "pass", settings.Password)
	require.Equal(t, "no-reply@example.com", settings.From)
	require.Equal(t, "Corpman", settings.FromName)
	require.True(t, settings.UseTLS)
	require.Equal(t, 10*time.Second, settings.Timeout)
}

func TestEmailConfigAdapterFallbacks(t *testing.T) {
	cfg := EmailConfig{SMTP: SMTPConfig{Host: " smtp.example.com ", Username: "ops@example.com"}}

	settings := cfg.SMTPSettings()
	require.Equal(t, "smtp.example.com", settings.Host)
	require.Equal(t, "ops@example.com", settings.From)
	require.Equal(t, defaultFromName, settings.FromName)
}

func TestSMSConfigAdapter(t *testing.T) {
	cfg := SMSConfig{SNS: SNSConfig{Enabled: true, Region: " us-east-1 ", SenderID: "CORP"}}

	settings := cfg.SNSSettings()
	require.True(t, settings.Enabled)
	require.Equal(t, "us-east-1", settings.Region)
	require.Equal(t, "CORP", settings.SenderID)
}

func TestCacheConfigAdapter(t *testing.T) {
	cfg := CacheConfig{Redis: RedisCacheConfig{URL: " redis://localhost:6379/0 ", Address: "127.0.0.1:6379", DB: 3}}

	redisCfg := cfg.RedisClientConfig()
	require.Equal(t, "redis://localhost:6379/0", redisCfg.URL)
	require.Equal(t, "127.0.0.1:6379", redisCfg.Address)
	require.Equal(t, 3, redisCfg.DB)
}

func TestDatabaseConfigAdapter(t *testing.T) {
	cfg := DatabaseConfig{
		Driver: "Postgres",
		Postgres: DBAuthConfig{
			Enabled:  true,
			Host:     "db",
			Port:     5432,
			Database: "corpman",
			Username: "app",
			Password: "pw",
		},
		MySQL:        DBAuthConfig{Enabled: true, Host: "ignored"},
		MaxOpenConns: 5,
	}

	require.Equal(t, database.Config{
		Driver:       "postgres",
		Host:         "db",
		Port:         5432,
		Name:         "corpman",
		User:         "app",
		Password:     "pw",
		MaxOpenConns: 5,
	}, cfg.DatabaseClientConfig())

	sqlite := DatabaseConfig{Driver: "sqlite", Path: "./data/x.sqlite", Postgres: DBAuthConfig{Enabled: true, Host: "db"}}
	got := sqlite.DatabaseClientConfig()
	require.Equal(t, "sqlite", got.Driver)
	require.Equal(t, "./data/x.sqlite", got.Path)
	require.Empty(t, got.Host)
}
