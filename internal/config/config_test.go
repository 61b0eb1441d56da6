package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "30d", want: 30 * 24 * time.Hour},
		{in: "1d12h", want: 36 * time.Hour},
		{in: "15m", want: 15 * time.Minute},
		{in: "", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "7days", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "7000"
db_driver = "postgres"
jwt_expire = "1d"
allowed_origins = ["https://wash.example.com"]
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9000")
	t.Setenv("REFRESH_TOKEN_EXPIRE", "14d")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL())
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenTTL())
	assert.Equal(t, []string{"https://app.example.com", "https://wash.example.com"}, cfg.Origins())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RefreshTokenSecret = cfg.JWTSecret
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.JWTExpire = "forever"
	assert.Error(t, cfg.Validate())
}

func TestValidate_PlaceholderSecretsOutsideDevelopment(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		jwtSecret     string
		refreshSecret string
		wantErr       bool
	}{
		{name: "development keeps placeholders", env: "development", jwtSecret: placeholderJWTSecret, refreshSecret: placeholderRefreshSecret},
		{name: "production placeholder access secret", env: "production", jwtSecret: placeholderJWTSecret, refreshSecret: "r-secret", wantErr: true},
		{name: "production placeholder refresh secret", env: "production", jwtSecret: "a-secret", refreshSecret: placeholderRefreshSecret, wantErr: true},
		{name: "production empty secret", env: "production", jwtSecret: "", refreshSecret: "r-secret", wantErr: true},
		{name: "production real secrets", env: "production", jwtSecret: "a-secret", refreshSecret: "r-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Env = tt.env
			cfg.JWTSecret = tt.jwtSecret
			cfg.RefreshTokenSecret = tt.refreshSecret
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
				return
			}
			assert.NoError(t, cfg.Validate())
		})
	}
}
