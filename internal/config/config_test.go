package config

import (
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("PAGE_SIZE", "0")
	t.Setenv("CSRF_KEY", "")
	t.Setenv("SESSION_KEY", "c2hvcnQ=")
	t.Setenv("SITE_URL", "https://studio.example/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8585", cfg.Port)
	assert.Equal(t, defaultPageSize, cfg.PageSize)
	assert.Len(t, cfg.CSRFKey, 32)
	assert.Len(t, cfg.SessionKey, 32)
	assert.Equal(t, "https://studio.example", cfg.SiteURL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	t.Setenv("PORT", "9000")
	t.Setenv("PAGE_SIZE", "6")
	t.Setenv("CSRF_KEY", key)
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, []byte(strings.Repeat("k", 32)), cfg.CSRFKey)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}
