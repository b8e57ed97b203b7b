package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, slog.LevelInfo, cfg.Level())

	opts := cfg.ViewportOptions()
	require.Equal(t, 0.01, opts.MinZoom)
	require.Equal(t, 5.0, opts.MaxZoom)
	require.Equal(t, 1.09, opts.ZoomMultiplier)
	require.Equal(t, 20.0, opts.ContentPadding)
	require.Equal(t, time.Second, opts.TransformCacheTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VIEWPORT_MAX_ZOOM", "8")
	t.Setenv("VIEWPORT_CACHE_TTL", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:5173")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, 8.0, cfg.ViewportOptions().MaxZoom)
	require.Equal(t, 250*time.Millisecond, cfg.ViewportOptions().TransformCacheTTL)
	require.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.Origins())
	require.Equal(t, []string{"app.example.com", "localhost:5173"}, cfg.OriginPatterns())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("VIEWPORT_MIN_ZOOM", "tiny")
	_, err := Load()
	require.Error(t, err)
}
