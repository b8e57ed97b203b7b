package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/flowcanvas/internal/viewport"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:""`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	Viewport ViewportConfig `envconfig:"VIEWPORT"`
}

// ViewportConfig holds the tunables of the viewport engine.
type ViewportConfig struct {
	MinZoom        float64       `envconfig:"MIN_ZOOM" default:"0.01"`
	MaxZoom        float64       `envconfig:"MAX_ZOOM" default:"5"`
	ZoomMultiplier float64       `envconfig:"ZOOM_MULTIPLIER" default:"1.09"`
	ContentPadding float64       `envconfig:"CONTENT_PADDING" default:"20"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"1s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns returns the origins without their scheme, as the
// websocket accept options expect.
func (c *Config) OriginPatterns() []string {
	origins := c.Origins()
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		out = append(out, o)
	}
	return out
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ViewportOptions converts the viewport section into engine options.
func (c *Config) ViewportOptions() viewport.Options {
	opts := viewport.DefaultOptions()
	opts.MinZoom = c.Viewport.MinZoom
	opts.MaxZoom = c.Viewport.MaxZoom
	opts.ZoomMultiplier = c.Viewport.ZoomMultiplier
	opts.ContentPadding = c.Viewport.ContentPadding
	opts.TransformCacheTTL = c.Viewport.CacheTTL
	return opts
}
