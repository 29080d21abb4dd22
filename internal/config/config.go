package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/pagination"
	"github.com/gompdf/pageflow/internal/text"
)

type Config struct {
	Port string

	// Auth; requests are open when empty
	APIKey string

	// Layout
	Font     string
	PageSize string
	Margin   float64

	// Request limits
	MaxBodyBytes  int64
	MaxIterations int
	ReflowTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PAGEFLOW_PORT", "8090"),

		APIKey: os.Getenv("PAGEFLOW_API_KEY"),

		Font:     envOr("PAGEFLOW_FONT", text.FontHelvetica),
		PageSize: envOr("PAGEFLOW_PAGE_SIZE", layout.PageSizeLetter.Name),
		Margin:   envFloat("PAGEFLOW_MARGIN", layout.DefaultOptions().Margin),

		MaxBodyBytes:  envInt64("PAGEFLOW_MAX_BODY_BYTES", 10<<20), // 10MB
		MaxIterations: envInt("PAGEFLOW_MAX_ITERATIONS", pagination.DefaultMaxIterations),
		ReflowTimeout: envDuration("PAGEFLOW_REFLOW_TIMEOUT", 10*time.Second),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = pagination.DefaultMaxIterations
	}
	if cfg.ReflowTimeout <= 0 {
		cfg.ReflowTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := text.Family(c.Font); err != nil {
		return fmt.Errorf("PAGEFLOW_FONT: %w", err)
	}
	ps, err := layout.LookupPageSize(c.PageSize)
	if err != nil {
		return fmt.Errorf("PAGEFLOW_PAGE_SIZE: %w", err)
	}
	lo := layout.DefaultOptions()
	lo.PageWidth, lo.PageHeight, lo.Margin = ps.Width, ps.Height, c.Margin
	if !lo.Valid() {
		return fmt.Errorf("PAGEFLOW_MARGIN %v leaves no room on %s pages", c.Margin, ps.Name)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
