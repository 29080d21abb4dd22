package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "helvetica", cfg.Font)
	assert.Equal(t, "Letter", cfg.PageSize)
	assert.Equal(t, 50.0, cfg.Margin)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 10000, cfg.MaxIterations)
	assert.Equal(t, 10*time.Second, cfg.ReflowTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGEFLOW_PORT", "9000")
	t.Setenv("PAGEFLOW_FONT", "courier")
	t.Setenv("PAGEFLOW_PAGE_SIZE", "a4")
	t.Setenv("PAGEFLOW_MARGIN", "72")
	t.Setenv("PAGEFLOW_MAX_BODY_BYTES", "1024")
	t.Setenv("PAGEFLOW_MAX_ITERATIONS", "-3")
	t.Setenv("PAGEFLOW_REFLOW_TIMEOUT", "250ms")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "courier", cfg.Font)
	assert.Equal(t, 72.0, cfg.Margin)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 10000, cfg.MaxIterations, "non-positive values fall back")
	assert.Equal(t, 250*time.Millisecond, cfg.ReflowTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Font = "comic"
	assert.ErrorContains(t, cfg.Validate(), "PAGEFLOW_FONT")

	cfg = Load()
	cfg.PageSize = "tabloid"
	assert.ErrorContains(t, cfg.Validate(), "PAGEFLOW_PAGE_SIZE")

	cfg = Load()
	cfg.Margin = 500
	assert.ErrorContains(t, cfg.Validate(), "PAGEFLOW_MARGIN")
}
