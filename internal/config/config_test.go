package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "dry", cfg.Roundup.Category)
	assert.Equal(t, 0, cfg.Roundup.Year)
	assert.Equal(t, 60, cfg.Roundup.MinIntervalMins)
	assert.Equal(t, 2.0, cfg.Scrape.DelaySecs)
	assert.Equal(t, 30, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Index.BaseURL)
	assert.NotEmpty(t, cfg.Index.ListingPath)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	yaml := []byte("roundup:\n  category: tanker\n  min_interval_mins: 15\nscrape:\n  delay_secs: 0.5\n")
	require.NoError(t, os.WriteFile("config.yaml", yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tanker", cfg.Roundup.Category)
	assert.Equal(t, 15, cfg.Roundup.MinIntervalMins)
	assert.Equal(t, 0.5, cfg.Scrape.DelaySecs)
	// untouched defaults survive
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROUNDUP_ROUNDUP_CATEGORY", "dry")
	t.Setenv("ROUNDUP_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dry", cfg.Roundup.Category)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestDurationHelpers(t *testing.T) {
	cfg := ScrapeConfig{DelaySecs: 1.5, TimeoutSecs: 20}
	assert.Equal(t, int64(1500), cfg.Delay().Milliseconds())
	assert.Equal(t, int64(20000), cfg.Timeout().Milliseconds())

	r := RoundupConfig{MinIntervalMins: 60}
	assert.Equal(t, 60.0, r.MinInterval().Minutes())
}
