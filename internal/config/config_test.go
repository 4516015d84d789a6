package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Theme != "nothing" {
		t.Errorf("expected theme nothing, got %s", cfg.Theme)
	}
	if cfg.Field.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termfolio.yaml")
	cfg := DefaultConfig()
	cfg.Theme = "mono"
	cfg.Telemetry.SkipCountsAsBoot = true
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mono", loaded.Theme)
	assert.True(t, loaded.Telemetry.SkipCountsAsBoot)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: phosphor\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "phosphor", cfg.Theme)
	assert.Equal(t, DefaultFPS, cfg.Field.FPS)
	assert.Equal(t, "speaker", cfg.Audio.Sink)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("audio:\n  sink: tape\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGetPreset(t *testing.T) {
	w, err := GetPreset("mobile")
	require.NoError(t, err)
	assert.Equal(t, 375, w)

	_, err = GetPreset("watch")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestListPresetsSortedByWidth(t *testing.T) {
	assert.Equal(t, []string{"mobile", "tablet", "laptop", "desktop"}, ListPresets())
}

func TestResolveBreakpoint(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		width   int
		compact bool
	}{
		{375, true},
		{767, true},
		{768, false},
		{1440, false},
	}
	for _, tt := range tests {
		caps := Resolve(cfg, tt.width)
		assert.Equal(t, tt.compact, caps.Compact, "width %d", tt.width)
		assert.Equal(t, tt.compact, caps.Touch, "auto input follows compact at width %d", tt.width)
	}
}

func TestResolveInputModeOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Mode = "touch"
	assert.True(t, Resolve(cfg, 1440).Touch)

	cfg.Input.Mode = "pointer"
	caps := Resolve(cfg, 375)
	assert.True(t, caps.Compact)
	assert.True(t, caps.Pointer())
}

func TestResolvePinnedWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewport.Width = 375
	caps := Resolve(cfg, 2000)
	assert.Equal(t, 375, caps.WidthPx)
	assert.True(t, caps.Compact)
}

func TestResolveAudio(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, Resolve(cfg, 1000).Audio)
	cfg.Audio.Sink = "none"
	assert.False(t, Resolve(cfg, 1000).Audio)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TERMFOLIO_THEME", "mono")
	t.Setenv("TERMFOLIO_VIEWPORT_WIDTH", "375")
	t.Setenv("TERMFOLIO_VOLUME", "150")
	t.Setenv("TERMFOLIO_SKIP_COUNTS_AS_BOOT", "true")
	t.Setenv("TERMFOLIO_AUDIO_ENABLED", "not-a-bool")
	t.Setenv("PORT", "9090")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, 375, cfg.Viewport.Width)
	assert.Equal(t, 1.0, cfg.Audio.Volume)
	assert.True(t, cfg.Telemetry.SkipCountsAsBoot)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TERMFOLIO_TEST_DOTENV=loaded\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TERMFOLIO_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("TERMFOLIO_TEST_DOTENV"))
}

func TestDataPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/termfolio"
	assert.Equal(t, "/var/lib/termfolio/events.db", cfg.DataPath("events.db"))
	assert.Equal(t, "/tmp/x.db", cfg.DataPath("/tmp/x.db"))
}

func TestCellsToPixels(t *testing.T) {
	cfg := DefaultConfig()
	w, h := cfg.CellsToPixels(80, 24)
	assert.Equal(t, 800, w)
	assert.Equal(t, 480, h)
}
