package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides config fields from TERMFOLIO_* variables. Unparseable
// values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TERMFOLIO_DATA"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TERMFOLIO_CONTENT"); v != "" {
		c.Content = v
	}
	if v := os.Getenv("TERMFOLIO_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("TERMFOLIO_INPUT"); v != "" {
		c.Input.Mode = v
	}
	if v, ok := envInt("TERMFOLIO_VIEWPORT_WIDTH"); ok {
		c.Viewport.Width = v
	}
	if v, ok := envBool("TERMFOLIO_AUDIO_ENABLED"); ok {
		c.Audio.Enabled = v
	}
	if v := os.Getenv("TERMFOLIO_AUDIO_SINK"); v != "" {
		c.Audio.Sink = v
	}
	if v, ok := envInt("TERMFOLIO_VOLUME"); ok {
		c.Audio.Volume = clamp01(float64(v) / 100)
	}
	if v, ok := envBool("TERMFOLIO_SKIP_BOOT"); ok {
		c.Boot.Skip = v
	}
	if v, ok := envBool("TERMFOLIO_TELEMETRY"); ok {
		c.Telemetry.Enabled = v
	}
	if v, ok := envBool("TERMFOLIO_SKIP_COUNTS_AS_BOOT"); ok {
		c.Telemetry.SkipCountsAsBoot = v
	}
	if v := os.Getenv("TERMFOLIO_SALT"); v != "" {
		c.Telemetry.Salt = v
	}
	if v := os.Getenv("TERMFOLIO_ADDR"); v != "" {
		c.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("TERMFOLIO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
