package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCellWidth  = 10
	DefaultCellHeight = 20
	DefaultFPS        = 60
	DefaultVolume     = 0.6
	DefaultSampleRate = 44100
	DefaultAddr       = ":8080"
	DefaultDataDir    = ".termfolio"
)

var (
	ErrUnknownPreset = errors.New("config: unknown viewport preset")
	ErrInvalid       = errors.New("config: invalid value")
)

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Content   string          `yaml:"content"`
	Theme     string          `yaml:"theme"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Field     FieldConfig     `yaml:"field"`
	Boot      BootConfig      `yaml:"boot"`
	Audio     AudioConfig     `yaml:"audio"`
	Input     InputConfig     `yaml:"input"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// ViewportConfig maps terminal cells to the pixel widths the field is
// configured by. Width, when non-zero, pins the viewport width in pixels.
type ViewportConfig struct {
	Width      int `yaml:"width"`
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

type FieldConfig struct {
	FPS  int   `yaml:"fps"`
	Seed int64 `yaml:"seed"`
}

type BootConfig struct {
	// Skip enters the visual chain without audio as soon as the program starts.
	Skip bool `yaml:"skip"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Sink       string  `yaml:"sink"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

type InputConfig struct {
	// Mode is auto, pointer or touch.
	Mode string `yaml:"mode"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// SkipCountsAsBoot records a boot_started event on the skip path as
	// well as on the gesture path.
	SkipCountsAsBoot bool `yaml:"skip_counts_as_boot"`
	// Salt is mixed into visitor address hashes.
	Salt string `yaml:"salt"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Theme:   "nothing",
		Viewport: ViewportConfig{
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
		},
		Field: FieldConfig{FPS: DefaultFPS},
		Audio: AudioConfig{
			Enabled:    true,
			Sink:       "speaker",
			Volume:     DefaultVolume,
			SampleRate: DefaultSampleRate,
		},
		Input:     InputConfig{Mode: "auto"},
		Telemetry: TelemetryConfig{Path: "events.db"},
		Server:    ServerConfig{Addr: DefaultAddr, Mode: "release"},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.Audio.Sink {
	case "speaker", "portaudio", "none":
	default:
		return fmt.Errorf("%w: audio.sink %q", ErrInvalid, c.Audio.Sink)
	}
	switch c.Input.Mode {
	case "auto", "pointer", "touch":
	default:
		return fmt.Errorf("%w: input.mode %q", ErrInvalid, c.Input.Mode)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume %.2f outside [0,1]", ErrInvalid, c.Audio.Volume)
	}
	if c.Field.FPS <= 0 {
		return fmt.Errorf("%w: field.fps must be positive", ErrInvalid)
	}
	if c.Viewport.CellWidth <= 0 || c.Viewport.CellHeight <= 0 {
		return fmt.Errorf("%w: viewport cell size must be positive", ErrInvalid)
	}
	return nil
}

// DataPath joins name onto the data directory unless name is absolute.
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
