// Package config loads the sideterm.yaml settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Window is the requested geometry of the viewer.
type Window struct {
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Config mirrors the sideterm.yaml document structure.
type Config struct {
	// DeviceDir is the directory holding the shared device nodes.
	DeviceDir string `yaml:"device_dir"`

	// RangeStart is the first (even) read id probed during allocation;
	// PairCount bounds the probe.
	RangeStart int `yaml:"range_start"`
	PairCount  int `yaml:"pair_count"`

	HandshakeTimeout Duration `yaml:"handshake_timeout"`

	// Launcher selects the registered launcher implementation.
	Launcher string `yaml:"launcher"`

	// Viewer overrides the executable spawned as the viewer child. Empty
	// means the running binary's own hidden viewer command.
	Viewer string `yaml:"viewer"`

	Window Window `yaml:"window"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DeviceDir:        filepath.Join(os.TempDir(), "sideterm"),
		RangeStart:       224,
		PairCount:        16,
		HandshakeTimeout: Duration{Duration: 3 * time.Second},
		Launcher:         "exec",
		Window:           Window{Rows: 24, Cols: 80},
	}
}

// Load reads a settings file from the provided path and applies defaults
// for anything the file leaves unset.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	cfg := Default()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}

	cfg.DeviceDir = os.ExpandEnv(cfg.DeviceDir)
	cfg.Viewer = os.ExpandEnv(cfg.Viewer)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the session layer depends on.
func (c *Config) Validate() error {
	if c.DeviceDir == "" {
		return fmt.Errorf("device_dir: must not be empty")
	}
	if c.RangeStart < 0 || c.RangeStart%2 != 0 {
		return fmt.Errorf("range_start: %d is not a non-negative even id", c.RangeStart)
	}
	if c.PairCount <= 0 {
		return fmt.Errorf("pair_count: %d must be positive", c.PairCount)
	}
	if c.HandshakeTimeout.Duration < 0 {
		return fmt.Errorf("handshake_timeout: must not be negative")
	}
	if c.Launcher == "" {
		return fmt.Errorf("launcher: must not be empty")
	}
	if c.Window.Rows <= 0 || c.Window.Cols <= 0 {
		return fmt.Errorf("window: rows and cols must be positive")
	}
	if c.Window.X < 0 || c.Window.Y < 0 {
		return fmt.Errorf("window: x and y must not be negative")
	}
	return nil
}
