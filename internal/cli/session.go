package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sideterm/sideterm/internal/config"
	"github.com/sideterm/sideterm/internal/device"
	"github.com/sideterm/sideterm/internal/launcher"
	"github.com/sideterm/sideterm/internal/session"
)

// newParent assembles a parent session from the loaded settings. The child
// command re-invokes this binary's hidden viewer subcommand unless the
// settings name another executable.
func newParent(cfg *config.Config, log zerolog.Logger) (*session.Parent, error) {
	devices, err := device.NewFIFORegistry(cfg.DeviceDir)
	if err != nil {
		return nil, err
	}

	l := launcher.New(cfg.Launcher)
	if l == nil {
		return nil, fmt.Errorf("unknown launcher %q", cfg.Launcher)
	}

	exe := cfg.Viewer
	if exe == "" {
		exe, err = os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve viewer executable: %w", err)
		}
	}

	childCommand := func(spec session.OpenSpec) []string {
		return []string{
			exe, "viewer",
			"--device-dir", cfg.DeviceDir,
			"--range-start", strconv.Itoa(cfg.RangeStart),
			"--pairs", strconv.Itoa(cfg.PairCount),
			"--x", strconv.Itoa(spec.X),
			"--y", strconv.Itoa(spec.Y),
			"--rows", strconv.Itoa(spec.Rows),
			"--cols", strconv.Itoa(spec.Cols),
		}
	}

	return session.NewParent(session.ParentConfig{
		Launcher:         l,
		Devices:          devices,
		ChildCommand:     childCommand,
		DefaultOutput:    os.Stdout,
		HandshakeTimeout: cfg.HandshakeTimeout.Duration,
		Log:              log,
	})
}

func openSpec(cfg *config.Config) session.OpenSpec {
	return session.OpenSpec{
		X:    cfg.Window.X,
		Y:    cfg.Window.Y,
		Rows: cfg.Window.Rows,
		Cols: cfg.Window.Cols,
	}
}
