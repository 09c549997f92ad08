// Package logging configures the process-wide zerolog sink. Both the parent
// CLI and the spawned viewer log to stderr; the viewer's stdout is reserved
// for relayed channel data.
package logging

import (
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "SIDETERM_LOG_LEVEL"
	EnvLogNoColor = "SIDETERM_LOG_NOCOLOR"
)

// Profile selects the default verbosity and formatting.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var (
	configureOnce sync.Once
	root          zerolog.Logger
)

func ConfigureRuntime() { Configure(ProfileRuntime) }
func ConfigureTests()   { Configure(ProfileTest) }

// Configure initialises the root logger exactly once; later calls are
// no-ops so tests and main cannot fight over the sink.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		level := zerolog.InfoLevel
		if profile == ProfileTest {
			level = zerolog.DebugLevel
		}
		if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
			level = lvl
		}
		w := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor()}
		root = zerolog.New(w).Level(level).With().Timestamp().Logger()
	})
}

// New returns a logger tagged with the originating component.
func New(component string) zerolog.Logger {
	Configure(ProfileRuntime)
	return root.With().Str("component", component).Logger()
}

func parseLevel(s string) (zerolog.Level, bool) {
	if s == "" {
		return zerolog.NoLevel, false
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, false
	}
	return lvl, true
}

func noColor() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvLogNoColor))
	return err == nil && v
}
