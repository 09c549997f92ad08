package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  zerolog.Level
		ok    bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"warn", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"", zerolog.NoLevel, false},
		{"shouting", zerolog.NoLevel, false},
	}
	for _, tc := range cases {
		lvl, ok := parseLevel(tc.input)
		if ok != tc.ok {
			t.Fatalf("parseLevel(%q): ok = %v, expected %v", tc.input, ok, tc.ok)
		}
		if ok && lvl != tc.want {
			t.Fatalf("parseLevel(%q) = %v, expected %v", tc.input, lvl, tc.want)
		}
	}
}

func TestNoColorEnvOverride(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"banana", false},
	}
	for _, tc := range cases {
		t.Setenv(EnvLogNoColor, tc.value)
		if got := noColor(); got != tc.want {
			t.Fatalf("noColor with %q = %v, expected %v", tc.value, got, tc.want)
		}
	}
}

func TestNewTagsComponent(t *testing.T) {
	// Configure is once-only for the process; New must still hand back a
	// usable logger however often it is called.
	first := New("session")
	second := New("launcher")
	first.Debug().Msg("session logger alive")
	second.Debug().Msg("launcher logger alive")
}
