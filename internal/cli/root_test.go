package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestRootRegistersCommands(t *testing.T) {
	root := NewRootCmd()

	want := map[string]bool{"run": false, "open": false, "viewer": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
		if cmd.Name() == "viewer" && !cmd.Hidden {
			t.Fatal("viewer command must stay hidden")
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("command %s not registered", name)
		}
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"run", "--", "true"})

	// Resolve the run command the way cobra would, without executing it.
	runCmd, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatalf("find run: %v", err)
	}

	ctx := &context{configFile: "sideterm.yaml"}
	cfg, err := ctx.loadConfig(runCmd)
	if err != nil {
		t.Fatalf("expected defaults for a missing default config, got %v", err)
	}
	if cfg.RangeStart != 224 {
		t.Fatalf("expected default range_start 224, got %d", cfg.RangeStart)
	}
}

func TestLoadConfigExplicitMissingFileFails(t *testing.T) {
	root := NewRootCmd()
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"open", "--config", missing})
	root.SetIn(bytes.NewReader(nil))

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for an explicitly named missing config")
	}
}
