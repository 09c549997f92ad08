package viewer

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewPlacesPaneAtRequestedGeometry(t *testing.T) {
	v := New(2, 3, 10, 40)

	x, y, width, height := v.text.GetRect()
	if x != 2 || y != 3 {
		t.Fatalf("expected pane at 2,3, got %d,%d", x, y)
	}
	if width != 40 || height != 10 {
		t.Fatalf("expected pane 40x10, got %dx%d", width, height)
	}
}

func TestWriteAppendsToPane(t *testing.T) {
	v := New(0, 0, 24, 80)

	if _, err := fmt.Fprint(v, "progress line"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := v.text.GetText(false); !strings.Contains(got, "progress line") {
		t.Fatalf("expected pane to contain relayed text, got %q", got)
	}
}

func TestStopIsIdempotentBeforeRun(t *testing.T) {
	v := New(0, 0, 24, 80)
	v.Stop()
	v.Stop()
}
