package relay

import (
	"io"
	"strings"
	"testing"
)

func TestMuxFansInMultipleSources(t *testing.T) {
	mux := New(8)
	mux.Add("stdout", strings.NewReader("out one\nout two\n"))
	mux.Add("stderr", strings.NewReader("err one\n"))

	go mux.Close()

	bySource := map[string][]string{}
	for line := range mux.Output() {
		bySource[line.Source] = append(bySource[line.Source], line.Text)
	}

	if got := bySource["stdout"]; len(got) != 2 || got[0] != "out one" || got[1] != "out two" {
		t.Fatalf("stdout lines out of order: %v", got)
	}
	if got := bySource["stderr"]; len(got) != 1 || got[0] != "err one" {
		t.Fatalf("stderr lines wrong: %v", got)
	}
}

func TestMuxPreservesPerSourceOrder(t *testing.T) {
	mux := New(64)
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "line")
	}
	mux.Add("stdout", strings.NewReader(strings.Join(lines, "\n")+"\n"))

	go mux.Close()

	count := 0
	for range mux.Output() {
		count++
	}
	if count != 20 {
		t.Fatalf("expected 20 lines, got %d", count)
	}
}

func TestMuxReportsDroppedLines(t *testing.T) {
	// A buffer of one with no consumer forces drops; the drop marker is
	// flushed when the mux closes and the consumer finally drains.
	mux := New(1)
	mux.deliver(Line{Source: "stdout", Text: "a"})
	mux.deliver(Line{Source: "stdout", Text: "b"})
	mux.deliver(Line{Source: "stdout", Text: "c"})

	go mux.Close()

	var texts []string
	for line := range mux.Output() {
		texts = append(texts, line.Text)
	}

	if len(texts) != 2 {
		t.Fatalf("expected delivered line plus drop marker, got %v", texts)
	}
	if texts[0] != "a" {
		t.Fatalf("expected a first, got %v", texts)
	}
	if texts[1] != "[relay] dropped=2" {
		t.Fatalf("expected drop marker for 2 lines, got %q", texts[1])
	}
}

func TestMuxIgnoresNilReaders(t *testing.T) {
	mux := New(1)
	mux.Add("stdout", nil)
	mux.Add("stderr", io.Reader(nil))
	mux.Close()

	if _, ok := <-mux.Output(); ok {
		t.Fatal("expected an empty, closed output channel")
	}
}
