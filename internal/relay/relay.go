// Package relay fans in output lines from a wrapped command and feeds them
// to a display channel without letting a stalled viewer stall the command.
package relay

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Line is one unit of relayed output.
type Line struct {
	Source string
	Text   string
}

// Mux fans in lines from multiple readers and delivers them via a bounded
// channel. When the consumer cannot keep up and the buffer would overflow,
// the mux drops lines and emits a synthesized warning line carrying the
// number of discarded entries.
type Mux struct {
	out chan Line

	mu     sync.Mutex
	drops  map[string]int
	inputs sync.WaitGroup
}

// New constructs a mux backed by a channel of the provided size. A size of
// zero results in a minimally buffered channel.
func New(size int) *Mux {
	if size <= 0 {
		size = 1
	}
	return &Mux{
		out:   make(chan Line, size),
		drops: make(map[string]int),
	}
}

// Output exposes the muxed line channel.
func (m *Mux) Output() <-chan Line {
	return m.out
}

// Add registers a source reader. The mux consumes lines until the reader
// reports EOF or any other error.
func (m *Mux) Add(source string, r io.Reader) {
	if r == nil {
		return
	}
	m.inputs.Add(1)
	go func() {
		defer m.inputs.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			m.deliver(Line{Source: source, Text: scanner.Text()})
		}
	}()
}

// Close waits for all sources to be drained, emits any pending drop
// metadata, and closes the output channel.
func (m *Mux) Close() {
	m.inputs.Wait()
	m.flushDrops()
	close(m.out)
}

func (m *Mux) deliver(line Line) {
	if !m.flushPending(line.Source) {
		m.recordDrops(line.Source, 1)
		return
	}
	if m.trySend(line) {
		return
	}
	m.recordDrops(line.Source, 1)
}

func (m *Mux) flushPending(source string) bool {
	for {
		count := m.takeDrops(source)
		if count == 0 {
			return true
		}
		if m.trySend(dropLine(source, count)) {
			continue
		}
		m.recordDrops(source, count)
		return false
	}
}

func (m *Mux) takeDrops(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.drops[source]
	if count != 0 {
		delete(m.drops, source)
	}
	return count
}

func (m *Mux) recordDrops(source string, count int) {
	if count <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drops[source] += count
}

func (m *Mux) flushDrops() {
	m.mu.Lock()
	pending := m.drops
	m.drops = make(map[string]int)
	m.mu.Unlock()
	for source, count := range pending {
		if count == 0 {
			continue
		}
		m.out <- dropLine(source, count)
	}
}

func (m *Mux) trySend(line Line) bool {
	select {
	case m.out <- line:
		return true
	default:
		return false
	}
}

func dropLine(source string, count int) Line {
	return Line{Source: source, Text: fmt.Sprintf("[relay] dropped=%d", count)}
}
