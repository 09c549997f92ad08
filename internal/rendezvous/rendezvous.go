// Package rendezvous carries the one-shot handshake that tells a parent
// session which device id its child claimed. Each open call owns a private
// Cell, so concurrent sessions cannot race each other and nothing is shared
// across sessions.
package rendezvous

import (
	"context"
	"sync"
)

// Result is the child's report. OK false means the child could not claim a
// device pair and the parent should degrade to its default output.
type Result struct {
	WriteID int
	OK      bool
}

// Cell is a single-use handoff slot. Publish delivers at most one Result;
// Wait blocks until that Result is available or the context ends.
type Cell struct {
	once sync.Once
	ch   chan Result
}

func NewCell() *Cell {
	return &Cell{ch: make(chan Result, 1)}
}

// Publish hands the result to the waiting side. Calls after the first are
// ignored, which keeps late or duplicate reports from a dying child from
// corrupting a cell that was already consumed.
func (c *Cell) Publish(r Result) {
	c.once.Do(func() { c.ch <- r })
}

// Wait blocks until a result is published. Cancellation of ctx bounds the
// wait; callers translate that into "no channel" rather than an error the
// user has to handle.
func (c *Cell) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-c.ch:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
