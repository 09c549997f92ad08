package device

import (
	"fmt"
	"sync"
	"time"
)

const memBufferSize = 1024

// memDevice is one claimed pair. The reader owns the claim; data flows
// through a buffered channel so writes ahead of the reader are preserved in
// order.
type memDevice struct {
	data chan byte
	done chan struct{}

	writeOpen   bool
	writeClosed bool
}

// MemRegistry is an in-process device layer. Parent and child sessions in
// the same process (tests, the in-process launcher) share one registry the
// way separate processes share a FIFO directory.
type MemRegistry struct {
	mu      sync.Mutex
	devices map[int]*memDevice
}

func NewMemRegistry() *MemRegistry {
	return &MemRegistry{devices: make(map[int]*memDevice)}
}

func (r *MemRegistry) OpenForRead(id int, timeout time.Duration) error {
	if id%2 != 0 {
		return fmt.Errorf("read id %d: %w", id, ErrNotOpen)
	}
	deadline := time.Now().Add(timeout)
	for {
		r.mu.Lock()
		if _, claimed := r.devices[id]; !claimed {
			r.devices[id] = &memDevice{
				data: make(chan byte, memBufferSize),
				done: make(chan struct{}),
			}
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()
		if timeout == 0 || time.Now().After(deadline) {
			return fmt.Errorf("read id %d: %w", id, ErrBusy)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (r *MemRegistry) OpenForWrite(id int, timeout time.Duration) error {
	if id%2 == 0 {
		return fmt.Errorf("write id %d: %w", id, ErrNotOpen)
	}
	deadline := time.Now().Add(timeout)
	for {
		r.mu.Lock()
		d, claimed := r.devices[id-1]
		if claimed && !d.writeOpen && !d.writeClosed {
			d.writeOpen = true
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()
		if timeout == 0 || time.Now().After(deadline) {
			if claimed {
				return fmt.Errorf("write id %d: %w", id, ErrBusy)
			}
			return fmt.Errorf("write id %d: no reader: %w", id, ErrNotOpen)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (r *MemRegistry) Close(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id%2 == 0 {
		d, ok := r.devices[id]
		if !ok {
			return nil
		}
		close(d.done)
		delete(r.devices, id)
		return nil
	}
	d, ok := r.devices[id-1]
	if !ok || !d.writeOpen {
		return nil
	}
	d.writeOpen = false
	d.writeClosed = true
	close(d.data)
	return nil
}

func (r *MemRegistry) ReadByte(id int) (byte, error) {
	r.mu.Lock()
	d, ok := r.devices[id]
	r.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("read id %d: %w", id, ErrNotOpen)
	}
	select {
	case b, ok := <-d.data:
		if !ok {
			return 0, ErrClosed
		}
		return b, nil
	case <-d.done:
		// The read end was released out from under a blocked read.
		return 0, ErrClosed
	}
}

func (r *MemRegistry) WriteByte(id int, b byte) error {
	r.mu.Lock()
	d, ok := r.devices[id-1]
	open := ok && d.writeOpen
	r.mu.Unlock()
	if !open {
		return fmt.Errorf("write id %d: %w", id, ErrNotOpen)
	}
	select {
	case d.data <- b:
		return nil
	case <-d.done:
		return ErrClosed
	}
}
