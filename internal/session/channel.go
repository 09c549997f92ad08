package session

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sideterm/sideterm/internal/device"
	"github.com/sideterm/sideterm/internal/launcher"
)

type channelState int

const (
	stateDisabled channelState = iota
	stateOpen
	stateClosed
)

// Channel is the parent's view of one display channel. A channel is either
// open, permanently disabled (no viewer could be established), or closed;
// disabled and closed channels never become open again.
//
// Channel methods deliberately return no errors: a channel that stops
// working degrades to the default output, matching the open-time behaviour.
type Channel struct {
	mu       sync.Mutex
	devices  device.Registry
	writeID  int
	state    channelState
	fallback io.Writer
	inst     launcher.Instance
	log      zerolog.Logger
}

// Enabled reports whether data currently reaches a viewer. Informational
// only; Send and Close behave sensibly either way.
func (c *Channel) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateOpen
}

// Send delivers data to the viewer, or to the default output when the
// channel is disabled or closed. A write failure on a live channel disables
// it and the remaining data follows the fallback path, exactly as if the
// viewer had shut down.
func (c *Channel) Send(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, b := range data {
		if c.state != stateOpen {
			c.writeFallback(data[i:])
			return
		}
		if err := c.devices.WriteByte(c.writeID, b); err != nil {
			c.log.Warn().Err(err).Int("write_id", c.writeID).Msg("channel write failed, degrading to default output")
			c.releaseLocked()
			c.state = stateDisabled
			c.writeFallback(data[i:])
			return
		}
	}
}

// Write adapts Send to io.Writer so channels slot into code that streams.
func (c *Channel) Write(p []byte) (int, error) {
	c.Send(p)
	return len(p), nil
}

// Close requests orderly viewer shutdown: one shutdown byte, then release of
// the write end. Closing a disabled, closed, or already-gone channel is a
// silent no-op, so double closes and closes after viewer death cost nothing.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateOpen {
		return
	}
	if err := c.devices.WriteByte(c.writeID, ShutdownByte); err != nil {
		c.log.Debug().Err(err).Int("write_id", c.writeID).Msg("shutdown byte not delivered")
	}
	c.releaseLocked()
	c.state = stateClosed
}

// Wait blocks until the viewer child exits. Channels without a live child
// return immediately.
func (c *Channel) Wait(ctx context.Context) error {
	c.mu.Lock()
	inst := c.inst
	c.mu.Unlock()
	if inst == nil {
		return nil
	}
	return inst.Wait(ctx)
}

func (c *Channel) writeFallback(data []byte) {
	if c.fallback == nil {
		return
	}
	_, _ = c.fallback.Write(data)
}

func (c *Channel) releaseLocked() {
	if c.devices != nil {
		_ = c.devices.Close(c.writeID)
	}
}
