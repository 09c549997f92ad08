package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/sideterm/sideterm/internal/device"
	"github.com/sideterm/sideterm/internal/rendezvous"
)

// ShutdownByte is the reserved in-band value (EOT) that ends a child's read
// loop. Everything else read from the channel is display data.
const ShutdownByte byte = 0x04

// ChildConfig wires a child session to its environment.
type ChildConfig struct {
	Devices device.Registry

	// RangeStart is the first (even) read id probed; PairCount bounds the
	// probe. Zero PairCount means device.DefaultPairCount.
	RangeStart int
	PairCount  int

	// Publish delivers the handshake report to the parent.
	Publish func(rendezvous.Result) error

	// Sink receives every relayed byte. Defaults to nothing useful, so
	// callers always set it (stdout, or a viewer).
	Sink io.Writer

	Log zerolog.Logger
}

// Child runs inside the spawned viewer process.
type Child struct {
	cfg ChildConfig
}

func NewChild(cfg ChildConfig) (*Child, error) {
	if cfg.Devices == nil {
		return nil, errors.New("session: child requires a device registry")
	}
	if cfg.Publish == nil {
		return nil, errors.New("session: child requires a publish func")
	}
	if cfg.Sink == nil {
		return nil, errors.New("session: child requires a sink")
	}
	return &Child{cfg: cfg}, nil
}

// Run claims a device pair, reports it to the parent, and relays channel
// bytes to the sink until the shutdown byte arrives. Allocation exhaustion
// is reported through the rendezvous and is not an error here; the parent
// must never be left waiting for a report that will never come, so the report
// happens before anything else can fail.
func (c *Child) Run(ctx context.Context) error {
	pair, err := device.AllocateRange(c.cfg.Devices, c.cfg.RangeStart, c.cfg.PairCount)
	if err != nil {
		if errors.Is(err, device.ErrNoFreeDevices) {
			c.cfg.Log.Warn().Int("range_start", c.cfg.RangeStart).Msg("no free device pairs, reporting no channel")
			return c.cfg.Publish(rendezvous.Result{})
		}
		// Unexpected allocator failure still must unblock the parent.
		_ = c.cfg.Publish(rendezvous.Result{})
		return fmt.Errorf("allocate device pair: %w", err)
	}
	defer func() {
		_ = c.cfg.Devices.Close(pair.ReadID)
	}()

	if err := c.cfg.Publish(rendezvous.Result{WriteID: pair.WriteID, OK: true}); err != nil {
		return fmt.Errorf("report device pair: %w", err)
	}
	c.cfg.Log.Debug().Int("read_id", pair.ReadID).Int("write_id", pair.WriteID).Msg("channel established")

	// Cancellation releases the read end, which fails the blocked read.
	stop := context.AfterFunc(ctx, func() {
		_ = c.cfg.Devices.Close(pair.ReadID)
	})
	defer stop()

	for {
		b, err := c.cfg.Devices.ReadByte(pair.ReadID)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, device.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read device %d: %w", pair.ReadID, err)
		}
		if b == ShutdownByte {
			c.cfg.Log.Debug().Int("read_id", pair.ReadID).Msg("shutdown byte received")
			return nil
		}
		if _, err := c.cfg.Sink.Write([]byte{b}); err != nil {
			return fmt.Errorf("relay to sink: %w", err)
		}
	}
}
