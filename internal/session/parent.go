package session

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sideterm/sideterm/internal/device"
	"github.com/sideterm/sideterm/internal/launcher"
	"github.com/sideterm/sideterm/internal/rendezvous"
)

// DefaultHandshakeTimeout bounds how long Open waits for the child's device
// report before degrading to the default output.
const DefaultHandshakeTimeout = 3 * time.Second

// OpenSpec is the requested geometry of the viewer window.
type OpenSpec struct {
	X, Y       int
	Rows, Cols int
}

// ParentConfig wires a parent session to its environment.
type ParentConfig struct {
	Launcher launcher.Launcher
	Devices  device.Registry

	// ChildCommand builds the argv that starts a viewer child with the
	// given geometry. The rendezvous pipe is passed out of band as an
	// inherited descriptor, never on the command line.
	ChildCommand func(OpenSpec) []string

	// DefaultOutput is where a disabled channel routes data. Defaults to
	// stdout.
	DefaultOutput io.Writer

	HandshakeTimeout time.Duration

	Log zerolog.Logger
}

// Parent opens display channels backed by viewer children.
type Parent struct {
	cfg ParentConfig
}

func NewParent(cfg ParentConfig) (*Parent, error) {
	if cfg.Launcher == nil {
		return nil, errors.New("session: parent requires a launcher")
	}
	if cfg.Devices == nil {
		return nil, errors.New("session: parent requires a device registry")
	}
	if cfg.ChildCommand == nil {
		return nil, errors.New("session: parent requires a child command builder")
	}
	if cfg.DefaultOutput == nil {
		cfg.DefaultOutput = os.Stdout
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	return &Parent{cfg: cfg}, nil
}

// Open spawns a viewer child and waits, bounded by the handshake timeout,
// for it to report a device pair. Every runtime failure (launch error,
// child crash, allocator exhaustion, timeout) yields a disabled channel
// rather than an error, so call sites route output without branching.
func (p *Parent) Open(ctx context.Context, spec OpenSpec) *Channel {
	log := p.cfg.Log

	rp, wp, err := os.Pipe()
	if err != nil {
		log.Warn().Err(err).Msg("rendezvous pipe unavailable, using default output")
		return p.disabled()
	}

	// Each open call owns a fresh cell; concurrent opens cannot observe
	// each other's reports.
	cell := rendezvous.NewCell()
	go func() {
		defer rp.Close()
		rendezvous.Listen(rp, cell)
	}()

	inst, err := p.cfg.Launcher.Launch(ctx, launcher.Spec{
		Command:    p.cfg.ChildCommand(spec),
		Rendezvous: wp,
	})
	if err != nil {
		_ = wp.Close()
		log.Warn().Err(err).Msg("viewer launch failed, using default output")
		return p.disabled()
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.HandshakeTimeout)
	defer cancel()

	res, err := cell.Wait(waitCtx)
	if err != nil {
		// The child may still claim a pair later and block on it; stop
		// it rather than leak a reader nobody will ever write to.
		go func() { _ = inst.Stop(context.Background()) }()
		log.Warn().Err(err).Msg("handshake timed out, using default output")
		return p.disabled()
	}
	if !res.OK {
		log.Info().Msg("viewer reported no free channel, using default output")
		return p.disabled()
	}

	if err := p.cfg.Devices.OpenForWrite(res.WriteID, p.cfg.HandshakeTimeout); err != nil {
		// The child sits in its read loop holding the pair; without a
		// write side it would block there forever.
		go func() { _ = inst.Stop(context.Background()) }()
		log.Warn().Err(err).Int("write_id", res.WriteID).Msg("cannot open reported device, using default output")
		return p.disabled()
	}

	log.Debug().Int("write_id", res.WriteID).Msg("channel open")
	return &Channel{
		devices:  p.cfg.Devices,
		writeID:  res.WriteID,
		state:    stateOpen,
		fallback: p.cfg.DefaultOutput,
		inst:     inst,
		log:      log,
	}
}

func (p *Parent) disabled() *Channel {
	return &Channel{
		state:    stateDisabled,
		fallback: p.cfg.DefaultOutput,
		log:      p.cfg.Log,
	}
}
