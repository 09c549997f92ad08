// Package launcher abstracts how viewer subprocesses are started. The
// session layer talks to the Launcher interface only; the exec
// implementation in this package is the default, and tests register
// in-process fakes through the same factory registry.
package launcher

import (
	"context"
	"os"
	"sync"
)

// Spec describes one child to start. The command line already encodes the
// window geometry and device configuration; the rendezvous pipe rides as an
// inherited descriptor rather than an argument.
type Spec struct {
	Command []string
	Env     map[string]string
	Dir     string

	// Rendezvous is the write end the child reports its claimed device id
	// on. The launcher hands it to the child and closes its own copy, so
	// a child that dies before reporting closes the pipe and unblocks the
	// parent.
	Rendezvous *os.File
}

// Instance is a handle to a launched child.
type Instance interface {
	// Wait blocks until the child exits or ctx is cancelled.
	Wait(ctx context.Context) error

	// Stop terminates the child. Orderly shutdown travels in-band over
	// the device channel; Stop is the cleanup path for children that
	// never established one. Implementations must be idempotent.
	Stop(ctx context.Context) error
}

// Launcher starts children.
type Launcher interface {
	Launch(ctx context.Context, spec Spec) (Instance, error)
}

// Factory constructs a launcher.
type Factory func() Launcher

type factoryEntry struct {
	name    string
	factory Factory
}

var (
	registryMu sync.RWMutex
	factories  []factoryEntry
)

// Register associates a factory with a launcher name. Re-registering a name
// replaces the earlier factory, which is how tests substitute fakes.
func Register(name string, factory Factory) {
	if name == "" {
		panic("launcher.Register: name must not be empty")
	}
	if factory == nil {
		panic("launcher.Register: factory must not be nil")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	for i, entry := range factories {
		if entry.name == name {
			factories[i].factory = factory
			return
		}
	}
	factories = append(factories, factoryEntry{name: name, factory: factory})
}

// New returns the launcher registered under name, or nil when the name is
// unknown.
func New(name string) Launcher {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, entry := range factories {
		if entry.name == name {
			return entry.factory()
		}
	}
	return nil
}
