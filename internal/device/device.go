package device

import (
	"errors"
	"time"
)

// Devices are addressed by small integer ids. Ids come in even/odd pairs:
// the even id names the read end of a duplex channel and the odd id
// (even+1) names its write end. Claiming the read end claims the pair.
var (
	// ErrBusy reports that a device id is already claimed by another
	// owner. Allocation treats this as "try the next candidate".
	ErrBusy = errors.New("device busy")

	// ErrNotOpen reports an operation against an id that has not been
	// opened through this registry.
	ErrNotOpen = errors.New("device not open")

	// ErrClosed reports an operation against a device whose peer has
	// released it.
	ErrClosed = errors.New("device closed")
)

// Registry is the terminal device layer. A timeout of zero means "attempt
// immediately and fail with ErrBusy rather than waiting for the device to
// become available", which is what lets the allocator probe candidate ids
// without blocking.
type Registry interface {
	// OpenForRead claims the pair owned by the even id and opens its read
	// end. The claim persists until Close is called with the same id.
	OpenForRead(id int, timeout time.Duration) error

	// OpenForWrite opens the write end named by an odd id. The pair must
	// already be claimed by a reader.
	OpenForWrite(id int, timeout time.Duration) error

	// Close releases an end previously opened through this registry.
	// Closing an id that is not open is a no-op.
	Close(id int) error

	// ReadByte blocks until one byte is available on an open read end.
	ReadByte(id int) (byte, error)

	// WriteByte delivers one byte to an open write end.
	WriteByte(id int, b byte) error
}
