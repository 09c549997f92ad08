//go:build windows

package device

import (
	"errors"
	"time"
)

// FIFO-backed devices rely on named pipe nodes in a shared directory, which
// have no direct equivalent on Windows. Sessions on Windows must share a
// MemRegistry within one process.
type FIFORegistry struct{}

func NewFIFORegistry(dir string) (*FIFORegistry, error) {
	return nil, errors.New("fifo devices are not supported on windows")
}

func (r *FIFORegistry) OpenForRead(id int, timeout time.Duration) error  { return ErrNotOpen }
func (r *FIFORegistry) OpenForWrite(id int, timeout time.Duration) error { return ErrNotOpen }
func (r *FIFORegistry) Close(id int) error                               { return nil }
func (r *FIFORegistry) ReadByte(id int) (byte, error)                    { return 0, ErrNotOpen }
func (r *FIFORegistry) WriteByte(id int, b byte) error                   { return ErrNotOpen }
