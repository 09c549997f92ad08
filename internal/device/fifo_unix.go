//go:build !windows

package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// FIFORegistry backs device pairs with numbered FIFO nodes in a shared
// directory, so sessions in different processes address the same channel by
// id alone. The even id of a pair names the FIFO node; the odd id is the
// write end of the same node.
//
// A claim is the FIFO node itself: Mkfifo with an existing node fails, which
// gives the allocator its exclusive non-blocking probe. A session that dies
// without releasing its pair leaves the node behind and the id stays claimed
// until the directory is cleaned up; the allocation range is sized to
// tolerate a few stale nodes.
type FIFORegistry struct {
	dir string

	mu    sync.Mutex
	files map[int]*os.File
}

func NewFIFORegistry(dir string) (*FIFORegistry, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("device dir %s: %w", dir, err)
	}
	return &FIFORegistry{dir: dir, files: make(map[int]*os.File)}, nil
}

func (r *FIFORegistry) path(id int) string {
	return filepath.Join(r.dir, fmt.Sprintf("chan-%d", id&^1))
}

func (r *FIFORegistry) OpenForRead(id int, timeout time.Duration) error {
	if id%2 != 0 {
		return fmt.Errorf("read id %d: %w", id, ErrNotOpen)
	}
	path := r.path(id)
	deadline := time.Now().Add(timeout)
	for {
		err := unix.Mkfifo(path, 0o600)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EEXIST) {
			return fmt.Errorf("claim device %d: %w", id, err)
		}
		if timeout == 0 || time.Now().After(deadline) {
			return fmt.Errorf("device %d: %w", id, ErrBusy)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// O_RDWR keeps a writer reference on the node so the read side never
	// sees EOF before the peer attaches, and reads block on the runtime
	// poller instead of spinning on EAGAIN.
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("open device %d: %w", id, err)
	}

	r.mu.Lock()
	r.files[id] = f
	r.mu.Unlock()
	return nil
}

func (r *FIFORegistry) OpenForWrite(id int, timeout time.Duration) error {
	if id%2 == 0 {
		return fmt.Errorf("write id %d: %w", id, ErrNotOpen)
	}
	path := r.path(id)
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, 0)
		if err == nil {
			r.mu.Lock()
			r.files[id] = f
			r.mu.Unlock()
			return nil
		}
		// ENXIO means no reader has the node open yet; ENOENT means the
		// pair was never claimed or already released.
		if !errors.Is(err, unix.ENXIO) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("open device %d: %w", id, err)
		}
		if timeout == 0 || time.Now().After(deadline) {
			return fmt.Errorf("device %d: %w", id, ErrBusy)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (r *FIFORegistry) Close(id int) error {
	r.mu.Lock()
	f, ok := r.files[id]
	delete(r.files, id)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	err := f.Close()
	if id%2 == 0 {
		// Releasing the read end releases the claim.
		if rmErr := os.Remove(r.path(id)); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}
	return err
}

func (r *FIFORegistry) ReadByte(id int) (byte, error) {
	r.mu.Lock()
	f, ok := r.files[id]
	r.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("read id %d: %w", id, ErrNotOpen)
	}
	var buf [1]byte
	for {
		n, err := f.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			if errors.Is(err, os.ErrClosed) {
				return 0, ErrClosed
			}
			return 0, err
		}
	}
}

func (r *FIFORegistry) WriteByte(id int, b byte) error {
	r.mu.Lock()
	f, ok := r.files[id]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("write id %d: %w", id, ErrNotOpen)
	}
	if _, err := f.Write([]byte{b}); err != nil {
		if errors.Is(err, os.ErrClosed) {
			return ErrClosed
		}
		return err
	}
	return nil
}
