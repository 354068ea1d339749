// pkg/archive/handle.go
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"sync"
)

// Handle is an open cursor over one entry. Its bytes are only reachable
// by decompressing the entry's whole block, which happens on the first
// Read or ReadAt. ReadAt may be called from several goroutines at once;
// Read and Seek share the cursor and are not safe for concurrent use.
type Handle struct {
	session *Session
	entry   *Entry
	pos     int64

	mu       sync.Mutex // guards data and resolved
	data     []byte
	resolved bool
	closed   bool
}

var (
	_ io.ReadSeekCloser = (*Handle)(nil)
	_ io.ReaderAt       = (*Handle)(nil)
)

// Name returns the entry path.
func (h *Handle) Name() string { return h.entry.Path }

// Entry returns the index entry the handle reads.
func (h *Handle) Entry() *Entry { return h.entry }

// Stat returns the entry's file info.
func (h *Handle) Stat() (fs.FileInfo, error) {
	return h.entry.FileInfo(), nil
}

// Len returns the logical size of the entry.
func (h *Handle) Len() int64 { return int64(h.entry.Size) }

// Tell returns the current position.
func (h *Handle) Tell() int64 { return h.pos }

func (h *Handle) pathError(op string, err error) error {
	return &fs.PathError{Op: op, Path: h.entry.Path, Err: err}
}

// contents resolves the entry's bytes inside its block. The decoder's
// extent must match the size recorded in the index. A failure leaves the
// handle unresolved so the next read retries.
func (h *Handle) contents() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved {
		return h.data, nil
	}

	block, err := h.session.loadBlock(h.entry.Block)
	if err != nil {
		return nil, err
	}
	ext, ok := block.Extents[h.entry.member]
	if !ok {
		return nil, fmt.Errorf("%w: no extent in block %d", ErrCorrupt, h.entry.Block)
	}
	if ext.Size != h.entry.Size {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrCorrupt, ext.Size, h.entry.Size)
	}
	end := ext.Offset + ext.Size
	if end < ext.Offset || end > uint64(len(block.Data)) {
		return nil, fmt.Errorf("%w: extent [%d, %d) outside block of %d bytes",
			ErrCorrupt, ext.Offset, end, len(block.Data))
	}

	h.data = block.Data[ext.Offset:end:end]
	h.resolved = true
	return h.data, nil
}

// Read reads from the current position. A zero-length read always
// succeeds. A non-empty read at or past the end returns io.EOF, which is
// how reads report ErrPastEnd; Seek and negative ReadAt offsets return
// ErrPastEnd itself.
func (h *Handle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, h.pathError("read", ErrClosed)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if h.pos >= h.Len() {
		return 0, io.EOF
	}

	data, err := h.contents()
	if err != nil {
		return 0, h.pathError("read", err)
	}
	n := copy(p, data[h.pos:])
	h.pos += int64(n)
	return n, nil
}

// ReadAt reads at off without moving the cursor.
func (h *Handle) ReadAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, h.pathError("readat", ErrClosed)
	}
	if off < 0 {
		return 0, h.pathError("readat", ErrPastEnd)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= h.Len() {
		return 0, io.EOF
	}

	data, err := h.contents()
	if err != nil {
		return 0, h.pathError("readat", err)
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek moves the cursor. Positions beyond the entry size fail with
// ErrPastEnd. Seeking never decompresses.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, h.pathError("seek", ErrClosed)
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = h.pos + offset
	case io.SeekEnd:
		target = h.Len() + offset
	default:
		return 0, h.pathError("seek", fmt.Errorf("invalid whence %d", whence))
	}
	if target < 0 || target > h.Len() {
		return 0, h.pathError("seek", ErrPastEnd)
	}
	h.pos = target
	return target, nil
}

// Duplicate is unsupported; open the path again for an independent cursor.
func (h *Handle) Duplicate() (*Handle, error) {
	return nil, h.pathError("duplicate", ErrUnsupported)
}

// Write always fails.
func (h *Handle) Write(p []byte) (int, error) {
	return 0, h.pathError("write", ErrReadOnly)
}

// Flush is a no-op.
func (h *Handle) Flush() error { return nil }

// Close releases the handle's block reference. Closing twice returns ErrClosed.
func (h *Handle) Close() error {
	if h.closed {
		return h.pathError("close", ErrClosed)
	}
	h.closed = true
	h.mu.Lock()
	h.data = nil
	h.mu.Unlock()
	h.session.releaseHandle(h)
	return nil
}
