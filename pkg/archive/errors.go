// pkg/archive/errors.go
package archive

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotThisFormat is returned when a decoder does not recognize the stream.
	// Callers holding several decoders should try the next one.
	ErrNotThisFormat = errors.New("archive: not this format")

	// ErrReadOnly is returned by every write-family operation
	ErrReadOnly = fmt.Errorf("archive: read-only: %w", fs.ErrPermission)

	// ErrNotFound is returned when a path is absent from the index
	ErrNotFound = fmt.Errorf("archive: %w", fs.ErrNotExist)

	// ErrNotAFile is returned when opening a directory or an entry with no stored data
	ErrNotAFile = errors.New("archive: not a file")

	// ErrNotADirectory is returned when enumerating a regular file
	ErrNotADirectory = errors.New("archive: not a directory")

	// ErrPastEnd is returned when seeking beyond the logical size of an entry
	ErrPastEnd = errors.New("archive: past end of file")

	// ErrCorrupt is returned for decoder parse failures and size mismatches
	ErrCorrupt = errors.New("archive: corrupt archive")

	// ErrOutOfMemory is returned when a decompressed block does not fit the memory budget
	ErrOutOfMemory = errors.New("archive: out of memory")

	// ErrUnsupported is returned for handle duplication
	ErrUnsupported = errors.New("archive: operation not supported")

	// ErrIO wraps failures of the underlying byte stream
	ErrIO = errors.New("archive: i/o error")

	// ErrHandlesOpen is returned when closing a session with live handles
	ErrHandlesOpen = errors.New("archive: handles still open")

	// ErrClosed is returned by operations on a closed session or handle
	ErrClosed = fmt.Errorf("archive: %w", fs.ErrClosed)

	// ErrAppCallback wraps an error returned by an enumeration callback
	ErrAppCallback = errors.New("archive: enumeration callback failed")
)

// translateDecoderError maps errors coming out of a Decoder onto the
// package error set. Stream failures are already tagged with ErrIO by
// guardedStream; anything untagged is treated as corruption.
func translateDecoderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrIO),
		errors.Is(err, ErrCorrupt),
		errors.Is(err, ErrOutOfMemory),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, ErrNotThisFormat):
		return err
	}
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}
