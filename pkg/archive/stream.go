// pkg/archive/stream.go
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Stream is the raw archive byte source handed to a Decoder.
type Stream interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type fileStream struct {
	*os.File
	size int64
}

func (f *fileStream) Size() int64 { return f.size }

// NewFileStream wraps an open file. Closing the stream closes the file.
func NewFileStream(f *os.File) (Stream, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.Name(), err)
	}
	return &fileStream{File: f, size: info.Size()}, nil
}

// OpenFileStream opens the file at path as a Stream.
func OpenFileStream(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := NewFileStream(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

type bytesStream struct {
	*bytes.Reader
}

func (bytesStream) Close() error { return nil }

// NewBytesStream serves an in-memory archive.
func NewBytesStream(b []byte) Stream {
	return bytesStream{bytes.NewReader(b)}
}

// guardedStream tags failures of the underlying stream with ErrIO so
// they survive translation at the decoder boundary.
type guardedStream struct {
	Stream
}

func (g guardedStream) ReadAt(p []byte, off int64) (int, error) {
	n, err := g.Stream.ReadAt(p, off)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return n, err
}
