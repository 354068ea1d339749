// pkg/vfs/file.go
package vfs

import (
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

func notDir(name string) error {
	return &fs.PathError{Op: "readdir", Path: name, Err: archive.ErrNotADirectory}
}

// file reads a regular entry through an archive handle.
type file struct {
	name string
	*archive.Handle
}

var _ afero.File = (*file)(nil)

func (f *file) Name() string { return f.name }
func (f *file) Write([]byte) (int, error) { return 0, readOnly("write", f.name) }
func (f *file) WriteAt([]byte, int64) (int, error) { return 0, readOnly("write", f.name) }
func (f *file) WriteString(string) (int, error) { return 0, readOnly("write", f.name) }
func (f *file) Truncate(int64) error { return readOnly("truncate", f.name) }
func (f *file) Sync() error { return nil }
func (f *file) Readdir(int) ([]os.FileInfo, error) { return nil, notDir(f.name) }
func (f *file) Readdirnames(int) ([]string, error) { return nil, notDir(f.name) }

// emptyFile is a zero-length entry; it owns no block.
type emptyFile struct {
	name   string
	info   os.FileInfo
	pos    int64
	closed bool
}

var _ afero.File = (*emptyFile)(nil)

func (f *emptyFile) Name() string { return f.name }
func (f *emptyFile) Stat() (os.FileInfo, error) { return f.info, nil }
func (f *emptyFile) Read([]byte) (int, error) { return 0, f.eof("read") }
func (f *emptyFile) ReadAt([]byte, int64) (int, error) { return 0, f.eof("read") }
func (f *emptyFile) Write([]byte) (int, error) { return 0, readOnly("write", f.name) }
func (f *emptyFile) WriteAt([]byte, int64) (int, error) { return 0, readOnly("write", f.name) }
func (f *emptyFile) WriteString(string) (int, error) { return 0, readOnly("write", f.name) }
func (f *emptyFile) Truncate(int64) error { return readOnly("truncate", f.name) }
func (f *emptyFile) Sync() error { return nil }
func (f *emptyFile) Readdir(int) ([]os.FileInfo, error) { return nil, notDir(f.name) }
func (f *emptyFile) Readdirnames(int) ([]string, error) { return nil, notDir(f.name) }

func (f *emptyFile) eof(op string) error {
	if f.closed {
		return &fs.PathError{Op: op, Path: f.name, Err: archive.ErrClosed}
	}
	return io.EOF
}

func (f *emptyFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: archive.ErrClosed}
	}
	if offset != 0 || whence < io.SeekStart || whence > io.SeekEnd {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: archive.ErrPastEnd}
	}
	return 0, nil
}

func (f *emptyFile) Close() error {
	if f.closed {
		return &fs.PathError{Op: "close", Path: f.name, Err: archive.ErrClosed}
	}
	f.closed = true
	return nil
}

// dirFile lists a directory snapshot taken at open time.
type dirFile struct {
	name     string
	info     os.FileInfo
	children []os.FileInfo
	offset   int
	closed   bool
}

var _ afero.File = (*dirFile)(nil)

func (d *dirFile) Name() string { return d.name }
func (d *dirFile) Stat() (os.FileInfo, error) { return d.info, nil }
func (d *dirFile) Sync() error { return nil }

func (d *dirFile) isDir(op string) error {
	return &fs.PathError{Op: op, Path: d.name, Err: archive.ErrNotAFile}
}

func (d *dirFile) Read([]byte) (int, error) { return 0, d.isDir("read") }
func (d *dirFile) ReadAt([]byte, int64) (int, error) { return 0, d.isDir("read") }
func (d *dirFile) Seek(int64, int) (int64, error) { return 0, d.isDir("seek") }
func (d *dirFile) Write([]byte) (int, error) { return 0, readOnly("write", d.name) }
func (d *dirFile) WriteAt([]byte, int64) (int, error) { return 0, readOnly("write", d.name) }
func (d *dirFile) WriteString(string) (int, error) { return 0, readOnly("write", d.name) }
func (d *dirFile) Truncate(int64) error { return readOnly("truncate", d.name) }

// Readdir follows os.File semantics: count > 0 returns at most count
// entries and io.EOF once exhausted, count <= 0 returns the rest.
func (d *dirFile) Readdir(count int) ([]os.FileInfo, error) {
	if d.closed {
		return nil, &fs.PathError{Op: "readdir", Path: d.name, Err: archive.ErrClosed}
	}
	rest := d.children[d.offset:]
	if count <= 0 {
		d.offset = len(d.children)
		return append([]os.FileInfo(nil), rest...), nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if count > len(rest) {
		count = len(rest)
	}
	d.offset += count
	return append([]os.FileInfo(nil), rest[:count]...), nil
}

func (d *dirFile) Readdirnames(n int) ([]string, error) {
	infos, err := d.Readdir(n)
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, err
}

func (d *dirFile) Close() error {
	if d.closed {
		return &fs.PathError{Op: "close", Path: d.name, Err: archive.ErrClosed}
	}
	d.closed = true
	return nil
}
