// pkg/vfs/vfs.go
package vfs

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

// Fs exposes an archive session as a read-only afero filesystem.
// Closing files releases their block references; the session itself
// stays owned by the caller.
type Fs struct {
	session *archive.Session
}

var _ afero.Fs = (*Fs)(nil)

// New wraps session.
func New(session *archive.Session) *Fs {
	return &Fs{session: session}
}

// IOFS returns the archive as an io/fs filesystem.
func (f *Fs) IOFS() fs.FS {
	return afero.NewIOFS(f)
}

// Name returns the archive name.
func (f *Fs) Name() string { return "solidfs:" + f.session.Name() }

func readOnly(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: archive.ErrReadOnly}
}

func clean(name string) string {
	p := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}

// Open opens name for reading. Directories and empty files are served
// from the index without touching any block.
func (f *Fs) Open(name string) (afero.File, error) {
	p := clean(name)
	info, err := f.session.FileInfo(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		children, err := f.session.ReadDir(p)
		if err != nil {
			return nil, err
		}
		infos := make([]os.FileInfo, len(children))
		for i, e := range children {
			infos[i] = e.FileInfo()
		}
		return &dirFile{name: name, info: info, children: infos}, nil
	}

	entry := info.Sys().(*archive.Entry)
	if !entry.HasBlock() {
		return &emptyFile{name: name, info: info}, nil
	}
	h, err := f.session.OpenRead(p)
	if err != nil {
		return nil, err
	}
	return &file{name: name, Handle: h}, nil
}

// OpenFile accepts read-only flags only.
func (f *Fs) OpenFile(name string, flag int, _ os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, readOnly("open", name)
	}
	return f.Open(name)
}

// Stat returns the entry's file info.
func (f *Fs) Stat(name string) (os.FileInfo, error) {
	return f.session.FileInfo(clean(name))
}

func (f *Fs) Create(name string) (afero.File, error) { return nil, readOnly("create", name) }
func (f *Fs) Mkdir(name string, _ os.FileMode) error { return readOnly("mkdir", name) }
func (f *Fs) MkdirAll(name string, _ os.FileMode) error { return readOnly("mkdir", name) }
func (f *Fs) Remove(name string) error { return readOnly("remove", name) }
func (f *Fs) RemoveAll(name string) error { return readOnly("remove", name) }
func (f *Fs) Rename(oldname, _ string) error { return readOnly("rename", oldname) }
func (f *Fs) Chmod(name string, _ os.FileMode) error { return readOnly("chmod", name) }
func (f *Fs) Chown(name string, _, _ int) error { return readOnly("chown", name) }
func (f *Fs) Chtimes(name string, _, _ time.Time) error { return readOnly("chtimes", name) }
