// internal/fusefs/mount.go

//go:build linux

package fusefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the archive is mounted. It is
	// created if missing.
	Mountpoint string

	// Session is the archive to serve. It must outlive the mount.
	Session *archive.Session

	// AllowOther permits other users to access the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostic messages. If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Mount serves the archive read-only at the configured mountpoint. The
// caller must call Unmount on the returned server and wait for it before
// closing the session.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &dirNode{options: &options}

	// Archive content never changes under a mount.
	timeout := time.Hour
	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &timeout,
		AttrTimeout:     &timeout,
		NegativeTimeout: &timeout,
		MountOptions: fuse.MountOptions{
			FsName:     options.Session.Name(),
			Name:       "solidfs",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("archive mounted", "archive", options.Session.Name(), "mountpoint", options.Mountpoint)
	return server, nil
}

// toErrno maps archive errors onto errno values.
func toErrno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, archive.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, archive.ErrReadOnly):
		return syscall.EROFS
	case errors.Is(err, archive.ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, archive.ErrNotAFile):
		return syscall.EISDIR
	case errors.Is(err, archive.ErrOutOfMemory):
		return syscall.ENOMEM
	case errors.Is(err, archive.ErrUnsupported):
		return syscall.ENOTSUP
	case errors.Is(err, archive.ErrPastEnd):
		return syscall.EINVAL
	default:
		return syscall.EIO
	}
}

func setAttr(out *fuse.Attr, e *archive.Entry) {
	if e == nil || e.IsDir {
		out.Mode = syscall.S_IFDIR | 0o555
	} else {
		out.Mode = syscall.S_IFREG | 0o444
		out.Size = e.Size
		out.Blocks = (out.Size + 511) / 512
	}
	if e != nil && !e.ModTime.IsZero() {
		mtime := e.ModTime
		out.SetTimes(nil, &mtime, &mtime)
	}
}

// dirNode is a directory of the archive; the root has a nil entry.
type dirNode struct {
	gofuse.Inode
	options *Options
	entry   *archive.Entry
}

var _ gofuse.InodeEmbedder = (*dirNode)(nil)
var _ gofuse.NodeLookuper = (*dirNode)(nil)
var _ gofuse.NodeReaddirer = (*dirNode)(nil)
var _ gofuse.NodeGetattrer = (*dirNode)(nil)

func (d *dirNode) path(name string) string {
	if d.entry == nil {
		return name
	}
	return d.entry.Path + "/" + name
}

func (d *dirNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	setAttr(&out.Attr, d.entry)
	return 0
}

func (d *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	e, err := d.options.Session.Index().Lookup(d.path(name))
	if err != nil {
		return nil, toErrno(err)
	}
	setAttr(&out.Attr, e)

	if e.IsDir {
		child := &dirNode{options: d.options, entry: e}
		return d.NewInode(ctx, child, gofuse.StableAttr{Mode: syscall.S_IFDIR}), 0
	}
	child := &fileNode{options: d.options, entry: e}
	return d.NewInode(ctx, child, gofuse.StableAttr{Mode: syscall.S_IFREG}), 0
}

func (d *dirNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	dir := ""
	if d.entry != nil {
		dir = d.entry.Path
	}
	children, err := d.options.Session.ReadDir(dir)
	if err != nil {
		return nil, toErrno(err)
	}

	entries := make([]fuse.DirEntry, len(children))
	for i, e := range children {
		mode := uint32(syscall.S_IFREG)
		if e.IsDir {
			mode = syscall.S_IFDIR
		}
		entries[i] = fuse.DirEntry{Name: e.Name(), Mode: mode}
	}
	return gofuse.NewListDirStream(entries), 0
}

// fileNode is a regular archive member. Each open holds a reference on
// the member's block until the kernel releases the file.
type fileNode struct {
	gofuse.Inode
	options *Options
	entry   *archive.Entry
}

var _ gofuse.InodeEmbedder = (*fileNode)(nil)
var _ gofuse.NodeGetattrer = (*fileNode)(nil)
var _ gofuse.NodeOpener = (*fileNode)(nil)

func (f *fileNode) Getattr(ctx context.Context, fh gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	setAttr(&out.Attr, f.entry)
	return 0
}

func (f *fileNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_APPEND|syscall.O_TRUNC) != 0 {
		return nil, 0, syscall.EROFS
	}
	if !f.entry.HasBlock() {
		return &emptyHandle{}, fuse.FOPEN_KEEP_CACHE, 0
	}

	h, err := f.options.Session.OpenRead(f.entry.Path)
	if err != nil {
		f.options.Logger.Warn("open failed", "path", f.entry.Path, "error", err)
		return nil, 0, toErrno(err)
	}
	return &fileHandle{handle: h, logger: f.options.Logger}, fuse.FOPEN_KEEP_CACHE, 0
}

// fileHandle serves kernel reads from an archive handle. The kernel
// may issue reads concurrently on one open file.
type fileHandle struct {
	mu     sync.Mutex
	handle *archive.Handle
	logger *slog.Logger
}

var _ gofuse.FileReader = (*fileHandle)(nil)
var _ gofuse.FileReleaser = (*fileHandle)(nil)

func (fh *fileHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	n, err := fh.handle.ReadAt(dest, off)
	if err != nil && !errors.Is(err, io.EOF) {
		fh.logger.Error("read failed", "path", fh.handle.Name(), "offset", off, "error", err)
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(dest[:n]), 0
}

func (fh *fileHandle) Release(ctx context.Context) syscall.Errno {
	fh.mu.Lock()
	defer fh.mu.Unlock()
	return toErrno(fh.handle.Close())
}

// emptyHandle serves members without stored data.
type emptyHandle struct{}

var _ gofuse.FileReader = (*emptyHandle)(nil)

func (emptyHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return fuse.ReadResultData(nil), 0
}
