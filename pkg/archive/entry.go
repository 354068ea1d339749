// pkg/archive/entry.go
package archive

import (
	"io/fs"
	"math"
	"path"
	"time"
)

// BlockID identifies a compression block ("folder") within an archive.
type BlockID uint32

// NoBlock marks entries without stored data (directories, empty files).
const NoBlock BlockID = math.MaxUint32

// Member is one record of the member list produced by a Decoder.
type Member struct {
	Path    string
	Size    uint64
	IsDir   bool
	Block   BlockID
	ModTime time.Time // zero when the archive recorded none
}

// Entry is one record of the File Index.
type Entry struct {
	Path    string
	Size    uint64
	IsDir   bool
	Block   BlockID
	ModTime time.Time

	// member is the position in the decoder's member list, -1 for
	// directories synthesized from nested paths.
	member int
}

// Name returns the last path element.
func (e *Entry) Name() string {
	return path.Base(e.Path)
}

// HasBlock reports whether the entry's bytes live in a compression block.
func (e *Entry) HasBlock() bool {
	return !e.IsDir && e.Block != NoBlock
}

// FileInfo returns an fs.FileInfo view of the entry.
func (e *Entry) FileInfo() fs.FileInfo {
	return entryInfo{e}
}

// FileType distinguishes regular files from directories in Stat.
type FileType int

const (
	TypeRegular FileType = iota
	TypeDirectory
)

// String returns the string representation of the type
func (t FileType) String() string {
	if t == TypeDirectory {
		return "directory"
	}
	return "file"
}

// Stat is the metadata reported for a path.
type Stat struct {
	Path     string
	Type     FileType
	Size     uint64
	ModTime  time.Time // zero when absent
	ReadOnly bool
}

// IsDir reports whether the path is a directory
func (s Stat) IsDir() bool { return s.Type == TypeDirectory }

// HasModTime reports whether the archive recorded a modification time
func (s Stat) HasModTime() bool { return !s.ModTime.IsZero() }

func statOf(e *Entry) Stat {
	st := Stat{
		Path:     e.Path,
		Type:     TypeRegular,
		Size:     e.Size,
		ModTime:  e.ModTime,
		ReadOnly: true,
	}
	if e.IsDir {
		st.Type = TypeDirectory
		st.Size = 0
	}
	return st
}

type entryInfo struct{ e *Entry }

func (i entryInfo) Name() string       { return i.e.Name() }
func (i entryInfo) Size() int64        { return int64(i.e.Size) }
func (i entryInfo) ModTime() time.Time { return i.e.ModTime }
func (i entryInfo) IsDir() bool        { return i.e.IsDir }
func (i entryInfo) Sys() any           { return i.e }

func (i entryInfo) Mode() fs.FileMode {
	if i.e.IsDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

// rootInfo describes the archive root, which has no index entry.
type rootInfo struct{ name string }

func (r rootInfo) Name() string       { return r.name }
func (r rootInfo) Size() int64        { return 0 }
func (r rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (r rootInfo) ModTime() time.Time { return time.Time{} }
func (r rootInfo) IsDir() bool        { return true }
func (r rootInfo) Sys() any           { return nil }
