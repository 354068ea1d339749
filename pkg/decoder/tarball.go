// pkg/decoder/tarball.go
package decoder

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/creativeyann17/solidfs/internal/format"
	"github.com/creativeyann17/solidfs/pkg/archive"
)

// Tarball decodes a tar stream wrapped in a single compression stream.
// The whole archive is one solid block: its data is the concatenation of
// every regular file in tar order.
type Tarball struct {
	name        string
	description string
	magic       []byte
	open        func(io.Reader) (io.ReadCloser, error)
}

// TarXZ decodes .tar.xz archives.
func TarXZ() *Tarball {
	return &Tarball{
		name:        "tar.xz",
		description: "tar archive compressed with xz",
		magic:       format.MagicXZ,
		open: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
	}
}

// TarZstd decodes .tar.zst archives.
func TarZstd() *Tarball {
	return &Tarball{
		name:        "tar.zst",
		description: "tar archive compressed with zstd",
		magic:       format.MagicZstd,
		open: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
	}
}

// TarLZ4 decodes .tar.lz4 archives.
func TarLZ4() *Tarball {
	return &Tarball{
		name:        "tar.lz4",
		description: "tar archive compressed with lz4 frames",
		magic:       format.MagicLZ4,
		open: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
	}
}

// TarGzip decodes .tar.gz archives.
func TarGzip() *Tarball {
	return &Tarball{
		name:        "tar.gz",
		description: "tar archive compressed with gzip",
		magic:       format.MagicGzip,
		open: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}
}

func (t *Tarball) Name() string        { return t.name }
func (t *Tarball) Description() string { return t.description }
func (t *Tarball) SignatureSize() int  { return len(t.magic) }

func (t *Tarball) ValidateSignature(sig []byte) bool {
	return bytes.HasPrefix(sig, t.magic)
}

// OpenDatabase walks the whole stream once to list members. A stream
// whose first header is not tar is declined.
func (t *Tarball) OpenDatabase(stream archive.Stream) (archive.Database, error) {
	db := &tarDB{tarball: t, stream: stream}
	first := true
	err := t.walk(stream, func(seq int, hdr *tar.Header, _ io.Reader) error {
		first = false
		m := archive.Member{
			Path:    hdr.Name,
			ModTime: hdr.ModTime,
			Block:   archive.NoBlock,
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			m.IsDir = true
		case tar.TypeReg:
			m.Size = uint64(hdr.Size)
			if m.Size > 0 {
				m.Block = 0
				total, err := addSize(db.blockSize, m.Size)
				if err != nil {
					return fmt.Errorf("%s: %s: %w", t.name, hdr.Name, err)
				}
				db.blockMembers = append(db.blockMembers, tarMember{seq: seq, member: len(db.members)})
				db.blockSize = total
			}
		default:
			return nil
		}
		db.members = append(db.members, m)
		return nil
	})
	if err != nil {
		if first && !errors.Is(err, archive.ErrIO) {
			return nil, archive.ErrNotThisFormat
		}
		return nil, err
	}
	return db, nil
}

// walk decompresses the stream and calls fn for each tar header with
// its ordinal.
func (t *Tarball) walk(stream archive.Stream, fn func(seq int, hdr *tar.Header, body io.Reader) error) error {
	rc, err := t.open(io.NewSectionReader(stream, 0, stream.Size()))
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	defer rc.Close()

	tr := tar.NewReader(rc)
	for seq := 0; ; seq++ {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
		if err := fn(seq, hdr, tr); err != nil {
			return err
		}
	}
}

type tarMember struct {
	seq    int // tar header ordinal
	member int // index into members
}

type tarDB struct {
	tarball      *Tarball
	stream       archive.Stream
	members      []archive.Member
	blockMembers []tarMember
	blockSize    uint64
}

func (db *tarDB) Members() []archive.Member { return db.members }
func (db *tarDB) Close() error              { return nil }

func (db *tarDB) BlockCount() int {
	if len(db.blockMembers) == 0 {
		return 0
	}
	return 1
}

func (db *tarDB) BlockSize(id archive.BlockID) (uint64, error) {
	if id != 0 {
		return 0, fmt.Errorf("%w: tar has a single block, got %d", archive.ErrCorrupt, id)
	}
	return db.blockSize, nil
}

func (db *tarDB) DecompressBlock(id archive.BlockID) (*archive.BlockData, error) {
	if id != 0 {
		return nil, fmt.Errorf("%w: tar has a single block, got %d", archive.ErrCorrupt, id)
	}
	buf := newBlockBuffer(db.blockSize)
	extents := make(map[int]archive.Extent, len(db.blockMembers))

	next := 0
	err := db.tarball.walk(db.stream, func(seq int, hdr *tar.Header, body io.Reader) error {
		if next >= len(db.blockMembers) || db.blockMembers[next].seq != seq {
			return nil
		}
		member := db.blockMembers[next].member
		size := db.members[member].Size
		if uint64(hdr.Size) != size {
			return fmt.Errorf("%w: %s changed size", archive.ErrCorrupt, hdr.Name)
		}
		off := uint64(buf.Len())
		if err := readMember(hdr.Name, io.NopCloser(body), size, buf); err != nil {
			return err
		}
		extents[member] = archive.Extent{Offset: off, Size: size}
		next++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if next != len(db.blockMembers) {
		return nil, fmt.Errorf("%w: %s stream ended after %d of %d files",
			archive.ErrCorrupt, db.tarball.name, next, len(db.blockMembers))
	}
	return &archive.BlockData{Data: buf.Bytes(), Extents: extents}, nil
}
