// pkg/decoder/zip.go
package decoder

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/creativeyann17/solidfs/internal/format"
	"github.com/creativeyann17/solidfs/pkg/archive"
)

// Zip decodes zip archives. Zip compresses each file on its own, so every
// non-empty file is a block of its own.
type Zip struct{}

func (Zip) Name() string        { return "zip" }
func (Zip) Description() string { return "ZIP archive (one block per file)" }
func (Zip) SignatureSize() int  { return 4 }

func (Zip) ValidateSignature(sig []byte) bool {
	return format.IsZIP(sig)
}

func (Zip) OpenDatabase(stream archive.Stream) (archive.Database, error) {
	r, err := zip.NewReader(stream, stream.Size())
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}

	db := &zipDB{reader: r, members: make([]archive.Member, len(r.File))}
	for i, f := range r.File {
		m := archive.Member{
			Path:    f.Name,
			Size:    f.UncompressedSize64,
			IsDir:   f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"),
			Block:   archive.NoBlock,
			ModTime: f.Modified,
		}
		if m.Size > math.MaxInt {
			return nil, fmt.Errorf("zip: %w: %s declares %d bytes", archive.ErrCorrupt, f.Name, m.Size)
		}
		if !m.IsDir && m.Size > 0 {
			m.Block = archive.BlockID(len(db.blocks))
			db.blocks = append(db.blocks, i)
		}
		db.members[i] = m
	}
	return db, nil
}

type zipDB struct {
	reader  *zip.Reader
	members []archive.Member
	blocks  []int // member index per block
}

func (db *zipDB) Members() []archive.Member { return db.members }
func (db *zipDB) BlockCount() int           { return len(db.blocks) }
func (db *zipDB) Close() error              { return nil }

func (db *zipDB) BlockSize(id archive.BlockID) (uint64, error) {
	return db.reader.File[db.blocks[id]].UncompressedSize64, nil
}

func (db *zipDB) DecompressBlock(id archive.BlockID) (*archive.BlockData, error) {
	member := db.blocks[id]
	f := db.reader.File[member]
	size := f.UncompressedSize64

	rc, err := f.Open()
	if err != nil {
		if errors.Is(err, zip.ErrAlgorithm) {
			return nil, fmt.Errorf("%w: %s: %w", archive.ErrUnsupported, f.Name, err)
		}
		return nil, fmt.Errorf("zip: %w", err)
	}
	buf := newBlockBuffer(size)
	if err := readMember(f.Name, rc, size, buf); err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	return &archive.BlockData{
		Data:    buf.Bytes(),
		Extents: map[int]archive.Extent{member: {Offset: 0, Size: size}},
	}, nil
}
