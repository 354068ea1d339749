// pkg/decoder/sevenzip.go
package decoder

import (
	"errors"
	"fmt"

	"github.com/bodgit/sevenzip"

	"github.com/creativeyann17/solidfs/internal/format"
	"github.com/creativeyann17/solidfs/pkg/archive"
)

// SevenZip decodes 7z archives. Each 7z folder is one block; a solid
// folder holds many files back to back.
type SevenZip struct{}

func (SevenZip) Name() string        { return "7z" }
func (SevenZip) Description() string { return "7-Zip archive (solid folders)" }
func (SevenZip) SignatureSize() int  { return len(format.Magic7z) }

func (SevenZip) ValidateSignature(sig []byte) bool {
	return format.Is7z(sig)
}

func (SevenZip) OpenDatabase(stream archive.Stream) (archive.Database, error) {
	r, err := sevenzip.NewReader(stream, stream.Size())
	if err != nil {
		return nil, translate7z(err)
	}

	db := &sevenZipDB{
		reader:  r,
		members: make([]archive.Member, len(r.File)),
	}
	for i, f := range r.File {
		m := archive.Member{
			Path:    f.Name,
			Size:    f.UncompressedSize,
			IsDir:   f.FileInfo().IsDir(),
			Block:   archive.NoBlock,
			ModTime: f.Modified,
		}
		// Empty files and directories have no stream.
		if !m.IsDir && m.Size > 0 {
			m.Block = archive.BlockID(f.Stream)
			for len(db.folders) <= f.Stream {
				db.folders = append(db.folders, nil)
			}
			db.folders[f.Stream] = append(db.folders[f.Stream], i)
		}
		db.members[i] = m
	}

	db.sizes = make([]uint64, len(db.folders))
	for id, files := range db.folders {
		for _, i := range files {
			total, err := addSize(db.sizes[id], db.members[i].Size)
			if err != nil {
				return nil, fmt.Errorf("sevenzip: folder %d: %w", id, err)
			}
			db.sizes[id] = total
		}
	}
	return db, nil
}

type sevenZipDB struct {
	reader  *sevenzip.Reader
	members []archive.Member
	folders [][]int  // member indexes per folder, in folder order
	sizes   []uint64 // declared bytes per folder
}

func (db *sevenZipDB) Members() []archive.Member { return db.members }
func (db *sevenZipDB) BlockCount() int           { return len(db.folders) }
func (db *sevenZipDB) Close() error              { return nil }

func (db *sevenZipDB) BlockSize(id archive.BlockID) (uint64, error) {
	return db.sizes[id], nil
}

// DecompressBlock unpacks a whole folder. Opening the folder's files in
// order lets the reader continue one folder stream instead of restarting it.
func (db *sevenZipDB) DecompressBlock(id archive.BlockID) (*archive.BlockData, error) {
	files := db.folders[id]

	buf := newBlockBuffer(db.sizes[id])
	extents := make(map[int]archive.Extent, len(files))

	for _, i := range files {
		f := db.reader.File[i]
		size := f.UncompressedSize
		rc, err := f.Open()
		if err != nil {
			return nil, translate7z(err)
		}
		off := uint64(buf.Len())
		if err := readMember(f.Name, rc, size, buf); err != nil {
			return nil, translate7z(err)
		}
		extents[i] = archive.Extent{Offset: off, Size: size}
	}
	return &archive.BlockData{Data: buf.Bytes(), Extents: extents}, nil
}

func translate7z(err error) error {
	var readErr *sevenzip.ReadError
	if errors.As(err, &readErr) && readErr.Encrypted {
		return fmt.Errorf("%w: encrypted 7z: %w", archive.ErrUnsupported, err)
	}
	return fmt.Errorf("sevenzip: %w", err)
}
