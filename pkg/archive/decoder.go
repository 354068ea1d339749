// pkg/archive/decoder.go
package archive

// Decoder understands one archive container format. It owns all
// format-specific parsing and decompression; the Session only sees
// members, blocks and extents.
type Decoder interface {
	// Name is the short format name, e.g. "7z".
	Name() string

	// Description is a human-readable summary of the format.
	Description() string

	// SignatureSize is the number of leading bytes ValidateSignature needs.
	SignatureSize() int

	// ValidateSignature reports whether sig starts a stream of this format.
	ValidateSignature(sig []byte) bool

	// OpenDatabase parses the member list. Returning ErrNotThisFormat
	// releases the stream back to the caller.
	OpenDatabase(stream Stream) (Database, error)
}

// Database is the parsed header of one archive.
type Database interface {
	// Members lists every archive member in decoder order. Member
	// indexes are the keys of BlockData.Extents.
	Members() []Member

	// BlockCount is the number of compression blocks.
	BlockCount() int

	// BlockSize is the decompressed size the header declares for a
	// block. The session reserves it against the memory budget before
	// decoding, and the decoded block must match it.
	BlockSize(id BlockID) (uint64, error)

	// DecompressBlock decodes a whole block. Partial decoding is never
	// requested.
	DecompressBlock(id BlockID) (*BlockData, error)

	Close() error
}

// Extent locates a member's bytes inside a decompressed block.
type Extent struct {
	Offset uint64
	Size   uint64
}

// BlockData is one fully decompressed block.
type BlockData struct {
	Data    []byte
	Extents map[int]Extent // keyed by member index
}
