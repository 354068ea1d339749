// internal/format/detect.go
package format

import "bytes"

// ArchiveFormat represents the detected container format
type ArchiveFormat int

const (
	FormatUnknown ArchiveFormat = iota
	Format7z
	FormatZIP
	FormatXZ
	FormatZstd
	FormatLZ4
	FormatGzip
)

// MagicSize is the number of leading bytes DetectFormat inspects
const MagicSize = 6

var (
	// Magic7z starts every 7z archive
	Magic7z = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}

	// MagicXZ starts every xz stream
	MagicXZ = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

	// MagicZstd is the zstd frame magic (little-endian 0xFD2FB528)
	MagicZstd = []byte{0x28, 0xB5, 0x2F, 0xFD}

	// MagicLZ4 is the lz4 frame magic (little-endian 0x184D2204)
	MagicLZ4 = []byte{0x04, 0x22, 0x4D, 0x18}

	// MagicGzip starts every gzip member
	MagicGzip = []byte{0x1F, 0x8B}

	// MagicZIP is the local file header signature
	MagicZIP = []byte{'P', 'K', 0x03, 0x04}

	// MagicZIPEmpty is the end of central directory signature, first in empty archives
	MagicZIPEmpty = []byte{'P', 'K', 0x05, 0x06}
)

// String returns the string representation of the format
func (f ArchiveFormat) String() string {
	switch f {
	case Format7z:
		return "7Z"
	case FormatZIP:
		return "ZIP"
	case FormatXZ:
		return "XZ"
	case FormatZstd:
		return "ZSTD"
	case FormatLZ4:
		return "LZ4"
	case FormatGzip:
		return "GZIP"
	default:
		return "UNKNOWN"
	}
}

// DetectFormat detects the container format from magic bytes
func DetectFormat(magic []byte) ArchiveFormat {
	switch {
	case Is7z(magic):
		return Format7z
	case IsXZ(magic):
		return FormatXZ
	case IsZIP(magic):
		return FormatZIP
	case bytes.HasPrefix(magic, MagicZstd):
		return FormatZstd
	case bytes.HasPrefix(magic, MagicLZ4):
		return FormatLZ4
	case bytes.HasPrefix(magic, MagicGzip):
		return FormatGzip
	default:
		return FormatUnknown
	}
}

// Is7z returns true if the magic bytes indicate a 7z archive
func Is7z(magic []byte) bool {
	return bytes.HasPrefix(magic, Magic7z)
}

// IsZIP returns true if the magic bytes indicate a ZIP file
func IsZIP(magic []byte) bool {
	return bytes.HasPrefix(magic, MagicZIP) || bytes.HasPrefix(magic, MagicZIPEmpty)
}

// IsXZ returns true if the magic bytes indicate an XZ file
func IsXZ(magic []byte) bool {
	return bytes.HasPrefix(magic, MagicXZ)
}
