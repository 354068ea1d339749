// pkg/verify/result.go
package verify

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Result contains comprehensive verification results
type Result struct {
	// Archive metadata
	Format      string // Decoder name (7z, zip, tar.xz, ...)
	ArchivePath string // Path to the verified archive
	ArchiveSize uint64 // Total archive file size in bytes

	// Index statistics
	FileCount  int    // Number of regular files
	DirCount   int    // Number of directories, explicit or implied
	EmptyFiles int    // Files without stored data
	BlockCount int    // Compression blocks
	TotalSize  uint64 // Sum of file sizes

	// Data integrity (only populated when VerifyData=true)
	DataVerified   bool   // Whether data verification was performed
	FilesVerified  int    // Files read back successfully
	BlocksDecoded  int    // Blocks decompressed during verification
	BytesVerified  uint64 // Member bytes read back and hashed
	CorruptFiles   int    // Files that failed to read
	Mismatched     int    // Files whose digest differs from the manifest
	MissingFiles   int    // Manifest paths absent from the archive
	ManifestLoaded bool   // Whether a manifest was compared

	// File details (populated during data verification)
	Files []FileInfo

	// Errors encountered during verification
	Errors []error
}

// FileInfo contains information about a single file in the archive
type FileInfo struct {
	Path   string // Path in archive
	Size   uint64 // Uncompressed size
	Block  uint32 // Compression block
	Digest string // Hex BLAKE3-256 digest (when VerifyData=true)
	Error  error  // Error if verification failed for this file
}

// IsValid returns true if the archive passed all validation checks
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0 && r.CorruptFiles == 0 && r.Mismatched == 0 && r.MissingFiles == 0
}

// Success returns true if verification completed without critical errors
func (r *Result) Success() bool {
	return r.IsValid()
}

// GetFilesTotal returns total files (interface method)
func (r *Result) GetFilesTotal() int { return r.FileCount }

// GetFilesProcessed returns verified files (interface method)
func (r *Result) GetFilesProcessed() int { return r.FilesVerified }

// GetErrors returns the error list (interface method)
func (r *Result) GetErrors() []error { return r.Errors }

// GetBytes returns the total file size (interface method)
func (r *Result) GetBytes() uint64 { return r.TotalSize }

// GetBlocksDecoded returns decoded blocks (interface method)
func (r *Result) GetBlocksDecoded() int { return r.BlocksDecoded }

// Summary returns a human-readable summary of the verification result
func (r *Result) Summary() string {
	status := "VALID"
	if !r.IsValid() {
		status = "INVALID"
	}

	s := fmt.Sprintf("Archive: %s [%s]\n", r.ArchivePath, status)
	s += fmt.Sprintf("Format:  %s\n", r.Format)
	s += fmt.Sprintf("Size:    %s\n", humanize.IBytes(r.ArchiveSize))
	s += fmt.Sprintf("Files:   %d (%d empty)\n", r.FileCount, r.EmptyFiles)
	s += fmt.Sprintf("Dirs:    %d\n", r.DirCount)
	s += fmt.Sprintf("Blocks:  %d\n", r.BlockCount)
	s += fmt.Sprintf("Content: %s\n", humanize.IBytes(r.TotalSize))

	if r.DataVerified {
		s += "\nData Integrity:\n"
		s += fmt.Sprintf("  Files Verified:  %d/%d\n", r.FilesVerified, r.FileCount)
		s += fmt.Sprintf("  Blocks Decoded:  %d\n", r.BlocksDecoded)
		s += fmt.Sprintf("  Bytes Verified:  %s\n", humanize.IBytes(r.BytesVerified))
		if r.CorruptFiles > 0 {
			s += fmt.Sprintf("  Corrupt Files:   %d\n", r.CorruptFiles)
		}
		if r.ManifestLoaded {
			s += fmt.Sprintf("  Mismatched:      %d\n", r.Mismatched)
			s += fmt.Sprintf("  Missing:         %d\n", r.MissingFiles)
		}
	}

	if len(r.Errors) > 0 {
		s += fmt.Sprintf("\nErrors (%d):\n", len(r.Errors))
		for i, err := range r.Errors {
			if i >= 10 {
				s += fmt.Sprintf("  ... and %d more errors\n", len(r.Errors)-10)
				break
			}
			s += fmt.Sprintf("  - %v\n", err)
		}
	}

	return s
}
