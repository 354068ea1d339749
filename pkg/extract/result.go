// pkg/extract/result.go
package extract

// Result contains statistics about the extraction
type Result struct {
	// Total number of selected files
	FilesTotal int

	// Number of files successfully written
	FilesProcessed int

	// Number of directories created
	DirsCreated int

	// Bytes written to disk
	BytesWritten uint64

	// Blocks decompressed while extracting
	BlocksDecoded int

	// Entries skipped by include/exclude patterns
	Skipped int

	// List of errors encountered (non-fatal)
	Errors []error
}

// Success returns true if all files were processed without errors
func (r *Result) Success() bool {
	return len(r.Errors) == 0 && r.FilesProcessed == r.FilesTotal
}

// GetFilesTotal returns total files (interface method)
func (r *Result) GetFilesTotal() int {
	return r.FilesTotal
}

// GetFilesProcessed returns processed files (interface method)
func (r *Result) GetFilesProcessed() int {
	return r.FilesProcessed
}

// GetErrors returns the error list (interface method)
func (r *Result) GetErrors() []error {
	return r.Errors
}

// GetBytes returns bytes written (interface method)
func (r *Result) GetBytes() uint64 {
	return r.BytesWritten
}

// GetBlocksDecoded returns decoded blocks (interface method)
func (r *Result) GetBlocksDecoded() int {
	return r.BlocksDecoded
}
