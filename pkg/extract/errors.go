// pkg/extract/errors.go
package extract

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input archive path is required")

	// ErrFileExists is returned when output file exists and overwrite is false
	ErrFileExists = errors.New("file exists (use --overwrite to replace)")

	// ErrUnsafePath is returned for entries that would land outside the output directory
	ErrUnsafePath = errors.New("entry path escapes output directory")
)
