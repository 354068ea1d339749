// pkg/verify/errors.go
package verify

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrCorruptData is returned when a member cannot be read back
	ErrCorruptData = errors.New("data corruption detected")

	// ErrDigestMismatch is returned when a member digest differs from the manifest
	ErrDigestMismatch = errors.New("digest does not match manifest")

	// ErrMissingFile is returned when a manifest path is absent from the archive
	ErrMissingFile = errors.New("file listed in manifest not found in archive")

	// ErrInvalidManifest is returned for unparsable manifest lines
	ErrInvalidManifest = errors.New("invalid manifest line")
)
