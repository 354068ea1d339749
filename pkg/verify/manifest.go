// pkg/verify/manifest.go
package verify

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Manifest maps archive paths to hex BLAKE3 digests.
type Manifest map[string]string

// ReadManifest parses b3sum output: "<64 hex chars>  <path>" per line.
// Blank lines and lines starting with '#' are ignored.
func ReadManifest(r io.Reader) (Manifest, error) {
	m := make(Manifest)
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		digest, path, ok := strings.Cut(text, " ")
		path = strings.TrimLeft(path, " *")
		if !ok || path == "" || len(digest) != 64 {
			return nil, fmt.Errorf("%w %d: %q", ErrInvalidManifest, line, text)
		}
		if _, err := hex.DecodeString(digest); err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrInvalidManifest, line, err)
		}
		m[strings.TrimPrefix(path, "./")] = strings.ToLower(digest)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return ReadManifest(f)
}
