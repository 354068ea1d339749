// pkg/decoder/decoder.go
package decoder

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

// All returns every built-in decoder in probe order.
func All() []archive.Decoder {
	return []archive.Decoder{
		SevenZip{},
		Zip{},
		TarXZ(),
		TarZstd(),
		TarLZ4(),
		TarGzip(),
	}
}

// NewRegistry returns a registry holding every built-in decoder.
func NewRegistry() *archive.Registry {
	return archive.NewRegistry(All()...)
}

// maxPrealloc caps the buffer reserved from a header's declared size.
// Larger blocks grow as real data arrives.
const maxPrealloc = 64 << 20

func newBlockBuffer(declared uint64) *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, min(declared, maxPrealloc)))
}

// addSize sums declared sizes, rejecting totals no slice can hold.
func addSize(total, n uint64) (uint64, error) {
	sum, carry := bits.Add64(total, n, 0)
	if carry != 0 || sum > math.MaxInt {
		return 0, fmt.Errorf("%w: declared size overflows", archive.ErrCorrupt)
	}
	return sum, nil
}

// readMember appends exactly size bytes of a member to buf and closes the
// reader. The trailing read reaches EOF so checksumming readers get to
// verify the member.
func readMember(name string, rc io.ReadCloser, size uint64, buf *bytes.Buffer) error {
	defer rc.Close()

	if size > math.MaxInt64 {
		return fmt.Errorf("%w: %s: declared size %d", archive.ErrCorrupt, name, size)
	}
	n, err := io.Copy(buf, io.LimitReader(rc, int64(size)))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if uint64(n) != size {
		return fmt.Errorf("%w: %s: %d of %d bytes", archive.ErrCorrupt, name, n, size)
	}
	var extra [1]byte
	switch _, err := io.ReadFull(rc, extra[:]); {
	case err == nil:
		return fmt.Errorf("%w: %s: longer than %d bytes", archive.ErrCorrupt, name, size)
	case err != io.EOF:
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
