// pkg/decoder/size_test.go
package decoder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

func TestAddSize(t *testing.T) {
	total, err := addSize(10, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), total)

	_, err = addSize(math.MaxUint64, 1)
	assert.ErrorIs(t, err, archive.ErrCorrupt)

	_, err = addSize(math.MaxInt, 1)
	assert.ErrorIs(t, err, archive.ErrCorrupt)
}

func TestNewBlockBufferCapsPreallocation(t *testing.T) {
	assert.Equal(t, 12, newBlockBuffer(12).Cap())
	assert.Equal(t, maxPrealloc, newBlockBuffer(1<<50).Cap())
}
