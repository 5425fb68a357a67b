package encoding_test

import (
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsNeeded(t *testing.T) {
	assert.Equal(t, 0, encoding.BitsNeeded(0))
	assert.Equal(t, 1, encoding.BitsNeeded(1))
	assert.Equal(t, 3, encoding.BitsNeeded(7))
	assert.Equal(t, 4, encoding.BitsNeeded(8))
	assert.Equal(t, 32, encoding.BitsNeeded(0xFFFFFFFF))
}

func TestPaddedByteCount(t *testing.T) {
	assert.Equal(t, 0, encoding.PaddedByteCount(0))
	assert.Equal(t, 1, encoding.PaddedByteCount(1))
	assert.Equal(t, 1, encoding.PaddedByteCount(8))
	assert.Equal(t, 2, encoding.PaddedByteCount(9))
}

func TestPackWidthZeroProducesNoBytes(t *testing.T) {
	out, err := encoding.Pack([]uint32{0, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

// Scenario 4 from the write-path contract.
func TestPackBitPackedRunScenario(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 4, 5, 6, 7}
	out, err := encoding.Pack(values, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x88, 0xC6, 0xFA}, out)

	back, err := encoding.Unpack(out, 3, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, back)
}

func TestPackUnpackInverse(t *testing.T) {
	for w := 0; w <= 32; w++ {
		var values []uint32
		var max uint64 = 1
		if w > 0 {
			max = 1 << uint(w)
		}
		for i := uint64(0); i < 20 && i < max; i++ {
			values = append(values, uint32(i%max))
		}
		if len(values) == 0 {
			continue
		}
		packed, err := encoding.Pack(values, w)
		require.NoError(t, err)
		back, err := encoding.Unpack(packed, w, len(values))
		require.NoError(t, err)
		assert.Equal(t, values, back, "width %d", w)
	}
}

func TestPackRejectsValueExceedingWidth(t *testing.T) {
	_, err := encoding.Pack([]uint32{8}, 3)
	require.Error(t, err)
}
