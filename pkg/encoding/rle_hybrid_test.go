package encoding_test

import (
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 3 from the write-path contract.
func TestRleHybridRLERunScenario(t *testing.T) {
	enc := encoding.NewRleHybridEncoder(3)
	for i := 0; i < 10; i++ {
		require.NoError(t, enc.Write(5))
	}
	out, err := enc.Finish()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x14, 0x05}, out)

	back, err := encoding.DecodeRleHybrid(out, 3, 10)
	require.NoError(t, err)
	for _, v := range back {
		assert.Equal(t, uint32(5), v)
	}
}

// Scenario 4 from the write-path contract, run through the hybrid encoder
// with a stream too short to trigger an RLE run.
func TestRleHybridBitPackedRunScenario(t *testing.T) {
	enc := encoding.NewRleHybridEncoder(3)
	values := []uint32{0, 1, 2, 3, 4, 5, 6, 7}
	for _, v := range values {
		require.NoError(t, enc.Write(v))
	}
	out, err := enc.Finish()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x88, 0xC6, 0xFA}, out)

	back, err := encoding.DecodeRleHybrid(out, 3, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, back)
}

func TestRleHybridInverseMixed(t *testing.T) {
	width := 4
	var values []uint32
	for i := 0; i < 12; i++ {
		values = append(values, 3) // long run
	}
	for i := 0; i < 5; i++ {
		values = append(values, uint32(i)) // too short for RLE
	}
	for i := 0; i < 9; i++ {
		values = append(values, 7) // another long run
	}

	enc := encoding.NewRleHybridEncoder(width)
	for _, v := range values {
		require.NoError(t, enc.Write(v))
	}
	out, err := enc.Finish()
	require.NoError(t, err)

	back, err := encoding.DecodeRleHybrid(out, width, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, back)
}

func TestRleHybridWidthZero(t *testing.T) {
	enc := encoding.NewRleHybridEncoder(0)
	require.NoError(t, enc.Write(0))
	out, err := enc.Finish()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRleHybridRejectsOverflow(t *testing.T) {
	enc := encoding.NewRleHybridEncoder(2)
	err := enc.Write(4)
	require.Error(t, err)
}

func TestDecodeRleHybridTruncated(t *testing.T) {
	_, err := encoding.DecodeRleHybrid([]byte{0x14}, 3, 10)
	require.Error(t, err)
}
