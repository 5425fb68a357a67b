package encoding_test

import (
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 6 from the write-path contract: PLAIN int32 body bytes.
func TestPlainEncoderInt32Scenario(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.Int32, 0)
	require.NoError(t, enc.WriteValue(int32(1)))
	require.NoError(t, enc.WriteValue(int32(2)))
	require.NoError(t, enc.WriteValue(int32(3)))

	out := enc.Finish()
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00}, out)
}

func TestPlainEncoderBool(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.Bool, 0)
	bits := []bool{true, false, true, true, false, false, false, true, true}
	for _, b := range bits {
		require.NoError(t, enc.WriteValue(b))
	}
	out := enc.Finish()
	require.Len(t, out, 2)
	assert.Equal(t, byte(0x8D), out[0]) // 1 0 0 0 1 1 0 1 (bit7..bit0)
	assert.Equal(t, byte(0x01), out[1])
}

func TestPlainEncoderBinary(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.Binary, 0)
	require.NoError(t, enc.WriteValue([]byte("hi")))
	out := enc.Finish()
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 'h', 'i'}, out)
}

func TestPlainEncoderFixedLenByteArray(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.FixedLenByteArray, 4)
	require.NoError(t, enc.WriteValue([]byte{1, 2, 3, 4}))
	out := enc.Finish()
	assert.Equal(t, []byte{1, 2, 3, 4}, out)

	err := enc.WriteValue([]byte{1, 2})
	require.Error(t, err)
}

func TestPlainEncoderInt96(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.Int96, 0)
	var v [12]byte
	for i := range v {
		v[i] = byte(i)
	}
	require.NoError(t, enc.WriteValue(v))
	out := enc.Finish()
	assert.Equal(t, v[:], out)
}

func TestPlainEncoderTypeMismatch(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.Int32, 0)
	err := enc.WriteValue("not an int32")
	require.Error(t, err)
}

func TestPlainEncoderDoubleAndFloat(t *testing.T) {
	enc := encoding.NewPlainEncoder(schema.Double, 0)
	require.NoError(t, enc.WriteValue(1.5))
	out := enc.Finish()
	require.Len(t, out, 8)

	fenc := encoding.NewPlainEncoder(schema.Float, 0)
	require.NoError(t, fenc.WriteValue(float32(1.5)))
	fout := fenc.Finish()
	require.Len(t, fout, 4)
}
