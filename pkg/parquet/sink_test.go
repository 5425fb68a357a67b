package parquet_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/parquet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkTracksPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	sink, err := parquet.CreateFileSink(path)
	require.NoError(t, err)

	n, err := sink.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), sink.Position())

	_, err = sink.Write([]byte("!!"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), sink.Position())

	require.NoError(t, sink.Close())

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello!!", string(body))
}

func TestCountingSinkTracksPosition(t *testing.T) {
	var buf bytes.Buffer
	sink := parquet.NewCountingSink(&buf)

	_, err := sink.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sink.Position())

	_, err = sink.Write([]byte{4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), sink.Position())
	assert.Equal(t, []byte{1, 2, 3, 4}, buf.Bytes())
}
