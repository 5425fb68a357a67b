package parquet

import (
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageHeaderDataRoundTrip(t *testing.T) {
	h := pageHeader{
		pageType:                DataPage,
		uncompressedSize:        1234,
		compressedSize:          987,
		numValues:               42,
		valuesEncoding:          encoding.EncodingPlain,
		definitionLevelEncoding: encoding.EncodingRLE,
		repetitionLevelEncoding: encoding.EncodingRLE,
	}
	buf := h.encode()

	back, n, err := decodePageHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, h, back)
}

func TestPageHeaderDictionaryRoundTrip(t *testing.T) {
	h := pageHeader{
		pageType:         DictionaryPage,
		uncompressedSize: 500,
		compressedSize:   500,
		numValues:        10,
		dictEncoding:     encoding.EncodingPlain,
		isSorted:         false,
	}
	buf := h.encode()

	back, n, err := decodePageHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, h, back)
}

func TestDecodePageHeaderTruncated(t *testing.T) {
	_, _, err := decodePageHeader(nil)
	require.Error(t, err)
}
