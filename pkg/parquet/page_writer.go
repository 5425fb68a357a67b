package parquet

import (
	"github.com/dataflowlabs/parquetcore/pkg/compression"
	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// PageWriter compresses and frames pages for one column chunk, per §4.8.
// It is reset at the start of every chunk and accumulates the running
// totals a ColumnChunkMetaData entry needs at endColumn.
type PageWriter struct {
	compressor compression.Compressor

	totalUncompressed int64
	totalCompressed   int64
	encodingsUsed     map[encoding.Encoding]struct{}
}

// NewPageWriter creates a page writer using compressor for every page it
// frames until Reset is called for the next chunk.
func NewPageWriter(compressor compression.Compressor) *PageWriter {
	pw := &PageWriter{compressor: compressor}
	pw.Reset()
	return pw
}

// Reset clears per-chunk totals and encoding set, starting a fresh chunk.
func (pw *PageWriter) Reset() {
	pw.totalUncompressed = 0
	pw.totalCompressed = 0
	pw.encodingsUsed = make(map[encoding.Encoding]struct{})
}

// WriteDataPage compresses payload and frames it behind a DATA_PAGE
// header, returning header-bytes ++ compressed-payload ready to append to
// the sink. Both level encodings are always RLE, matching what
// LevelEncoder produces.
func (pw *PageWriter) WriteDataPage(payload []byte, valueCount int, valuesEncoding encoding.Encoding) ([]byte, error) {
	compressed, err := pw.compressor.Compress(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIOFailure, "compress data page")
	}

	h := pageHeader{
		pageType:                DataPage,
		uncompressedSize:        len(payload),
		compressedSize:          len(compressed),
		numValues:               valueCount,
		valuesEncoding:          valuesEncoding,
		definitionLevelEncoding: encoding.EncodingRLE,
		repetitionLevelEncoding: encoding.EncodingRLE,
	}
	headerBytes := h.encode()

	pw.totalUncompressed += int64(len(headerBytes) + len(payload))
	pw.totalCompressed += int64(len(headerBytes) + len(compressed))
	pw.encodingsUsed[valuesEncoding] = struct{}{}
	pw.encodingsUsed[encoding.EncodingRLE] = struct{}{}

	return append(headerBytes, compressed...), nil
}

// WriteDictionaryPage compresses the dictionary's PLAIN body and frames it
// behind a DICTIONARY_PAGE header.
func (pw *PageWriter) WriteDictionaryPage(payload []byte, numValues int) ([]byte, error) {
	compressed, err := pw.compressor.Compress(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIOFailure, "compress dictionary page")
	}

	h := pageHeader{
		pageType:         DictionaryPage,
		uncompressedSize: len(payload),
		compressedSize:   len(compressed),
		numValues:        numValues,
		dictEncoding:     encoding.EncodingPlain,
		isSorted:         false,
	}
	headerBytes := h.encode()

	pw.totalUncompressed += int64(len(headerBytes) + len(payload))
	pw.totalCompressed += int64(len(headerBytes) + len(compressed))
	pw.encodingsUsed[encoding.EncodingPlain] = struct{}{}

	return append(headerBytes, compressed...), nil
}

// TotalUncompressed returns the sum of header+payload bytes across every
// page written since the last Reset.
func (pw *PageWriter) TotalUncompressed() int64 { return pw.totalUncompressed }

// TotalCompressed returns the sum of header+compressed-payload bytes
// across every page written since the last Reset.
func (pw *PageWriter) TotalCompressed() int64 { return pw.totalCompressed }

// EncodingsUsed returns the distinct value/level encodings seen since the
// last Reset, in no particular order.
func (pw *PageWriter) EncodingsUsed() []encoding.Encoding {
	out := make([]encoding.Encoding, 0, len(pw.encodingsUsed))
	for e := range pw.encodingsUsed {
		out = append(out, e)
	}
	return out
}
