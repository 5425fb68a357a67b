// Package parquetcore implements the write path of a columnar file format:
// record shredding into per-column value/repetition/definition streams,
// run-length/bit-packed and dictionary encoding of those streams, page and
// row-group assembly, and a self-describing footer, written to any
// PositionedByteSink.
//
// # Layout
//
//   - pkg/schema:      the immutable schema tree and derived leaf descriptors
//   - pkg/encoding:    BitPacker, VARINT, the RLE/bit-packed hybrid, PLAIN,
//     dictionary and level encoders
//   - pkg/compression: the Compressor interface and concrete NONE/SNAPPY/
//     GZIP/ZSTD/S2/LZO-substitute implementations
//   - pkg/parquet:     RecordShredder, ColumnStore, ColumnValueBuffer,
//     PageWriter, FileWriter and the metadata footer codec
//   - pkg/writercfg:   Config loading (YAML, env substitution)
//   - pkg/schemadef:   JSON/YAML schema description parsing into pkg/schema
//   - pkg/logger, pkg/metrics, pkg/pool, pkg/errors, pkg/strings: ambient
//     infrastructure
//   - cmd/parquetwrite: a CLI that drives the writer end to end
//
// The read path is out of scope; footer and page-header formats are shaped
// so that a compatible reader could reconstruct the file, but no reader is
// implemented here.
package parquetcore
