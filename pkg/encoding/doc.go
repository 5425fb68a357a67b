// Package encoding implements the compact codecs a column chunk's values
// and repetition/definition levels are stored in: unsigned VARINT,
// fixed-width bit-packing, the RLE/bit-packed hybrid built on top of it,
// PLAIN, and dictionary encoding. Nothing here knows about pages, column
// chunks, or files; pkg/parquet composes these primitives.
package encoding
