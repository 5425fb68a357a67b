package parquet

import (
	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// PageType tags what a page's payload holds, per §6's common page header.
type PageType byte

const (
	DataPage PageType = iota
	DictionaryPage
)

// pageHeader is the common+variant page header of §6, encoded with the
// same VARINT primitives the metadata codec uses for the footer. Kept as
// an unexported wire type: callers work with the DataPageHeader/
// DictionaryPageHeader constructors below.
type pageHeader struct {
	pageType         PageType
	uncompressedSize int
	compressedSize   int

	// data page fields
	numValues               int
	valuesEncoding          encoding.Encoding
	definitionLevelEncoding encoding.Encoding
	repetitionLevelEncoding encoding.Encoding

	// dictionary page fields
	dictEncoding encoding.Encoding
	isSorted     bool
}

// encode serializes the header: a type byte, two VARINT sizes, then the
// variant-specific fields.
func (h pageHeader) encode() []byte {
	out := make([]byte, 0, 16)
	out = append(out, byte(h.pageType))
	out = encoding.AppendUvarint(out, uint32(h.uncompressedSize))
	out = encoding.AppendUvarint(out, uint32(h.compressedSize))

	switch h.pageType {
	case DataPage:
		out = encoding.AppendUvarint(out, uint32(h.numValues))
		out = append(out, byte(h.valuesEncoding), byte(h.definitionLevelEncoding), byte(h.repetitionLevelEncoding))
	case DictionaryPage:
		out = encoding.AppendUvarint(out, uint32(h.numValues))
		sorted := byte(0)
		if h.isSorted {
			sorted = 1
		}
		out = append(out, byte(h.dictEncoding), sorted)
	}
	return out
}

// decodePageHeader parses a header produced by encode, returning the
// header and the number of bytes consumed.
func decodePageHeader(buf []byte) (pageHeader, int, error) {
	var h pageHeader
	if len(buf) < 1 {
		return h, 0, errors.New(errors.ErrorTypeMalformedStream, "truncated page header")
	}
	h.pageType = PageType(buf[0])
	pos := 1

	uSize, n, err := encoding.ReadUvarint(buf[pos:])
	if err != nil {
		return h, 0, err
	}
	h.uncompressedSize = int(uSize)
	pos += n

	cSize, n, err := encoding.ReadUvarint(buf[pos:])
	if err != nil {
		return h, 0, err
	}
	h.compressedSize = int(cSize)
	pos += n

	switch h.pageType {
	case DataPage:
		nv, n, err := encoding.ReadUvarint(buf[pos:])
		if err != nil {
			return h, 0, err
		}
		h.numValues = int(nv)
		pos += n
		if pos+3 > len(buf) {
			return h, 0, errors.New(errors.ErrorTypeMalformedStream, "truncated data page header")
		}
		h.valuesEncoding = encoding.Encoding(buf[pos])
		h.definitionLevelEncoding = encoding.Encoding(buf[pos+1])
		h.repetitionLevelEncoding = encoding.Encoding(buf[pos+2])
		pos += 3
	case DictionaryPage:
		nv, n, err := encoding.ReadUvarint(buf[pos:])
		if err != nil {
			return h, 0, err
		}
		h.numValues = int(nv)
		pos += n
		if pos+2 > len(buf) {
			return h, 0, errors.New(errors.ErrorTypeMalformedStream, "truncated dictionary page header")
		}
		h.dictEncoding = encoding.Encoding(buf[pos])
		h.isSorted = buf[pos+1] != 0
		pos += 2
	default:
		return h, 0, errors.New(errors.ErrorTypeMalformedStream, "unrecognized page type")
	}
	return h, pos, nil
}
