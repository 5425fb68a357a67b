package encoding

import (
	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// maxVarintBytes bounds a 32-bit value's VARINT encoding: ceil(32/7) = 5.
const maxVarintBytes = 5

// AppendUvarint appends v's unsigned base-128 VARINT encoding to dst and
// returns the extended slice. Each byte's low 7 bits carry data; the high
// bit set means "more follows".
func AppendUvarint(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// ReadUvarint decodes an unsigned VARINT from the front of buf, returning
// the value and the number of bytes consumed. It raises MalformedStream if
// buf is exhausted before a terminating byte, or if more than 5 bytes would
// be needed to represent a 32-bit value.
func ReadUvarint(buf []byte) (value uint32, n int, err error) {
	var shift uint
	for n = 0; n < len(buf); n++ {
		b := buf[n]
		if n == maxVarintBytes {
			return 0, 0, errors.New(errors.ErrorTypeMalformedStream, "varint exceeds 5 bytes").
				WithDetail("bytes_read", n)
		}
		value |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, n + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.New(errors.ErrorTypeMalformedStream, "truncated varint")
}
