package encoding

import (
	"math/bits"

	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// BitsNeeded returns the number of bits required to represent n:
// BitsNeeded(0) = 0, BitsNeeded(n>0) = 32 - leadingZeros(n).
func BitsNeeded(n uint32) int {
	if n == 0 {
		return 0
	}
	return 32 - bits.LeadingZeros32(n)
}

// PaddedByteCount returns ceil(bitLength/8).
func PaddedByteCount(bitLength int) int {
	return (bitLength + 7) / 8
}

// Pack packs values, each assumed to fit in w bits, into a little-endian,
// LSB-first-within-byte byte stream. For w == 0 it returns a zero-length
// slice. The packed size is ceil(len(values)*w/8); any unused high bits in
// the final byte are zero.
func Pack(values []uint32, w int) ([]byte, error) {
	if w < 0 || w > 32 {
		return nil, errors.New(errors.ErrorTypeEncodingOverflow, "bit width out of range").
			WithDetail("width", w)
	}
	if w == 0 {
		return nil, nil
	}

	out := make([]byte, PaddedByteCount(len(values)*w))
	var bitPos int
	for _, v := range values {
		if BitsNeeded(v) > w {
			return nil, errors.New(errors.ErrorTypeEncodingOverflow, "value exceeds declared bit width").
				WithDetail("width", w).WithDetail("value", v)
		}
		remaining := w
		val := v
		for remaining > 0 {
			byteIdx := bitPos / 8
			bitOff := bitPos % 8
			free := 8 - bitOff
			take := remaining
			if take > free {
				take = free
			}
			out[byteIdx] |= byte(val<<uint(bitOff)) & byte(((1<<uint(take))-1)<<uint(bitOff))
			val >>= uint(take)
			remaining -= take
			bitPos += take
		}
	}
	return out, nil
}

// Unpack is the exact inverse of Pack: it reads n values of w bits each
// from buf.
func Unpack(buf []byte, w int, n int) ([]uint32, error) {
	if w < 0 || w > 32 {
		return nil, errors.New(errors.ErrorTypeEncodingOverflow, "bit width out of range").
			WithDetail("width", w)
	}
	if w == 0 {
		return make([]uint32, n), nil
	}

	need := PaddedByteCount(n * w)
	if len(buf) < need {
		return nil, errors.New(errors.ErrorTypeMalformedStream, "truncated bit-packed run").
			WithDetail("need_bytes", need).WithDetail("have_bytes", len(buf))
	}

	out := make([]uint32, n)
	var bitPos int
	for i := 0; i < n; i++ {
		var val uint32
		var shift uint
		remaining := w
		for remaining > 0 {
			byteIdx := bitPos / 8
			bitOff := bitPos % 8
			free := 8 - bitOff
			take := remaining
			if take > free {
				take = free
			}
			mask := byte((1 << uint(take)) - 1)
			bitsVal := (buf[byteIdx] >> uint(bitOff)) & mask
			val |= uint32(bitsVal) << shift
			shift += uint(take)
			remaining -= take
			bitPos += take
		}
		out[i] = val
	}
	return out, nil
}
