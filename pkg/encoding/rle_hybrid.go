package encoding

import (
	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// minRLERunLength is the look-ahead threshold: 8 or more consecutive equal
// values that begin at a bit-packed group boundary are emitted as an RLE
// run rather than accumulated into bit-packed groups of 8.
const minRLERunLength = 8

// bitPackGroupSize is the number of values per bit-packed group; the
// hybrid stream's bit-packed header counts groups, not raw values.
const bitPackGroupSize = 8

// RleHybridEncoder emits a run-length / bit-packed hybrid stream for a
// fixed bit-width w. Values must be < 2^w.
type RleHybridEncoder struct {
	width  int
	values []uint32
}

// NewRleHybridEncoder creates an encoder for the given bit width.
func NewRleHybridEncoder(width int) *RleHybridEncoder {
	return &RleHybridEncoder{width: width}
}

// Write appends v to the pending sequence. Encoding is deferred to Finish
// so the encoder can look ahead for runs.
func (e *RleHybridEncoder) Write(v uint32) error {
	if e.width < 32 && v >= 1<<uint(e.width) {
		return errors.New(errors.ErrorTypeEncodingOverflow, "value exceeds declared bit width").
			WithDetail("width", e.width).WithDetail("value", v)
	}
	e.values = append(e.values, v)
	return nil
}

// Len reports the number of values written so far.
func (e *RleHybridEncoder) Len() int { return len(e.values) }

// Finish encodes all pending values into the hybrid byte stream and resets
// the encoder for reuse.
func (e *RleHybridEncoder) Finish() ([]byte, error) {
	if e.width == 0 {
		e.values = e.values[:0]
		return nil, nil
	}

	var out []byte
	values := e.values
	i := 0
	for i < len(values) {
		runLen := 1
		for i+runLen < len(values) && values[i+runLen] == values[i] && runLen < (1<<28) {
			runLen++
		}
		if runLen >= minRLERunLength {
			out = AppendUvarint(out, uint32(runLen)<<1)
			valBytes, err := Pack([]uint32{values[i]}, e.width)
			if err != nil {
				return nil, err
			}
			padded := PaddedByteCount(e.width)
			buf := make([]byte, padded)
			copy(buf, valBytes)
			out = append(out, buf...)
			i += runLen
			continue
		}

		// Accumulate into bit-packed groups of 8 until a run of
		// minRLERunLength or more is found at a group boundary, or input is
		// exhausted. The decoder keeps every value of a bit-packed run, so
		// only the stream's last run may end with padding.
		groupStart := i
		for i < len(values) {
			runLen = 1
			for i+runLen < len(values) && values[i+runLen] == values[i] && runLen < minRLERunLength {
				runLen++
			}
			if runLen >= minRLERunLength && (i-groupStart)%bitPackGroupSize == 0 {
				break
			}
			i++
		}
		group := values[groupStart:i]
		numGroups := (len(group) + bitPackGroupSize - 1) / bitPackGroupSize
		padded := make([]uint32, numGroups*bitPackGroupSize)
		copy(padded, group)

		packed, err := Pack(padded, e.width)
		if err != nil {
			return nil, err
		}
		out = AppendUvarint(out, uint32(numGroups<<1)|1)
		out = append(out, packed...)
	}

	e.values = e.values[:0]
	return out, nil
}

// DecodeRleHybrid decodes a hybrid stream produced by RleHybridEncoder,
// stopping once count values have been read. count is supplied externally
// (from the page's valueCount) since a trailing bit-packed group may
// contain zero-padding beyond the true value count.
func DecodeRleHybrid(buf []byte, width int, count int) ([]uint32, error) {
	out := make([]uint32, 0, count)
	if width == 0 {
		for i := 0; i < count; i++ {
			out = append(out, 0)
		}
		return out, nil
	}

	pos := 0
	for len(out) < count {
		if pos >= len(buf) {
			return nil, errors.New(errors.ErrorTypeMalformedStream, "truncated RLE-hybrid stream").
				WithDetail("have", len(out)).WithDetail("want", count)
		}
		header, n, err := ReadUvarint(buf[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		if header&1 == 0 {
			runLen := int(header >> 1)
			padded := PaddedByteCount(width)
			if pos+padded > len(buf) {
				return nil, errors.New(errors.ErrorTypeMalformedStream, "truncated RLE run value")
			}
			vals, err := Unpack(buf[pos:pos+padded], width, 1)
			if err != nil {
				return nil, err
			}
			pos += padded
			for i := 0; i < runLen; i++ {
				out = append(out, vals[0])
			}
		} else {
			numGroups := int(header >> 1)
			n := numGroups * bitPackGroupSize
			need := PaddedByteCount(n * width)
			if pos+need > len(buf) {
				return nil, errors.New(errors.ErrorTypeMalformedStream, "truncated bit-packed run")
			}
			vals, err := Unpack(buf[pos:pos+need], width, n)
			if err != nil {
				return nil, err
			}
			pos += need
			out = append(out, vals...)
		}
	}
	return out[:count], nil
}
