package encoding

import (
	"encoding/binary"
	"math"

	"github.com/dataflowlabs/parquetcore/pkg/errors"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
)

// PlainEncoder emits fixed-width little-endian or length-prefixed binary
// values, per §4.4: INT32/INT64/FLOAT/DOUBLE are little-endian fixed
// width, BOOL is bit-packed 8-per-byte LSB-first, BINARY is 4-byte
// length-prefixed, FIXED_LEN_BYTE_ARRAY is raw bytes at the schema's
// declared length.
type PlainEncoder struct {
	primitive  schema.PrimitiveType
	typeLength int

	buf      []byte
	boolBits []bool
	count    int
}

// NewPlainEncoder creates a PLAIN encoder for the given primitive type.
// typeLength is only consulted for FixedLenByteArray.
func NewPlainEncoder(primitive schema.PrimitiveType, typeLength int) *PlainEncoder {
	return &PlainEncoder{primitive: primitive, typeLength: typeLength}
}

// WriteValue appends one value. v's concrete type must match the
// encoder's primitive: bool, int32, int64, [12]byte (INT96), float32,
// float64, []byte (BINARY or FIXED_LEN_BYTE_ARRAY).
func (e *PlainEncoder) WriteValue(v interface{}) error {
	e.count++
	switch e.primitive {
	case schema.Bool:
		b, ok := v.(bool)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		e.boolBits = append(e.boolBits, b)
		return nil
	case schema.Int32:
		i, ok := v.(int32)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(i))
		e.buf = append(e.buf, tmp[:]...)
		return nil
	case schema.Int64:
		i, ok := v.(int64)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(i))
		e.buf = append(e.buf, tmp[:]...)
		return nil
	case schema.Int96:
		b, ok := v.([12]byte)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		e.buf = append(e.buf, b[:]...)
		return nil
	case schema.Float:
		f, ok := v.(float32)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(f))
		e.buf = append(e.buf, tmp[:]...)
		return nil
	case schema.Double:
		f, ok := v.(float64)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
		e.buf = append(e.buf, tmp[:]...)
		return nil
	case schema.Binary:
		b, ok := v.([]byte)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
		e.buf = append(e.buf, lenBuf[:]...)
		e.buf = append(e.buf, b...)
		return nil
	case schema.FixedLenByteArray:
		b, ok := v.([]byte)
		if !ok {
			return typeMismatch(e.primitive, v)
		}
		if len(b) != e.typeLength {
			return errors.New(errors.ErrorTypeInvalidRecord, "fixed-length value has wrong length").
				WithDetail("expected", e.typeLength).WithDetail("actual", len(b))
		}
		e.buf = append(e.buf, b...)
		return nil
	default:
		return errors.New(errors.ErrorTypeConfigurationError, "unsupported primitive type for PLAIN encoding")
	}
}

func typeMismatch(p schema.PrimitiveType, v interface{}) error {
	return errors.New(errors.ErrorTypeInvalidRecord, "value incompatible with leaf primitive type").
		WithDetail("primitive", p.String()).WithDetail("go_type", goTypeName(v))
}

func goTypeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case bool:
		return "bool"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case []byte:
		return "[]byte"
	case [12]byte:
		return "[12]byte"
	default:
		return "unknown"
	}
}

// BytesWritten returns the size of the encoding produced if Finish were
// called now, without mutating encoder state.
func (e *PlainEncoder) BytesWritten() int {
	if e.primitive == schema.Bool {
		return PaddedByteCount(len(e.boolBits))
	}
	return len(e.buf)
}

// Count returns the number of values written.
func (e *PlainEncoder) Count() int { return e.count }

// Finish returns the accumulated PLAIN encoding and resets the encoder.
func (e *PlainEncoder) Finish() []byte {
	if e.primitive == schema.Bool {
		out := make([]byte, PaddedByteCount(len(e.boolBits)))
		for i, b := range e.boolBits {
			if b {
				out[i/8] |= 1 << uint(i%8)
			}
		}
		e.boolBits = e.boolBits[:0]
		e.count = 0
		return out
	}
	out := e.buf
	e.buf = nil
	e.count = 0
	return out
}
