package encoding

// Encoding enumerates the value-stream encodings a page or dictionary page
// declares, per §3.
type Encoding int

const (
	EncodingPlain Encoding = iota
	EncodingPlainDictionary
	EncodingRLE
	EncodingBitPacked
	EncodingRLEDictionary
)

func (e Encoding) String() string {
	switch e {
	case EncodingPlain:
		return "PLAIN"
	case EncodingPlainDictionary:
		return "PLAIN_DICTIONARY"
	case EncodingRLE:
		return "RLE"
	case EncodingBitPacked:
		return "BIT_PACKED"
	case EncodingRLEDictionary:
		return "RLE_DICTIONARY"
	default:
		return "UNKNOWN"
	}
}

// ValueEncoder is the capability set shared by PLAIN and dictionary value
// encoders: write, measure, and finish into a tagged byte stream. Both
// implementations are variants of this one shape rather than a virtual
// method hierarchy.
type ValueEncoder interface {
	WriteValue(v interface{}) error
	Count() int
	BytesWritten() int
	FinishTagged() ([]byte, Encoding, error)
}

// FinishTagged adapts PlainEncoder.Finish to the ValueEncoder interface.
func (e *PlainEncoder) FinishTagged() ([]byte, Encoding, error) {
	return e.Finish(), EncodingPlain, nil
}
