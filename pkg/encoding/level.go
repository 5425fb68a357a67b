package encoding

// LevelEncoder encodes a stream of repetition or definition levels for one
// leaf column. Per §4.6: when the max level is 0 the stream is always
// empty (there is nothing to distinguish), otherwise it is an
// RleHybridEncoder with width = BitsNeeded(maxLevel).
type LevelEncoder struct {
	maxLevel int
	width    int
	inner    *RleHybridEncoder
}

// NewLevelEncoder creates a level encoder for the given max repetition or
// definition level.
func NewLevelEncoder(maxLevel int) *LevelEncoder {
	width := BitsNeeded(uint32(maxLevel))
	le := &LevelEncoder{maxLevel: maxLevel, width: width}
	if maxLevel > 0 {
		le.inner = NewRleHybridEncoder(width)
	}
	return le
}

// Write appends one level value. It is a no-op when MaxLevel is 0.
func (le *LevelEncoder) Write(level int) error {
	if le.maxLevel == 0 {
		return nil
	}
	return le.inner.Write(uint32(level))
}

// Len reports the number of levels written.
func (le *LevelEncoder) Len() int {
	if le.maxLevel == 0 {
		return 0
	}
	return le.inner.Len()
}

// Width returns the bit width levels are packed at.
func (le *LevelEncoder) Width() int { return le.width }

// Finish returns the RLE-hybrid encoded level stream, or nil when
// MaxLevel is 0.
func (le *LevelEncoder) Finish() ([]byte, error) {
	if le.maxLevel == 0 {
		return nil, nil
	}
	return le.inner.Finish()
}

// DecodeLevels decodes count levels for the given max level from buf.
func DecodeLevels(buf []byte, maxLevel int, count int) ([]int, error) {
	if maxLevel == 0 {
		out := make([]int, count)
		return out, nil
	}
	width := BitsNeeded(uint32(maxLevel))
	raw, err := DecodeRleHybrid(buf, width, count)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out, nil
}
