package parquet

import (
	"encoding/binary"

	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/dataflowlabs/parquetcore/pkg/metrics"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
)

// ColumnValueBuffer accumulates values and levels for one leaf column
// between page flushes, per §4.7. It owns a rep-level encoder, a
// def-level encoder, and a value encoder (PLAIN or dictionary).
type ColumnValueBuffer struct {
	leaf *schema.LeafDescriptor

	repLevels *encoding.LevelEncoder
	defLevels *encoding.LevelEncoder
	values    encoding.ValueEncoder

	dict *encoding.DictionaryEncoder // non-nil iff values is backed by it

	valueCount        int
	dictionaryEmitted bool
	fallbackRecorded  bool
}

// FlushedPage is the payload flushPage hands to a PageWriter: the framed
// rep/def/value byte stream plus the descriptors the page header needs.
type FlushedPage struct {
	Payload              []byte
	ValueCount           int
	ValuesEncoding       encoding.Encoding
	RepLevelWidth        int
	DefLevelWidth        int
	DictionaryBytes      []byte // non-nil only the first time a chunk's dictionary is finalized
	DictionaryValueCount int
}

// NewColumnValueBuffer creates a buffer for leaf, using dictionary
// encoding when enableDictionary is true, falling back to PLAIN once the
// dictionary's estimated size would exceed dictPageSizeLimit.
func NewColumnValueBuffer(leaf *schema.LeafDescriptor, enableDictionary bool, dictPageSizeLimit int) *ColumnValueBuffer {
	b := &ColumnValueBuffer{
		leaf:      leaf,
		repLevels: encoding.NewLevelEncoder(leaf.MaxRepetitionLevel),
		defLevels: encoding.NewLevelEncoder(leaf.MaxDefinitionLevel),
	}
	if enableDictionary {
		b.dict = encoding.NewDictionaryEncoder(leaf.Primitive, leaf.TypeLength, dictPageSizeLimit)
		b.values = b.dict
	} else {
		b.values = encoding.NewPlainEncoder(leaf.Primitive, leaf.TypeLength)
	}
	return b
}

// WriteNull records a triple with no value: only levels advance.
func (b *ColumnValueBuffer) WriteNull(rep, def int) error {
	b.valueCount++
	if err := b.repLevels.Write(rep); err != nil {
		return err
	}
	return b.defLevels.Write(def)
}

// WriteValue records a present value alongside its levels.
func (b *ColumnValueBuffer) WriteValue(v interface{}, rep, def int) error {
	b.valueCount++
	if err := b.repLevels.Write(rep); err != nil {
		return err
	}
	if err := b.defLevels.Write(def); err != nil {
		return err
	}
	return b.values.WriteValue(v)
}

// ValueCount returns the number of triples written since the last flush.
func (b *ColumnValueBuffer) ValueCount() int { return b.valueCount }

// MemSize estimates the buffer's current uncompressed byte footprint,
// summing rep/def level bytes and the value encoder's own estimate.
func (b *ColumnValueBuffer) MemSize() int {
	repBytes := encoding.PaddedByteCount(b.repLevels.Len() * b.repLevels.Width())
	defBytes := encoding.PaddedByteCount(b.defLevels.Len() * b.defLevels.Width())
	return repBytes + defBytes + b.values.BytesWritten()
}

// FlushPage finalizes the encoders into one page payload and resets the
// buffer's value/level state. The payload framing is
// repLenPrefix|repBytes|defLenPrefix|defBytes|valueBytes, each length
// prefix a 4-byte little-endian uint32, per §4.6.
func (b *ColumnValueBuffer) FlushPage() (*FlushedPage, error) {
	repBytes, err := b.repLevels.Finish()
	if err != nil {
		return nil, err
	}
	defBytes, err := b.defLevels.Finish()
	if err != nil {
		return nil, err
	}
	valueBytes, valEncoding, err := b.values.FinishTagged()
	if err != nil {
		return nil, err
	}

	if b.dict != nil && b.dict.FellBack() && !b.fallbackRecorded {
		b.fallbackRecorded = true
		metrics.DictionaryFallbacks.Inc()
	}

	var dictBytes []byte
	var dictValueCount int
	if !b.dictionaryEmitted && b.dict != nil && !b.dict.FellBack() && b.dict.HasDictionary() {
		dictBytes = b.dict.DictionaryPageBytes()
		dictValueCount = b.dict.DictionarySize()
		b.dictionaryEmitted = true
	}

	payload := make([]byte, 0, 8+len(repBytes)+len(defBytes)+len(valueBytes))
	payload = appendLenPrefixed(payload, repBytes)
	payload = appendLenPrefixed(payload, defBytes)
	payload = append(payload, valueBytes...)

	page := &FlushedPage{
		Payload:              payload,
		ValueCount:           b.valueCount,
		ValuesEncoding:       valEncoding,
		RepLevelWidth:        b.repLevels.Width(),
		DefLevelWidth:        b.defLevels.Width(),
		DictionaryBytes:      dictBytes,
		DictionaryValueCount: dictValueCount,
	}
	b.valueCount = 0
	return page, nil
}

func appendLenPrefixed(dst, body []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(body)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, body...)
}
