package parquet

import (
	"github.com/dataflowlabs/parquetcore/pkg/schema"
	"github.com/dataflowlabs/parquetcore/pkg/writercfg"
)

// ColumnStore owns one ColumnValueBuffer per schema leaf, fans out
// shredded triples to the right buffer, and decides when accumulated
// memory justifies a row-group flush, per §4.10.
type ColumnStore struct {
	leaves  []*schema.LeafDescriptor
	buffers []*ColumnValueBuffer

	// pendingPages holds pages already flushed intra-row-group because a
	// column buffer's MemSize crossed cfg.PageSize before the row group
	// itself was ready to flush.
	pendingPages [][]*FlushedPage

	cfg *writercfg.Config

	rowCount          int64
	recordsSinceCheck int64
	nextCheck         int64
}

// NewColumnStore creates one buffer per leaf, in schema order.
func NewColumnStore(s *schema.Schema, cfg *writercfg.Config) *ColumnStore {
	leaves := s.Leaves()
	cs := &ColumnStore{
		leaves:       leaves,
		buffers:      make([]*ColumnValueBuffer, len(leaves)),
		pendingPages: make([][]*FlushedPage, len(leaves)),
		cfg:          cfg,
		nextCheck:    100,
	}
	for i, leaf := range leaves {
		cs.buffers[i] = NewColumnValueBuffer(leaf, cfg.EnableDictionary, int(cfg.DictionaryPageSize))
	}
	return cs
}

// RowCount returns the number of complete records accumulated into the
// current row group.
func (cs *ColumnStore) RowCount() int64 { return cs.rowCount }

// StartRecord brackets the beginning of one record's shredded triples.
// It exists to mirror §4.10's operation pair; the store itself needs no
// per-record state beyond what EndRecord updates.
func (cs *ColumnStore) StartRecord() {}

// WriteTriple routes one shredded triple to its leaf's buffer, flushing
// that buffer into pendingPages immediately if it has grown past the
// configured page size (§4.7's flush policy).
func (cs *ColumnStore) WriteTriple(leafIdx int, value Value, rep, def int) error {
	buf := cs.buffers[leafIdx]

	var err error
	if value == nil {
		err = buf.WriteNull(rep, def)
	} else {
		if str, ok := value.(string); ok {
			value = []byte(str)
		}
		err = buf.WriteValue(value, rep, def)
	}
	if err != nil {
		return err
	}

	if int64(buf.MemSize()) > cs.cfg.PageSize {
		page, ferr := buf.FlushPage()
		if ferr != nil {
			return ferr
		}
		cs.pendingPages[leafIdx] = append(cs.pendingPages[leafIdx], page)
	}
	return nil
}

// EndRecord increments the row count and runs the adaptive memory-check
// schedule of §4.10/§9: after every nextCheck records, compare MemSize to
// blockSize, re-deriving the next check point from the observed average
// record size and flooring it at 100.
func (cs *ColumnStore) EndRecord() (shouldFlush bool) {
	cs.rowCount++
	cs.recordsSinceCheck++

	if cs.recordsSinceCheck < cs.nextCheck {
		return false
	}

	mem := cs.MemSize()
	cs.recordsSinceCheck = 0
	avgRecordSize := mem / cs.rowCount
	if avgRecordSize < 1 {
		avgRecordSize = 1
	}
	next := (cs.rowCount + cs.cfg.BlockSize/avgRecordSize) / 2
	if next < 100 {
		next = 100
	}
	cs.nextCheck = next

	return mem > cs.cfg.BlockSize
}

// MemSize sums every column buffer's estimated footprint plus whatever
// pages have already been flushed intra-row-group but not yet written to
// the sink.
func (cs *ColumnStore) MemSize() int64 {
	var total int64
	for _, b := range cs.buffers {
		total += int64(b.MemSize())
	}
	for _, pages := range cs.pendingPages {
		for _, p := range pages {
			total += int64(len(p.Payload))
		}
	}
	return total
}

// FinalizeRowGroup flushes every column's remaining buffered values,
// returning, per leaf in schema order, the full list of pages (any
// flushed early due to pageSize, plus the final flush), then resets the
// store for a fresh row group.
func (cs *ColumnStore) FinalizeRowGroup() ([][]*FlushedPage, error) {
	out := make([][]*FlushedPage, len(cs.buffers))
	for i, b := range cs.buffers {
		if b.ValueCount() > 0 {
			page, err := b.FlushPage()
			if err != nil {
				return nil, err
			}
			cs.pendingPages[i] = append(cs.pendingPages[i], page)
		}
		out[i] = cs.pendingPages[i]
	}
	cs.reset()
	return out, nil
}

func (cs *ColumnStore) reset() {
	for i, leaf := range cs.leaves {
		cs.buffers[i] = NewColumnValueBuffer(leaf, cs.cfg.EnableDictionary, int(cs.cfg.DictionaryPageSize))
		cs.pendingPages[i] = nil
	}
	cs.rowCount = 0
	cs.recordsSinceCheck = 0
	cs.nextCheck = 100
}
