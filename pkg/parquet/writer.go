package parquet

import (
	"context"

	"github.com/dataflowlabs/parquetcore/pkg/compression"
	"github.com/dataflowlabs/parquetcore/pkg/logger"
	"github.com/dataflowlabs/parquetcore/pkg/metrics"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
	"github.com/dataflowlabs/parquetcore/pkg/writercfg"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Writer is the façade over RecordShredder, ColumnStore, and FileWriter:
// shred one record at a time, let the column store decide when a row
// group is full, and hand finished pages to the file writer. Not safe
// for concurrent use from multiple goroutines, per §5 — one Writer drives
// exactly one file's state machine.
type Writer struct {
	schema   *schema.Schema
	cfg      *writercfg.Config
	shredder *RecordShredder
	store    *ColumnStore
	fw       *FileWriter

	sessionID    string
	rowGroupOpen bool
}

// NewWriter opens sink, writes MAGIC, and returns a Writer ready to
// accept records shredded against s.
func NewWriter(sink PositionedByteSink, s *schema.Schema, cfg *writercfg.Config) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	compressor, err := compression.NewCompressor(&compression.Config{
		Algorithm: cfg.Compression,
		Level:     cfg.CompressionLevel,
	})
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	fw := NewFileWriter(sink, s, compressor, cfg.Compression.CodecName())
	if err := fw.Start(); err != nil {
		return nil, err
	}

	logger.With(zap.String("writer.session_id", sessionID)).Info("writer opened",
		zap.Int64("block_size", cfg.BlockSize),
		zap.Int64("page_size", cfg.PageSize),
		zap.String("compression", string(cfg.Compression)),
	)

	return &Writer{
		schema:    s,
		cfg:       cfg,
		shredder:  NewRecordShredder(s, cfg.Validating),
		store:     NewColumnStore(s, cfg),
		fw:        fw,
		sessionID: sessionID,
	}, nil
}

// SessionID returns the UUID stamped into this file's footer metadata and
// every log line the writer emits.
func (w *Writer) SessionID() string { return w.sessionID }

// WriteRecord shreds rec against the schema and buffers its triples,
// flushing a row group when the column store's memory policy says so.
func (w *Writer) WriteRecord(rec Group) error {
	if !w.rowGroupOpen {
		if err := w.fw.StartBlock(); err != nil {
			return err
		}
		w.rowGroupOpen = true
	}

	w.store.StartRecord()
	if err := w.shredder.Shred(rec, w.store.WriteTriple); err != nil {
		metrics.InvalidRecords.Inc()
		return err
	}
	metrics.RecordsShredded.Inc()

	if w.store.EndRecord() {
		return w.flushRowGroup()
	}
	return nil
}

// WriteAll drains src, writing every record it yields.
func (w *Writer) WriteAll(ctx context.Context, src RecordSource) error {
	log := logger.WithContext(ctx).With(zap.String("writer.session_id", w.sessionID))
	for {
		rec, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := w.WriteRecord(rec); err != nil {
			log.Error("failed to write record", zap.Error(err))
			return err
		}
	}
}

func (w *Writer) flushRowGroup() error {
	rowCount := w.store.RowCount()
	pagesPerLeaf, err := w.store.FinalizeRowGroup()
	if err != nil {
		return err
	}

	leaves := w.schema.Leaves()
	for i, leaf := range leaves {
		pages := pagesPerLeaf[i]
		var totalValues int64
		for _, p := range pages {
			totalValues += int64(p.ValueCount)
		}
		if err := w.fw.StartColumn(leaf, totalValues); err != nil {
			return err
		}
		if err := w.fw.WriteDataPages(pages); err != nil {
			return err
		}
		if err := w.fw.EndColumn(); err != nil {
			return err
		}
	}
	if err := w.fw.EndBlock(rowCount); err != nil {
		return err
	}
	w.rowGroupOpen = false

	logger.With(zap.String("writer.session_id", w.sessionID)).Debug("row group flushed",
		zap.Int64("row_count", rowCount))
	return nil
}

// Close flushes any buffered rows into a final row group, writes the
// footer, and closes the underlying sink. The Writer must not be used
// afterward.
func (w *Writer) Close() error {
	if w.rowGroupOpen {
		if err := w.flushRowGroup(); err != nil {
			return err
		}
	}
	if err := w.fw.End(map[string]string{"writer.session_id": w.sessionID}); err != nil {
		return err
	}
	logger.With(zap.String("writer.session_id", w.sessionID)).Info("writer closed")
	return nil
}
