package parquet

import (
	"encoding/binary"

	"github.com/dataflowlabs/parquetcore/pkg/compression"
	"github.com/dataflowlabs/parquetcore/pkg/encoding"
	"github.com/dataflowlabs/parquetcore/pkg/errors"
	"github.com/dataflowlabs/parquetcore/pkg/metrics"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
)

// magic is the four-byte marker opening and closing every file, per §6.
var magic = [4]byte{'P', 'A', 'R', '1'}

// FileState is one state of the FileWriter's explicit state machine, per
// §4.11 and §9's "explicit enum with legal-transition table" note.
type FileState int

const (
	NotStarted FileState = iota
	Started
	InBlock
	InColumn
	Ended
)

func (s FileState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Started:
		return "Started"
	case InBlock:
		return "InBlock"
	case InColumn:
		return "InColumn"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// FileWriter drives the file-level byte layout of §6: MAGIC, row groups
// of column chunks, footer, footer length, trailing MAGIC. It is not
// safe for concurrent use, matching §5's single-writer-per-file model.
type FileWriter struct {
	sink       PositionedByteSink
	compressor compression.Compressor
	codecName  string
	codec      *MetadataCodec

	state FileState

	fm *FileMetadata

	currentBlock   *BlockMetaData
	currentColumn  *pendingColumn
}

type pendingColumn struct {
	leaf                 *schema.LeafDescriptor
	valueCount           int64
	pw                   *PageWriter
	firstDataPageOffset  int64
	dictionaryPageOffset int64
	sawFirstDataPage     bool
	sawDictionaryPage    bool
}

// NewFileWriter creates a writer over sink, framing every page with
// compressor and describing the file against s.
func NewFileWriter(sink PositionedByteSink, s *schema.Schema, compressor compression.Compressor, codecName string) *FileWriter {
	return &FileWriter{
		sink:       sink,
		compressor: compressor,
		codecName:  codecName,
		codec:      NewMetadataCodec(),
		state:      NotStarted,
		fm: &FileMetadata{
			Version:          FormatVersion,
			Schema:           s,
			KeyValueMetadata: make(map[string]string),
		},
	}
}

// Start writes MAGIC and transitions NotStarted -> Started.
func (fw *FileWriter) Start() error {
	if fw.state != NotStarted {
		return fw.illegalState("Start")
	}
	if _, err := fw.sink.Write(magic[:]); err != nil {
		return err
	}
	fw.state = Started
	return nil
}

// StartBlock begins a new row group, transitioning Started -> InBlock.
func (fw *FileWriter) StartBlock() error {
	if fw.state != Started {
		return fw.illegalState("StartBlock")
	}
	fw.currentBlock = &BlockMetaData{}
	fw.state = InBlock
	return nil
}

// StartColumn begins the chunk for leaf, transitioning InBlock -> InColumn.
func (fw *FileWriter) StartColumn(leaf *schema.LeafDescriptor, valueCount int64) error {
	if fw.state != InBlock {
		return fw.illegalState("StartColumn")
	}
	fw.currentColumn = &pendingColumn{
		leaf:                 leaf,
		valueCount:           valueCount,
		pw:                   NewPageWriter(fw.compressor),
		dictionaryPageOffset: -1,
	}
	fw.state = InColumn
	return nil
}

// WriteDictionaryPage frames and writes payload as a DICTIONARY_PAGE. It
// must be called before any WriteDataPage call for the chunk.
func (fw *FileWriter) WriteDictionaryPage(payload []byte, numValues int) error {
	if fw.state != InColumn {
		return fw.illegalState("WriteDictionaryPage")
	}
	col := fw.currentColumn
	if col.sawDictionaryPage || col.sawFirstDataPage {
		return fw.illegalState("WriteDictionaryPage")
	}
	col.dictionaryPageOffset = fw.sink.Position()
	col.sawDictionaryPage = true

	framed, err := col.pw.WriteDictionaryPage(payload, numValues)
	if err != nil {
		return err
	}
	if _, err := fw.sink.Write(framed); err != nil {
		return err
	}
	metrics.PagesWritten.WithLabelValues("dictionary", encoding.EncodingPlain.String()).Inc()
	return nil
}

// WriteDataPage frames and writes one page's payload as a DATA_PAGE.
func (fw *FileWriter) WriteDataPage(payload []byte, valueCount int, valuesEncoding encoding.Encoding) error {
	if fw.state != InColumn {
		return fw.illegalState("WriteDataPage")
	}
	col := fw.currentColumn
	if !col.sawFirstDataPage {
		col.firstDataPageOffset = fw.sink.Position()
		col.sawFirstDataPage = true
	}

	framed, err := col.pw.WriteDataPage(payload, valueCount, valuesEncoding)
	if err != nil {
		return err
	}
	if _, err := fw.sink.Write(framed); err != nil {
		return err
	}
	metrics.PagesWritten.WithLabelValues("data", valuesEncoding.String()).Inc()
	return nil
}

// WriteDataPages writes a whole chunk's worth of already-flushed pages in
// order: an optional dictionary page followed by one or more data pages,
// matching §4.11's writeDataPages(preassembledBuffer, ...) operation. This
// is the shape a Writer uses: a column buffer may have flushed several
// pages intra-row-group before the row group itself was ready to close.
func (fw *FileWriter) WriteDataPages(pages []*FlushedPage) error {
	for _, p := range pages {
		if p.DictionaryBytes != nil {
			if err := fw.WriteDictionaryPage(p.DictionaryBytes, dictionaryValueCount(p)); err != nil {
				return err
			}
		}
		if err := fw.WriteDataPage(p.Payload, p.ValueCount, p.ValuesEncoding); err != nil {
			return err
		}
	}
	return nil
}

// dictionaryValueCount returns the dictionary's value count for a flushed
// page. ColumnValueBuffer, the one place that knows the true count,
// records it in FlushedPage.DictionaryValueCount, so the PLAIN dictionary
// bytes are not re-parsed here.
func dictionaryValueCount(p *FlushedPage) int { return p.DictionaryValueCount }

// EndColumn finalizes the chunk's metadata and appends it to the current
// block, transitioning InColumn -> InBlock.
func (fw *FileWriter) EndColumn() error {
	if fw.state != InColumn {
		return fw.illegalState("EndColumn")
	}
	col := fw.currentColumn
	leaf := col.leaf

	fw.currentBlock.Columns = append(fw.currentBlock.Columns, ColumnChunkMetaData{
		Path:                  append([]string{}, leaf.Path...),
		Primitive:             leaf.Primitive,
		TypeLength:            leaf.TypeLength,
		Codec:                 fw.codecName,
		Encodings:             col.pw.EncodingsUsed(),
		FirstDataPageOffset:   col.firstDataPageOffset,
		DictionaryPageOffset:  col.dictionaryPageOffset,
		ValueCount:            col.valueCount,
		TotalCompressedSize:   col.pw.TotalCompressed(),
		TotalUncompressedSize: col.pw.TotalUncompressed(),
	})
	fw.currentColumn = nil
	fw.state = InBlock
	return nil
}

// EndBlock closes the current row group, appending it to the footer's
// row group list and transitioning InBlock -> Started.
func (fw *FileWriter) EndBlock(rowCount int64) error {
	if fw.state != InBlock {
		return fw.illegalState("EndBlock")
	}
	fw.currentBlock.RowCount = rowCount
	var total int64
	for _, c := range fw.currentBlock.Columns {
		total += c.TotalCompressedSize
	}
	fw.currentBlock.TotalByteSize = total

	fw.fm.RowGroups = append(fw.fm.RowGroups, *fw.currentBlock)
	fw.currentBlock = nil
	fw.state = Started
	metrics.RowGroupsFlushed.Inc()
	metrics.RowGroupUncompressedBytes.Observe(float64(sumUncompressed(fw.fm.RowGroups[len(fw.fm.RowGroups)-1])))
	return nil
}

func sumUncompressed(b BlockMetaData) int64 {
	var total int64
	for _, c := range b.Columns {
		total += c.TotalUncompressedSize
	}
	return total
}

// End writes the footer, its length, and the trailing MAGIC, then closes
// the sink, transitioning Started -> Ended.
func (fw *FileWriter) End(extraMetadata map[string]string) error {
	if fw.state != Started {
		return fw.illegalState("End")
	}
	for k, v := range extraMetadata {
		fw.fm.KeyValueMetadata[k] = v
	}

	footerStart := fw.sink.Position()
	footerBytes, err := fw.codec.Encode(fw.fm)
	if err != nil {
		return err
	}
	if _, err := fw.sink.Write(footerBytes); err != nil {
		return err
	}
	footerLen := fw.sink.Position() - footerStart

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(footerLen))
	if _, err := fw.sink.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := fw.sink.Write(magic[:]); err != nil {
		return err
	}

	fw.state = Ended
	return fw.sink.Close()
}

// State returns the writer's current state.
func (fw *FileWriter) State() FileState { return fw.state }

func (fw *FileWriter) illegalState(op string) error {
	return errors.New(errors.ErrorTypeIllegalState, "operation not legal in current file writer state").
		WithDetail("operation", op).WithDetail("state", fw.state.String())
}
