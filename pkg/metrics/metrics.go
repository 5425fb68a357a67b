// Package metrics exposes Prometheus collectors for the write path: pages
// and row groups produced, bytes before/after compression, and dictionary
// fallback events. Collectors are package-level, matching the promauto
// registration style used throughout this codebase's ambient stack.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesWritten counts pages handed to a FileWriter, labeled by page
	// type (data/dictionary) and the value encoding used.
	PagesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parquetcore_pages_written_total",
			Help: "Total number of pages written, by page type and value encoding",
		},
		[]string{"page_type", "encoding"},
	)

	// RowGroupsFlushed counts row groups closed by a Writer.
	RowGroupsFlushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parquetcore_row_groups_flushed_total",
			Help: "Total number of row groups flushed to the sink",
		},
	)

	// DictionaryFallbacks counts DictionaryEncoder instances that switched
	// to PLAIN mid-chunk because their dictionary page budget was exceeded.
	DictionaryFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parquetcore_dictionary_fallbacks_total",
			Help: "Total number of column chunks that fell back from dictionary to PLAIN encoding",
		},
	)

	// PageCompressedBytes tracks the compressed size distribution of pages,
	// labeled by the codec used.
	PageCompressedBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parquetcore_page_compressed_bytes",
			Help:    "Compressed page size in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10), // 256B .. ~64MiB
		},
		[]string{"codec"},
	)

	// RowGroupUncompressedBytes tracks the uncompressed size of flushed
	// row groups, used to sanity-check the blockSize soft bound.
	RowGroupUncompressedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parquetcore_row_group_uncompressed_bytes",
			Help:    "Uncompressed row group size in bytes at flush time",
			Buckets: prometheus.ExponentialBuckets(1<<20, 2, 12), // 1MiB .. 2GiB
		},
	)

	// RecordsShredded counts records the RecordShredder has walked.
	RecordsShredded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parquetcore_records_shredded_total",
			Help: "Total number of records shredded into column values",
		},
	)

	// InvalidRecords counts records rejected by the shredder (missing
	// REQUIRED field or a value incompatible with its leaf's primitive
	// type), regardless of the validating setting.
	InvalidRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parquetcore_invalid_records_total",
			Help: "Total number of records rejected during shredding",
		},
	)
)

// Timer measures the duration of one write-path operation and reports it
// against a caller-chosen histogram on Stop.
type Timer struct {
	start time.Time
	obs   prometheus.Observer
}

// NewTimer starts a timer that will report its elapsed duration, in
// seconds, to obs when stopped.
func NewTimer(obs prometheus.Observer) *Timer {
	return &Timer{start: time.Now(), obs: obs}
}

// Stop records the elapsed time since NewTimer and returns it.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	t.obs.Observe(d.Seconds())
	return d
}
