package parquet

import (
	"io"
	"os"

	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// PositionedByteSink is the synchronous byte sink a FileWriter drives.
// Implementations never need to seek backward; the writer only reads its
// own current position to record offsets into the footer.
type PositionedByteSink interface {
	Write(p []byte) (int, error)
	Position() int64
	Close() error
}

// FileSink is a PositionedByteSink backed by an *os.File.
type FileSink struct {
	f   *os.File
	pos int64
}

// NewFileSink creates a FileSink writing to f, treating f's current offset
// as position 0.
func NewFileSink(f *os.File) *FileSink {
	return &FileSink{f: f}
}

// CreateFileSink creates (truncating) the file at path and wraps it.
func CreateFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path) //nolint:gosec // path is caller-controlled, matching os.Create's own contract
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIOFailure, "create file sink")
	}
	return NewFileSink(f), nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	s.pos += int64(n)
	if err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeIOFailure, "write to file sink")
	}
	return n, nil
}

func (s *FileSink) Position() int64 { return s.pos }

func (s *FileSink) Close() error {
	if err := s.f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIOFailure, "close file sink")
	}
	return nil
}

// CountingSink wraps any io.Writer, tracking the number of bytes written
// so far as its position. It never seeks, which makes it usable over
// non-seekable streams (e.g. a network connection) as long as the writer
// itself never needs to rewrite earlier bytes — true of this file format,
// which only appends.
type CountingSink struct {
	w   io.Writer
	pos int64
}

// NewCountingSink wraps w.
func NewCountingSink(w io.Writer) *CountingSink {
	return &CountingSink{w: w}
}

func (s *CountingSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.pos += int64(n)
	if err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeIOFailure, "write to counting sink")
	}
	return n, nil
}

func (s *CountingSink) Position() int64 { return s.pos }

func (s *CountingSink) Close() error {
	if closer, ok := s.w.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeIOFailure, "close counting sink")
		}
	}
	return nil
}
