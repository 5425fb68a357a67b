package main

import (
	"bufio"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/dataflowlabs/parquetcore/pkg/parquet"
	"github.com/dataflowlabs/parquetcore/pkg/pool"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
)

// ndjsonSource decodes newline-delimited JSON objects into parquet.Group
// records against a fixed schema, one line at a time.
type ndjsonSource struct {
	scanner *bufio.Scanner
	root    *schema.Node
	scratch []byte
}

// newNDJSONSource wraps r, borrowing its scan buffer from the shared page
// pool since one line rarely exceeds a single page's worth of bytes.
func newNDJSONSource(r io.Reader, root *schema.Node) *ndjsonSource {
	scratch := pool.Pages.Get(64 * 1024)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(scratch, 16<<20)
	return &ndjsonSource{scanner: scanner, root: root, scratch: scratch}
}

// Next implements parquet.RecordSource.
func (s *ndjsonSource) Next() (parquet.Group, bool, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw map[string]interface{}
		if err := gojson.Unmarshal(line, &raw); err != nil {
			return nil, false, err
		}
		rec, err := convertRecord(s.root, raw)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (s *ndjsonSource) Close() {
	pool.Pages.Put(s.scratch)
}
