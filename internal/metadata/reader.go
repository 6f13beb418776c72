// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata reads the arXiv metadata snapshot (one JSON object per
// line) and selects the records loaded into the dataset database.
package metadata

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// maxLineSize bounds one snapshot line; abstracts and author lists of large
// collaborations run to hundreds of kilobytes.
const maxLineSize = 16 << 20

// Reader decodes snapshot records one line at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: s}
}

// Next returns the next record, or io.EOF after the last one. Blank lines
// are skipped.
func (r *Reader) Next() (*types.ArxivMetadata, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var m types.ArxivMetadata
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, types.WrapError(types.ErrJSON, fmt.Sprintf("decoding line %d", r.line), err)
		}
		return &m, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, types.WrapError(types.ErrIO, fmt.Sprintf("reading line %d", r.line+1), err)
	}
	return nil, io.EOF
}

// Sink receives the records selected for loading.
type Sink interface {
	InsertMetadata(ctx context.Context, m *types.ArxivMetadata) (bool, error)
}

// LoadStats counts what Load did with the snapshot.
type LoadStats struct {
	Read     int
	Selected int
	Inserted int
}

// Load reads every record from r, keeps those accepted by f, and inserts
// them into sink. Records already present are counted as selected but not
// inserted.
func Load(ctx context.Context, r io.Reader, f Filter, sink Sink) (LoadStats, error) {
	var stats LoadStats
	reader := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		m, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Read++
		if !f.Keep(m) {
			continue
		}
		stats.Selected++
		inserted, err := sink.InsertMetadata(ctx, m)
		if err != nil {
			return stats, err
		}
		if inserted {
			stats.Inserted++
		}
	}
}
