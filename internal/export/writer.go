// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes training records out of the dataset database.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// RecordWriter serializes training records to an output stream.
type RecordWriter interface {
	WriteRecord(rec types.TrainingRecord) error
	// Close flushes buffered output. It does not close the underlying writer.
	Close() error
}

// New returns the writer for format. An empty format selects NDJSON.
func New(format types.ExportFormat, w io.Writer) (RecordWriter, error) {
	switch format {
	case "", types.FormatNDJSON:
		return NewNDJSONWriter(w), nil
	case types.FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want %s or %s)", format, types.FormatNDJSON, types.FormatYAML)
	}
}

// NDJSONWriter writes one JSON object per line.
type NDJSONWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewNDJSONWriter wraps w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{buf: buf, enc: enc}
}

func (w *NDJSONWriter) WriteRecord(rec types.TrainingRecord) error {
	if rec.Keywords == nil {
		rec.Keywords = []string{}
	}
	if err := w.enc.Encode(rec); err != nil {
		return types.WrapError(types.ErrJSON, "encoding record "+rec.ArxivID, err)
	}
	return nil
}

func (w *NDJSONWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return types.WrapError(types.ErrIO, "flushing output", err)
	}
	return nil
}

// YAMLWriter writes one YAML document per record.
type YAMLWriter struct {
	enc *yaml.Encoder
}

// NewYAMLWriter wraps w.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLWriter{enc: enc}
}

func (w *YAMLWriter) WriteRecord(rec types.TrainingRecord) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding record %s as yaml: %w", rec.ArxivID, err)
	}
	return nil
}

func (w *YAMLWriter) Close() error {
	return w.enc.Close()
}
