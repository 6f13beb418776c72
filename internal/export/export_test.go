// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

type memorySource struct {
	records []types.TrainingRecord
	err     error
	pages   []types.Page
}

func (s *memorySource) CountTrainingRecords(context.Context) (uint64, error) {
	return uint64(len(s.records)), nil
}

func (s *memorySource) SelectTrainingRecords(_ context.Context, p types.Page) ([]types.TrainingRecord, error) {
	s.pages = append(s.pages, p)
	if s.err != nil {
		return nil, s.err
	}
	end := min(p.Offset+p.Limit, uint64(len(s.records)))
	return s.records[p.Offset:end], nil
}

func records(n int) []types.TrainingRecord {
	out := make([]types.TrainingRecord, n)
	for i := range out {
		out[i] = types.TrainingRecord{
			ArxivID:  "2001.0000" + string(rune('0'+i)),
			Content:  "1 Introduction\n\n<body> & more",
			Abstract: "abstract",
			Keywords: []string{"a", "b"},
		}
	}
	return out
}

func TestNew(t *testing.T) {
	w, err := New("", io.Discard)
	require.NoError(t, err)
	assert.IsType(t, &NDJSONWriter{}, w)

	w, err = New(types.FormatYAML, io.Discard)
	require.NoError(t, err)
	assert.IsType(t, &YAMLWriter{}, w)

	_, err = New("csv", io.Discard)
	assert.Error(t, err)
}

func TestExport_NDJSON(t *testing.T) {
	src := &memorySource{records: records(3)}
	var out, progress bytes.Buffer

	n, err := Export(context.Background(), src, NewNDJSONWriter(&out), 2, &progress)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []types.Page{{Offset: 0, Limit: 2}, {Offset: 2, Limit: 2}}, src.pages)
	assert.Equal(t, "exported: 2/3\nexported: 3/3\n", progress.String())

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"content":"1 Introduction\n\n<body> & more"`)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, "2001.00001", got["arxiv_id"])
	assert.Equal(t, "abstract", got["abstract_content"])
	assert.Equal(t, []any{"a", "b"}, got["keywords"])
}

func TestNDJSONWriter_EmptyKeywords(t *testing.T) {
	var out bytes.Buffer
	w := NewNDJSONWriter(&out)
	require.NoError(t, w.WriteRecord(types.TrainingRecord{ArxivID: "x"}))
	require.NoError(t, w.Close())
	assert.Contains(t, out.String(), `"keywords":[]`)
}

func TestExport_YAML(t *testing.T) {
	var out bytes.Buffer
	n, err := Export(context.Background(), &memorySource{records: records(2)}, NewYAMLWriter(&out), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dec := yaml.NewDecoder(&out)
	var docs []types.TrainingRecord
	for {
		var rec types.TrainingRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else {
			require.NoError(t, err)
		}
		docs = append(docs, rec)
	}
	assert.Equal(t, records(2), docs)
}

func TestExport_SourceError(t *testing.T) {
	boom := errors.New("locked")
	_, err := Export(context.Background(), &memorySource{records: records(1), err: boom}, NewNDJSONWriter(io.Discard), 10, nil)
	assert.ErrorIs(t, err, boom)
}

func TestCreate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Create(path)
	assert.ErrorContains(t, err, "already exists")

	_, err = Create(filepath.Join(t.TempDir(), "missing", "out.ndjson"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
