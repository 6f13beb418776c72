// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

const snapshot = `{"id":"2001.00001","categories":"cs.LG stat.ML","abstract":"a","versions":[{"version":"v1","created":"Thu, 2 Jan 2020 10:00:00 GMT"}]}

{"id":"1912.00002","categories":"cs.CL","versions":[{"version":"v1","created":"Mon, 30 Dec 2019 10:00:00 GMT"},{"version":"v2","created":"Fri, 3 Jan 2020 10:00:00 GMT"}]}
{"id":"2001.00003","categories":"math.CO","versions":[{"version":"v1","created":"Thu, 2 Jan 2020 10:00:00 GMT"}]}
{"id":"2001.00004","categories":"physics.comp-ph cs.NE","journal-ref":"J. Phys. 1","versions":[{"version":"v1","created":"Wed, 1 Jan 2020 07:00:00 GMT"}]}
`

type recordingSink struct {
	seen map[string]bool
	ids  []string
	err  error
}

func (s *recordingSink) InsertMetadata(_ context.Context, m *types.ArxivMetadata) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[*m.ID] {
		return false, nil
	}
	s.seen[*m.ID] = true
	s.ids = append(s.ids, *m.ID)
	return true, nil
}

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader(snapshot))

	var ids []string
	for {
		m, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, *m.ID)
	}
	assert.Equal(t, []string{"2001.00001", "1912.00002", "2001.00003", "2001.00004"}, ids)
}

func TestReader_DecodeError(t *testing.T) {
	r := NewReader(strings.NewReader("{\"id\":\"2001.00001\"}\n{not json}\n"))
	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.Equal(t, types.KindJSON, types.KindOf(err))
	assert.Contains(t, err.Error(), "line 2")
}

func TestFilter(t *testing.T) {
	created := func(s string) []types.ArxivVersion {
		return []types.ArxivVersion{{Version: "v1", Created: s}}
	}
	id := "2001.00001"
	cs := "cs.AI"

	tests := []struct {
		name string
		m    types.ArxivMetadata
		want bool
	}{
		{"cs after cutoff", types.ArxivMetadata{ID: &id, Categories: &cs, Versions: created("Wed, 1 Jan 2020 06:00:01 GMT")}, true},
		{"exactly at cutoff", types.ArxivMetadata{ID: &id, Categories: &cs, Versions: created("Wed, 1 Jan 2020 06:00:00 GMT")}, false},
		{"no versions", types.ArxivMetadata{ID: &id, Categories: &cs}, false},
		{"bad date", types.ArxivMetadata{ID: &id, Categories: &cs, Versions: created("2020-01-02")}, false},
		{"no categories", types.ArxivMetadata{ID: &id, Versions: created("Thu, 2 Jan 2020 10:00:00 GMT")}, false},
		{"no id", types.ArxivMetadata{Categories: &cs, Versions: created("Thu, 2 Jan 2020 10:00:00 GMT")}, false},
	}
	f := DefaultFilter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Keep(&tt.m))
		})
	}
}

func TestIsComputerScience(t *testing.T) {
	for cats, want := range map[string]bool{
		"cs.LG":             true,
		"stat.ML cs.CV":     true,
		"cs":                false,
		"cs.LGX":            false,
		"physics.comp-ph":   false,
		"econ.EM  q-fin.CP": false,
	} {
		c := cats
		assert.Equal(t, want, IsComputerScience(&types.ArxivMetadata{Categories: &c}), cats)
	}
}

func TestLoad(t *testing.T) {
	sink := &recordingSink{}
	stats, err := Load(context.Background(), strings.NewReader(snapshot+snapshot), DefaultFilter(), sink)
	require.NoError(t, err)

	assert.Equal(t, LoadStats{Read: 8, Selected: 4, Inserted: 2}, stats)
	assert.Equal(t, []string{"2001.00001", "2001.00004"}, sink.ids)
}

func TestLoad_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	_, err := Load(context.Background(), strings.NewReader(snapshot), DefaultFilter(), &recordingSink{err: boom})
	assert.ErrorIs(t, err, boom)
}
