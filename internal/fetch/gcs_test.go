// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-dataset/internal/httputil"
	"github.com/pdiddy/keyword-dataset/internal/resilience"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func newTestStore(t *testing.T, ts *httptest.Server) *GCSStore {
	t.Helper()
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "keyword-dataset-test", MaxRetries: 2},
		Endpoint:   ts.URL + "/storage/v1/",
	}
	exec := resilience.NewExecutor(types.ResilienceConfig{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		BreakerDisabled:     true,
	})
	store, err := NewGCSStore(context.Background(), cfg, ts.Client(), NewRateLimiter(1000, 10), exec)
	require.NoError(t, err)
	return store
}

func TestGCSStore_ListObjects(t *testing.T) {
	var globs []string
	mux := http.NewServeMux()
	mux.HandleFunc("/storage/v1/b/arxiv-dataset/o", func(w http.ResponseWriter, r *http.Request) {
		globs = append(globs, r.URL.Query().Get("matchGlob"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"nextPageToken":"p2","items":[
				{"id":"a/1","name":"arxiv/arxiv/pdf/2301/2301.07041v1.pdf","mediaLink":"http://x/v1","contentType":"application/pdf","size":"2048"}]}`)
			return
		}
		fmt.Fprint(w, `{"items":[
			{"id":"a/2","name":"arxiv/arxiv/pdf/2301/2301.07041v2.pdf","mediaLink":"http://x/v2","contentType":"application/pdf","size":"4096"}]}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestStore(t, ts)
	objects, err := store.ListObjects(context.Background(), "arxiv/arxiv/pdf/2301/2301.07041**")
	require.NoError(t, err)

	require.Len(t, objects, 2)
	assert.Equal(t, "http://x/v2", objects[1].MediaLink)
	assert.Equal(t, uint64(4096), objects[1].Size)
	assert.Equal(t, PDFContentType, objects[0].ContentType)
	assert.Equal(t, []string{"arxiv/arxiv/pdf/2301/2301.07041**", "arxiv/arxiv/pdf/2301/2301.07041**"}, globs)
}

func TestGCSStore_ListObjectsRetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer ts.Close()

	objects, err := newTestStore(t, ts).ListObjects(context.Background(), "g**")
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGCSStore_ListObjectsClientError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"denied"}}`)
	}))
	defer ts.Close()

	_, err := newTestStore(t, ts).ListObjects(context.Background(), "g**")
	var status *types.HTTPStatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusForbidden, status.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGCSStore_Download(t *testing.T) {
	var gotUA string
	mux := http.NewServeMux()
	mux.HandleFunc("/download/ok.pdf", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", PDFContentType)
		fmt.Fprint(w, "%PDF-1.4")
	})
	mux.HandleFunc("/download/gone.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestStore(t, ts)

	body, err := store.Download(context.Background(), ts.URL+"/download/ok.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, "keyword-dataset-test", gotUA)

	_, err = store.Download(context.Background(), ts.URL+"/download/gone.pdf")
	var status *types.HTTPStatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusNotFound, status.Code)
	assert.Equal(t, types.KindHTTPStatus, types.KindOf(err))
}

func TestGCSStore_DownloadNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	store := newTestStore(t, ts)
	ts.Close()

	_, err := store.Download(context.Background(), ts.URL+"/download/x.pdf")
	require.Error(t, err)
	assert.Equal(t, types.KindNetwork, types.KindOf(err))
}

func TestRateLimiter_Backoff(t *testing.T) {
	l := NewRateLimiter(1000, 1)
	require.True(t, l.Allow())

	l.RecordRateLimit(40 * time.Millisecond)
	l.RecordRateLimit(time.Millisecond)
	assert.False(t, l.Allow())

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	l := NewRateLimiter(0, 0)
	l.RecordRateLimit(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}
