// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// fakeStore serves canned listings and payloads and records every call.
type fakeStore struct {
	objects   map[string][]types.BucketObject
	payloads  map[string][]byte
	listErr   error
	globs     []string
	downloads []string
}

func (f *fakeStore) ListObjects(_ context.Context, glob string) ([]types.BucketObject, error) {
	f.globs = append(f.globs, glob)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects[glob], nil
}

func (f *fakeStore) Download(_ context.Context, mediaLink string) (io.ReadCloser, error) {
	f.downloads = append(f.downloads, mediaLink)
	p, ok := f.payloads[mediaLink]
	if !ok {
		return nil, &types.HTTPStatusError{Code: 404}
	}
	return io.NopCloser(bytes.NewReader(p)), nil
}

// echoText returns the PDF bytes unchanged as text.
type echoText struct{ err error }

func (e echoText) ExtractText(_ context.Context, pdf []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return string(pdf), nil
}

func pdfObject(name, link string) types.BucketObject {
	return types.BucketObject{ID: name, Name: name, MediaLink: link, ContentType: PDFContentType, Size: 16}
}

func TestGlobPattern(t *testing.T) {
	got, err := GlobPattern(DefaultPathPrefix, "2301.07041")
	require.NoError(t, err)
	assert.Equal(t, "arxiv/arxiv/pdf/2301/2301.07041**", got)

	_, err = GlobPattern(DefaultPathPrefix, "2301-07041")
	assert.ErrorIs(t, err, types.ErrMalformedIdentifier)
}

func TestResolveObject_MalformedIdentifierMakesNoCalls(t *testing.T) {
	store := &fakeStore{}
	f := NewFetcher(store, echoText{}, "")

	for _, id := range []string{"230107041", "2301.070.41", ""} {
		_, err := f.ResolveObject(context.Background(), id)
		assert.ErrorIs(t, err, types.ErrMalformedIdentifier, id)
	}
	assert.Empty(t, store.globs)
	assert.Empty(t, store.downloads)
}

func TestResolveObject_PicksLastListed(t *testing.T) {
	glob := "arxiv/arxiv/pdf/2301/2301.07041**"
	store := &fakeStore{objects: map[string][]types.BucketObject{
		glob: {
			pdfObject("2301.07041v1.pdf", "v1"),
			pdfObject("2301.07041v2.pdf", "v2"),
			pdfObject("2301.07041v3.pdf", "v3"),
		},
	}}
	f := NewFetcher(store, echoText{}, "")

	obj, err := f.ResolveObject(context.Background(), "2301.07041")
	require.NoError(t, err)
	assert.Equal(t, "v3", obj.MediaLink)
	assert.Equal(t, []string{glob}, store.globs)
}

func TestResolveObject_NoObject(t *testing.T) {
	f := NewFetcher(&fakeStore{}, echoText{}, "")

	_, err := f.ResolveObject(context.Background(), "2301.00001")
	var noObj *types.NoBucketObjectError
	require.ErrorAs(t, err, &noObj)
	assert.Equal(t, "2301.00001", noObj.ID)
	assert.Equal(t, types.KindNoBucketObject, types.KindOf(err))
}

func TestDownloadObject_RejectsNonPDF(t *testing.T) {
	store := &fakeStore{}
	f := NewFetcher(store, echoText{}, "")

	obj := pdfObject("x", "link")
	obj.ContentType = "application/gzip"
	_, err := f.DownloadObject(context.Background(), obj)

	var ct *types.ContentTypeError
	require.ErrorAs(t, err, &ct)
	assert.Equal(t, "application/gzip", ct.ContentType)
	assert.Empty(t, store.downloads)
}

func TestDownloadObject_ReadsPayload(t *testing.T) {
	store := &fakeStore{payloads: map[string][]byte{"link": []byte("%PDF-1.5 payload")}}
	f := NewFetcher(store, echoText{}, "")

	got, err := f.DownloadObject(context.Background(), pdfObject("x", "link"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5 payload", string(got))
}

func TestDownloadObject_HTTPStatus(t *testing.T) {
	f := NewFetcher(&fakeStore{}, echoText{}, "")

	_, err := f.DownloadObject(context.Background(), pdfObject("x", "missing"))
	assert.Equal(t, types.KindHTTPStatus, types.KindOf(err))
}

func TestFetchText(t *testing.T) {
	glob := "custom/2105/2105.00002**"
	newStore := func(payload []byte) *fakeStore {
		return &fakeStore{
			objects:  map[string][]types.BucketObject{glob: {pdfObject("2105.00002v1.pdf", "l1")}},
			payloads: map[string][]byte{"l1": payload},
		}
	}

	t.Run("success", func(t *testing.T) {
		f := NewFetcher(newStore([]byte("Keywords: a, b")), echoText{}, "custom")
		text, err := f.FetchText(context.Background(), "2105.00002")
		require.NoError(t, err)
		assert.Equal(t, "Keywords: a, b", text)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		f := NewFetcher(newStore([]byte{0xff, 0xfe, 'a'}), echoText{}, "custom")
		_, err := f.FetchText(context.Background(), "2105.00002")
		assert.ErrorIs(t, err, types.ErrUTF8)
	})

	t.Run("extractor failure propagates unchanged", func(t *testing.T) {
		pdfErr := types.WrapError(types.ErrPDF, "parsing", errors.New("broken xref"))
		f := NewFetcher(newStore([]byte("x")), echoText{err: pdfErr}, "custom")
		_, err := f.FetchText(context.Background(), "2105.00002")
		assert.Equal(t, pdfErr, err)
	})

	t.Run("listing failure", func(t *testing.T) {
		store := newStore(nil)
		store.listErr = types.ErrNetwork
		f := NewFetcher(store, echoText{}, "custom")
		_, err := f.FetchText(context.Background(), "2105.00002")
		assert.ErrorIs(t, err, types.ErrNetwork)
	})
}
