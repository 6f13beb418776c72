// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves arXiv identifiers to PDF objects in the public
// arXiv bucket, downloads them, and hands the bytes to a text extractor.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

const (
	// DefaultPathPrefix is the object-name prefix of the PDF mirror.
	DefaultPathPrefix = "arxiv/arxiv/pdf"

	// PDFContentType is the only media type DownloadObject accepts.
	PDFContentType = "application/pdf"

	// maxPresize caps the buffer allocated up front from a declared size.
	maxPresize = 64 << 20
)

// ObjectStore lists and downloads bucket objects.
type ObjectStore interface {
	ListObjects(ctx context.Context, glob string) ([]types.BucketObject, error)
	Download(ctx context.Context, mediaLink string) (io.ReadCloser, error)
}

// TextExtractor converts a PDF document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// Fetcher turns a paper identifier into the plain text of its newest PDF.
type Fetcher struct {
	store  ObjectStore
	text   TextExtractor
	prefix string
}

// NewFetcher returns a fetcher; an empty prefix uses DefaultPathPrefix.
func NewFetcher(store ObjectStore, text TextExtractor, prefix string) *Fetcher {
	if prefix == "" {
		prefix = DefaultPathPrefix
	}
	return &Fetcher{store: store, text: text, prefix: prefix}
}

// GlobPattern builds the listing glob for id, e.g.
// "arxiv/arxiv/pdf/2301/2301.07041**" which matches every version.
func GlobPattern(prefix, id string) (string, error) {
	yymm, _, err := types.SplitIdentifier(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s**", prefix, yymm, id), nil
}

// ResolveObject finds the object for id. The listing is ordered by name,
// so the last object is the latest version.
func (f *Fetcher) ResolveObject(ctx context.Context, id string) (types.BucketObject, error) {
	glob, err := GlobPattern(f.prefix, id)
	if err != nil {
		return types.BucketObject{}, err
	}

	objects, err := f.store.ListObjects(ctx, glob)
	if err != nil {
		return types.BucketObject{}, err
	}
	if len(objects) == 0 {
		return types.BucketObject{}, &types.NoBucketObjectError{ID: id}
	}
	return objects[len(objects)-1], nil
}

// DownloadObject reads the whole object into memory. Objects that are not
// PDFs are rejected before any request is made.
func (f *Fetcher) DownloadObject(ctx context.Context, obj types.BucketObject) ([]byte, error) {
	if obj.ContentType != PDFContentType {
		return nil, &types.ContentTypeError{ObjectID: obj.ID, ContentType: obj.ContentType, Want: PDFContentType}
	}

	body, err := f.store.Download(ctx, obj.MediaLink)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var buf bytes.Buffer
	buf.Grow(int(min(obj.Size, maxPresize)))
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, types.WrapError(types.ErrIO, "reading "+obj.Name, err)
	}
	return buf.Bytes(), nil
}

// FetchText resolves, downloads, and converts the paper identified by id.
func (f *Fetcher) FetchText(ctx context.Context, id string) (string, error) {
	obj, err := f.ResolveObject(ctx, id)
	if err != nil {
		return "", err
	}
	slog.Debug("resolved object", "id", id, "object", obj.Name, "size", obj.Size)

	pdf, err := f.DownloadObject(ctx, obj)
	if err != nil {
		return "", err
	}

	text, err := f.text.ExtractText(ctx, pdf)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(text) {
		return "", types.ErrUTF8
	}
	return text, nil
}
