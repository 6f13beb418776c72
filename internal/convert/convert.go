// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns PDF bytes into plain text with pluggable backends.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/keyword-dataset/internal/container"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// Extractor converts a PDF document into plain text. Failures wrap types.ErrPDF.
type Extractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// New returns the extractor selected by cfg.Backend; empty means native.
// The container backend needs a working docker or podman and the image.
func New(ctx context.Context, cfg types.ExtractionConfig) (Extractor, error) {
	switch cfg.Backend {
	case "", types.BackendNative:
		return PDFExtractor{}, nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewContainerExtractor(ctx, rt, cfg.ContainerImage)
	default:
		return nil, fmt.Errorf("unknown text backend %q (want %s or %s)", cfg.Backend, types.BackendNative, types.BackendContainer)
	}
}
