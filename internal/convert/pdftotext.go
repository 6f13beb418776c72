// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/keyword-dataset/internal/container"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// DefaultPdftotextImage ships poppler's pdftotext.
const DefaultPdftotextImage = "minidocks/poppler:latest"

var pdftotextCmd = []string{"pdftotext", "-enc", "UTF-8", "-", "-"}

// ContainerExtractor pipes PDFs through pdftotext in a container.
type ContainerExtractor struct {
	runtime container.Runtime
	image   string
}

// NewContainerExtractor checks that image exists in rt before returning.
func NewContainerExtractor(ctx context.Context, rt container.Runtime, image string) (*ContainerExtractor, error) {
	if image == "" {
		image = DefaultPdftotextImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt, image: image}, nil
}

// ExtractText implements Extractor.
func (c *ContainerExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, pdftotextCmd, bytes.NewReader(data), &out); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", types.WrapError(types.ErrPDF, "pdftotext", err)
	}
	if out.Len() == 0 {
		return "", types.WrapError(types.ErrPDF, "pdftotext", errors.New("empty output"))
	}
	return out.String(), nil
}
