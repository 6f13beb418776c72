// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// PDFExtractor reads text in-process, page by page. Pages are joined by a
// blank line so that page breaks look like section breaks to the
// extraction patterns.
type PDFExtractor struct{}

// ExtractText implements Extractor. The reader panics on some malformed
// documents; those panics are returned as errors.
func (PDFExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.WrapError(types.ErrPDF, "reading pdf", fmt.Errorf("%v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", types.WrapError(types.ErrPDF, "opening pdf", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", types.WrapError(types.ErrPDF, fmt.Sprintf("reading page %d", i), err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(content)
	}
	return b.String(), nil
}
