// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// DefaultPageSize is the number of records read per query.
const DefaultPageSize = 10

// Source reads training records page by page.
type Source interface {
	CountTrainingRecords(ctx context.Context) (uint64, error)
	SelectTrainingRecords(ctx context.Context, page types.Page) ([]types.TrainingRecord, error)
}

// Export copies every training record in src to w and returns the number
// written. A line per page is written to progress when it is non-nil.
func Export(ctx context.Context, src Source, w RecordWriter, pageSize uint64, progress io.Writer) (int, error) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	total, err := src.CountTrainingRecords(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, page := range types.Pages(total, pageSize) {
		records, err := src.SelectTrainingRecords(ctx, page)
		if err != nil {
			return written, err
		}
		for _, rec := range records {
			if err := w.WriteRecord(rec); err != nil {
				return written, err
			}
			written++
		}
		if progress != nil {
			fmt.Fprintf(progress, "exported: %d/%d\n", written, total)
		}
	}
	return written, w.Close()
}

// Create opens path for writing and refuses to replace an existing file.
func Create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("output file %s already exists", path)
	}
	if err != nil {
		return nil, types.WrapError(types.ErrIO, "creating output file", err)
	}
	return f, nil
}
