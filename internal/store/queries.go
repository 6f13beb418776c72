// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries implements every read and write against one connection or transaction.
type Queries struct {
	q       dbtx
	dialect dialect
}

func (q *Queries) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	res, err := q.q.ExecContext(ctx, q.dialect.rebind(query), args...)
	if err != nil {
		return nil, types.WrapError(types.ErrDB, op, err)
	}
	return res, nil
}

func (q *Queries) count(ctx context.Context, op, query string) (uint64, error) {
	var n int64
	if err := q.q.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, types.WrapError(types.ErrDB, op, err)
	}
	return uint64(n), nil
}

func (q *Queries) ids(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := q.q.QueryContext(ctx, q.dialect.rebind(query), args...)
	if err != nil {
		return nil, types.WrapError(types.ErrDB, op, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, types.WrapError(types.ErrDB, op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDB, op, err)
	}
	return ids, nil
}

// CountIdentifiers returns the number of papers in the metadata table.
func (q *Queries) CountIdentifiers(ctx context.Context) (uint64, error) {
	return q.count(ctx, "counting identifiers", `SELECT COUNT(*) FROM arxiv_metadata`)
}

// SelectIdentifiers returns one page of identifiers in insertion order.
func (q *Queries) SelectIdentifiers(ctx context.Context, page types.Page) ([]string, error) {
	return q.ids(ctx, "selecting identifiers",
		`SELECT id FROM arxiv_metadata ORDER BY seq LIMIT ? OFFSET ?`,
		int64(page.Limit), int64(page.Offset))
}

// SampleIdentifiers returns up to n random identifiers. With
// unprocessedOnly set, identifiers that already have a status row are excluded.
func (q *Queries) SampleIdentifiers(ctx context.Context, n uint64, unprocessedOnly bool) ([]string, error) {
	query := `SELECT id FROM arxiv_metadata ORDER BY random() LIMIT ?`
	if unprocessedOnly {
		query = `SELECT m.id FROM arxiv_metadata m
			WHERE NOT EXISTS (SELECT 1 FROM extraction_result r WHERE r.arxiv_id = m.id)
			ORDER BY random() LIMIT ?`
	}
	return q.ids(ctx, "sampling identifiers", query, int64(n))
}

// UpsertContent stores keywords and body for c.ID. An existing abstract is kept.
func (q *Queries) UpsertContent(ctx context.Context, c *types.PaperContent) error {
	_, err := q.exec(ctx, "upserting content for "+c.ID,
		`INSERT INTO paper_data (arxiv_id, abstract, keywords, content) VALUES (?, ?, ?, ?)
		ON CONFLICT (arxiv_id) DO UPDATE SET keywords = excluded.keywords, content = excluded.content`,
		c.ID, c.Abstract, types.JoinKeywords(c.Keywords), c.Body)
	return err
}

// AppendStatus adds one row to the extraction log. Rows are never replaced.
func (q *Queries) AppendStatus(ctx context.Context, rec types.StatusRecord) error {
	msg := sql.NullString{String: rec.Message, Valid: rec.Message != ""}
	_, err := q.exec(ctx, "appending status for "+rec.PaperID,
		`INSERT INTO extraction_result (arxiv_id, run_id, status_code, status_msg) VALUES (?, ?, ?, ?)`,
		rec.PaperID, rec.RunID, string(rec.Code), msg)
	return err
}

// StatusCounts returns the number of status rows per code.
func (q *Queries) StatusCounts(ctx context.Context) (map[types.ErrorKind]uint64, error) {
	rows, err := q.q.QueryContext(ctx, `SELECT status_code, COUNT(*) FROM extraction_result GROUP BY status_code`)
	if err != nil {
		return nil, types.WrapError(types.ErrDB, "counting statuses", err)
	}
	defer rows.Close()

	counts := make(map[types.ErrorKind]uint64)
	for rows.Next() {
		var (
			code string
			n    int64
		)
		if err := rows.Scan(&code, &n); err != nil {
			return nil, types.WrapError(types.ErrDB, "counting statuses", err)
		}
		counts[types.ErrorKind(code)] = uint64(n)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDB, "counting statuses", err)
	}
	return counts, nil
}

// InsertMetadata stores a metadata record, its versions, and a paper_data
// row seeded with the abstract. It reports false when the identifier was
// already present.
func (q *Queries) InsertMetadata(ctx context.Context, m *types.ArxivMetadata) (bool, error) {
	if m.ID == nil || *m.ID == "" {
		return false, types.WrapError(types.ErrDB, "inserting metadata", types.ErrMalformedIdentifier)
	}
	id := *m.ID

	res, err := q.exec(ctx, "inserting metadata for "+id,
		`INSERT INTO arxiv_metadata (id, submitter, authors, title, comments, journal_ref, doi, categories)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		id, m.Submitter, m.Authors, m.Title, m.Comments, m.JournalRef, m.DOI, m.Categories)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, nil
	}

	for _, v := range m.Versions {
		if _, err := q.exec(ctx, "inserting version for "+id,
			`INSERT INTO arxiv_version (arxiv_id, version, created) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			id, v.Version, v.Created); err != nil {
			return false, err
		}
	}

	abstract := ""
	if m.Abstract != nil {
		abstract = *m.Abstract
	}
	_, err = q.exec(ctx, "seeding content for "+id,
		`INSERT INTO paper_data (arxiv_id, abstract) VALUES (?, ?)
		ON CONFLICT (arxiv_id) DO UPDATE SET abstract = excluded.abstract`,
		id, abstract)
	return err == nil, err
}

// CountTrainingRecords returns the number of papers with extracted content.
func (q *Queries) CountTrainingRecords(ctx context.Context) (uint64, error) {
	return q.count(ctx, "counting training records", `SELECT COUNT(*) FROM paper_data WHERE content <> ''`)
}

// SelectTrainingRecords returns one page of papers with extracted content.
func (q *Queries) SelectTrainingRecords(ctx context.Context, page types.Page) ([]types.TrainingRecord, error) {
	rows, err := q.q.QueryContext(ctx, q.dialect.rebind(
		`SELECT arxiv_id, abstract, keywords, content FROM paper_data
		WHERE content <> '' ORDER BY arxiv_id LIMIT ? OFFSET ?`),
		int64(page.Limit), int64(page.Offset))
	if err != nil {
		return nil, types.WrapError(types.ErrDB, "selecting training records", err)
	}
	defer rows.Close()

	var records []types.TrainingRecord
	for rows.Next() {
		var (
			rec      types.TrainingRecord
			keywords string
		)
		if err := rows.Scan(&rec.ArxivID, &rec.Abstract, &keywords, &rec.Content); err != nil {
			return nil, types.WrapError(types.ErrDB, "selecting training records", err)
		}
		rec.Keywords = types.ParseKeywords(keywords)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDB, "selecting training records", err)
	}
	return records, nil
}
