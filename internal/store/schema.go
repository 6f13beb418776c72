// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// dialect captures the few places SQLite and PostgreSQL differ.
type dialect struct {
	name       string
	serialPK   string
	timestamp  string
	positional bool
}

var (
	sqliteDialect = dialect{
		name:      "sqlite",
		serialPK:  "INTEGER PRIMARY KEY AUTOINCREMENT",
		timestamp: "TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP",
	}
	postgresDialect = dialect{
		name:       "postgres",
		serialPK:   "BIGSERIAL PRIMARY KEY",
		timestamp:  "TIMESTAMPTZ NOT NULL DEFAULT now()",
		positional: true,
	}
)

func dialectFor(driver types.StoreDriver) dialect {
	if driver == types.DriverPostgres {
		return postgresDialect
	}
	return sqliteDialect
}

func (d dialect) schema() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS arxiv_metadata (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			submitter TEXT,
			authors TEXT,
			title TEXT,
			comments TEXT,
			journal_ref TEXT,
			doi TEXT,
			categories TEXT
		)`, d.serialPK),
		`CREATE TABLE IF NOT EXISTS arxiv_version (
			arxiv_id TEXT NOT NULL REFERENCES arxiv_metadata(id),
			version TEXT NOT NULL,
			created TEXT,
			PRIMARY KEY (arxiv_id, version)
		)`,
		`CREATE TABLE IF NOT EXISTS paper_data (
			arxiv_id TEXT PRIMARY KEY,
			abstract TEXT NOT NULL DEFAULT '',
			keywords TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT ''
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS extraction_result (
			attempt %s,
			arxiv_id TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			status_code TEXT NOT NULL,
			status_msg TEXT,
			created_at %s
		)`, d.serialPK, d.timestamp),
		`CREATE INDEX IF NOT EXISTS idx_extraction_result_arxiv_id ON extraction_result(arxiv_id)`,
	}
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL. Queries in
// this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
