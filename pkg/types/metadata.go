// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// VersionTimeLayout is the timestamp form used by the metadata snapshot,
// e.g. "Mon, 2 Apr 2007 19:18:42 GMT".
const VersionTimeLayout = "Mon, 2 Jan 2006 15:04:05 MST"

// ArxivVersion is one submitted version of a paper.
type ArxivVersion struct {
	Version string `json:"version" yaml:"version"`
	Created string `json:"created" yaml:"created"`
}

// CreatedAt parses Created.
func (v ArxivVersion) CreatedAt() (time.Time, error) {
	return time.Parse(VersionTimeLayout, v.Created)
}

// ArxivMetadata is one record of the arXiv metadata snapshot. Every field
// except Versions may be absent.
type ArxivMetadata struct {
	ID         *string        `json:"id" yaml:"id"`
	Submitter  *string        `json:"submitter" yaml:"submitter"`
	Authors    *string        `json:"authors" yaml:"authors"`
	Title      *string        `json:"title" yaml:"title"`
	Comments   *string        `json:"comments" yaml:"comments"`
	JournalRef *string        `json:"journal-ref" yaml:"journal-ref"`
	DOI        *string        `json:"doi" yaml:"doi"`
	Categories *string        `json:"categories" yaml:"categories"`
	Abstract   *string        `json:"abstract" yaml:"abstract"`
	Versions   []ArxivVersion `json:"versions" yaml:"versions"`
}
