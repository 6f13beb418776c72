// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// SplitIdentifier splits an arXiv identifier such as "2301.07041" into its
// year-month and sequence parts. Any identifier that does not split into
// exactly two dot-separated parts is malformed.
func SplitIdentifier(id string) (yymm, seq string, err error) {
	parts := strings.Split(id, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	return parts[0], parts[1], nil
}

// PaperContent is the result of a successful extraction. Keywords keep
// their source order and may contain empty entries.
type PaperContent struct {
	ID       string   `json:"id" yaml:"id"`
	Abstract string   `json:"abstract" yaml:"abstract"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Body     string   `json:"body" yaml:"body"`
}

// Outcome is the per-identifier result of the extraction pipeline. Exactly
// one of Content and Err is set.
type Outcome struct {
	ID      string
	Content *PaperContent
	Err     *ExtractionError
}

// Success builds an outcome carrying content.
func Success(c *PaperContent) Outcome {
	return Outcome{ID: c.ID, Content: c}
}

// Failure builds an outcome carrying the error for id.
func Failure(id string, err error) Outcome {
	return Outcome{ID: id, Err: &ExtractionError{ID: id, Err: err}}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.Err == nil }

// Kind returns KindOK for successes and the failure's kind otherwise.
func (o Outcome) Kind() ErrorKind {
	if o.Err == nil {
		return KindOK
	}
	return o.Err.Kind()
}

// StatusRecord is one append-only audit row per processed identifier per run.
type StatusRecord struct {
	PaperID string
	RunID   string
	Code    ErrorKind
	Message string
}

// StatusFor derives the status row recorded for an outcome.
func StatusFor(runID string, o Outcome) StatusRecord {
	rec := StatusRecord{PaperID: o.ID, RunID: runID, Code: o.Kind()}
	if o.Err != nil {
		rec.Message = o.Err.Err.Error()
	}
	return rec
}

// BucketObject describes a stored object as reported by a bucket listing.
type BucketObject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MediaLink   string `json:"mediaLink"`
	ContentType string `json:"contentType"`
	Size        uint64 `json:"size,string"`
}

// TrainingRecord is one exported row of the dataset.
type TrainingRecord struct {
	ArxivID  string   `json:"arxiv_id" yaml:"arxiv_id"`
	Content  string   `json:"content" yaml:"content"`
	Abstract string   `json:"abstract_content" yaml:"abstract_content"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ParseKeywords splits a stored comma-joined keyword column back into terms.
func ParseKeywords(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.Trim(strings.TrimSpace(p), "\n"))
	}
	return out
}

// JoinKeywords is the inverse of ParseKeywords for storage.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}
