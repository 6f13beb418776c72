// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content locates the keywords and body of a paper in its plain
// text using section-header heuristics.
package content

import "regexp"

// IndexTermsMarker is the IEEE-style inline keyword marker.
const IndexTermsMarker = "Index Terms—"

// Patterns holds the compiled section-header expressions. A Patterns value
// is immutable and safe for concurrent use; the package compiles one set at
// init and every extractor shares it.
type Patterns struct {
	// Introduction matches an introduction header line at the start of a
	// line, with an optional numeric or roman prefix ("1", "1.", "I.", "IV"),
	// terminated by a blank line.
	Introduction *regexp.Regexp

	// References matches a blank-line-delimited line that is exactly "references".
	References *regexp.Regexp

	// ReferencesPermissive also accepts a prefix on the same line, as in "7. References".
	ReferencesPermissive *regexp.Regexp

	// KeywordsHeader matches a blank-line-delimited "keywords" line.
	KeywordsHeader *regexp.Regexp

	// KeywordLabel matches an inline "keyword" or "keywords" label with an optional colon.
	KeywordLabel *regexp.Regexp

	// Header matches any short blank-line-delimited line with an optional
	// section number. Used for diagnostics only.
	Header *regexp.Regexp
}

var defaultPatterns = &Patterns{
	Introduction:         regexp.MustCompile(`(?im)^[ \t]*(?:[\divx.]+[ \t]*)?introduction[ \t]*\n\n`),
	References:           regexp.MustCompile(`(?i)\n\nreferences[ \t]*\n\n`),
	ReferencesPermissive: regexp.MustCompile(`(?i)\n\n?[^\n]+references[ \t]*\n\n`),
	KeywordsHeader:       regexp.MustCompile(`(?i)\n\n[ \t]*keywords[ \t]*\n\n`),
	KeywordLabel:         regexp.MustCompile(`(?i)keywords?:?`),
	Header:               regexp.MustCompile(`\n\n([\d.]*)[ \t]*([^\n]+)\n\n`),
}

// DefaultPatterns returns the shared compiled pattern set.
func DefaultPatterns() *Patterns {
	return defaultPatterns
}

// findFrom returns the [start, end) of the first match of re in text at or
// after offset, in text coordinates.
func findFrom(re *regexp.Regexp, text string, offset int) ([]int, bool) {
	if offset > len(text) {
		return nil, false
	}
	loc := re.FindStringIndex(text[offset:])
	if loc == nil {
		return nil, false
	}
	return []int{loc[0] + offset, loc[1] + offset}, true
}
