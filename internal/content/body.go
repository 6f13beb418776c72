// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import "github.com/pdiddy/keyword-dataset/pkg/types"

const (
	SectionIntroduction = "INTRODUCTION"
	SectionReferences   = "REFERENCES"
)

// BodyExtractor returns the span of a paper from its introduction header
// up to its references header.
type BodyExtractor struct {
	patterns *Patterns
}

// NewBodyExtractor returns an extractor over the shared pattern set.
func NewBodyExtractor() *BodyExtractor {
	return &BodyExtractor{patterns: DefaultPatterns()}
}

// Extract returns text[start:end) where start is the first introduction
// header and end is the first references header at or after start.
func (e *BodyExtractor) Extract(text string) (string, error) {
	start, end, err := e.Span(text)
	if err != nil {
		return "", err
	}
	return text[start:end], nil
}

// Span returns the byte offsets Extract slices by.
func (e *BodyExtractor) Span(text string) (int, int, error) {
	intro := e.patterns.Introduction.FindStringIndex(text)
	if intro == nil {
		return 0, 0, &types.MissingSectionError{Section: SectionIntroduction}
	}
	start := intro[0]

	// A references line in a table of contents can precede the
	// introduction, so the search starts at the introduction.
	refs, ok := findFrom(e.patterns.References, text, start)
	if !ok {
		refs, ok = findFrom(e.patterns.ReferencesPermissive, text, start)
	}
	if !ok {
		return 0, 0, &types.MissingSectionError{Section: SectionReferences}
	}
	return start, refs[0], nil
}
