// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"strings"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// Strategy locates a raw keyword block in a paper's text. Locate reports
// false when the strategy's anchors are absent; Separator splits the block
// into terms.
type Strategy struct {
	Name      string
	Separator string
	Locate    func(text string) (string, bool)
}

// KeywordMatch is a successful keyword extraction and the strategy that produced it.
type KeywordMatch struct {
	Strategy string
	Keywords []string
}

// KeywordExtractor tries an ordered list of strategies and returns the
// terms from the first one that locates a block.
type KeywordExtractor struct {
	strategies []Strategy
}

// NewKeywordExtractor returns an extractor using the header, index-terms,
// and small-label strategies, in that order.
func NewKeywordExtractor() *KeywordExtractor {
	p := DefaultPatterns()
	return NewKeywordExtractorWith(
		HeaderStrategy(p),
		IndexTermsStrategy(p),
		LabelStrategy(p),
	)
}

// NewKeywordExtractorWith returns an extractor over the given strategies.
func NewKeywordExtractorWith(strategies ...Strategy) *KeywordExtractor {
	return &KeywordExtractor{strategies: strategies}
}

// Extract returns the keywords of text in source order, or
// types.ErrNoKeywords when no strategy applies.
func (e *KeywordExtractor) Extract(text string) ([]string, error) {
	m, err := e.Match(text)
	if err != nil {
		return nil, err
	}
	return m.Keywords, nil
}

// Match is Extract that also names the winning strategy.
func (e *KeywordExtractor) Match(text string) (KeywordMatch, error) {
	for _, s := range e.strategies {
		block, ok := s.Locate(text)
		if !ok {
			continue
		}
		return KeywordMatch{Strategy: s.Name, Keywords: splitKeywords(block, s.Separator)}, nil
	}
	return KeywordMatch{}, types.ErrNoKeywords
}

// HeaderStrategy takes the text between a standalone "Keywords" line and
// the next introduction header.
func HeaderStrategy(p *Patterns) Strategy {
	return Strategy{
		Name:      "header",
		Separator: ", ",
		Locate: func(text string) (string, bool) {
			loc := p.KeywordsHeader.FindStringIndex(text)
			if loc == nil {
				return "", false
			}
			return blockBeforeIntroduction(p, text, loc[1])
		},
	}
}

// IndexTermsStrategy is HeaderStrategy anchored on the "Index Terms—" marker.
func IndexTermsStrategy(p *Patterns) Strategy {
	return Strategy{
		Name:      "index-terms",
		Separator: ", ",
		Locate: func(text string) (string, bool) {
			i := strings.Index(text, IndexTermsMarker)
			if i < 0 {
				return "", false
			}
			return blockBeforeIntroduction(p, text, i+len(IndexTermsMarker))
		},
	}
}

// LabelStrategy takes everything after the first inline "keywords:" label
// up to the first blank line. The line break that opens the blank line is
// part of the block.
func LabelStrategy(p *Patterns) Strategy {
	return Strategy{
		Name:      "label",
		Separator: ",",
		Locate: func(text string) (string, bool) {
			loc := p.KeywordLabel.FindStringIndex(text)
			if loc == nil {
				return "", false
			}
			rest := text[loc[1]:]
			if end := strings.Index(rest, "\n\n"); end >= 0 {
				return rest[:end+1], true
			}
			return rest, true
		},
	}
}

func blockBeforeIntroduction(p *Patterns, text string, from int) (string, bool) {
	intro, ok := findFrom(p.Introduction, text, from)
	if !ok {
		return "", false
	}
	return text[from:intro[0]], true
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

func splitKeywords(block, sep string) []string {
	parts := strings.Split(block, sep)
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		keywords = append(keywords, lineBreaks.Replace(strings.TrimSpace(part)))
	}
	return keywords
}
