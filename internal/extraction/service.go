// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extraction runs the per-paper pipeline (fetch text, find keywords,
// slice the body) across a fixed worker pool and persists the outcomes.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// TextFetcher turns a paper identifier into its plain text.
type TextFetcher interface {
	FetchText(ctx context.Context, id string) (string, error)
}

// KeywordFinder extracts the author keywords from paper text.
type KeywordFinder interface {
	Extract(text string) ([]string, error)
}

// BodyFinder extracts the body between Introduction and References.
type BodyFinder interface {
	Extract(text string) (string, error)
}

// Service runs the pipeline for one identifier. It is safe for concurrent
// use when its collaborators are.
type Service struct {
	fetcher     TextFetcher
	keywords    KeywordFinder
	body        BodyFinder
	itemTimeout time.Duration
	logger      *slog.Logger
}

// NewService wires the collaborators. itemTimeout bounds one paper's
// pipeline; zero leaves it unbounded.
func NewService(fetcher TextFetcher, keywords KeywordFinder, body BodyFinder, itemTimeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:     fetcher,
		keywords:    keywords,
		body:        body,
		itemTimeout: itemTimeout,
		logger:      logger,
	}
}

// Run fetches id and extracts its keywords and body. The first failing
// stage decides the outcome; content is never partially populated.
func (s *Service) Run(ctx context.Context, id string) (out types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("extraction panicked", "id", id, "panic", r)
			out = types.Failure(id, fmt.Errorf("panic during extraction: %v", r))
		}
	}()

	if s.itemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.itemTimeout)
		defer cancel()
	}

	s.logger.Debug("fetching text", "id", id)
	text, err := s.fetcher.FetchText(ctx, id)
	if err != nil {
		return types.Failure(id, err)
	}

	s.logger.Debug("extracting keywords", "id", id, "chars", len(text))
	keywords, err := s.keywords.Extract(text)
	if err != nil {
		return types.Failure(id, err)
	}

	s.logger.Debug("extracting body", "id", id, "keywords", len(keywords))
	body, err := s.body.Extract(text)
	if err != nil {
		return types.Failure(id, err)
	}

	return types.Success(&types.PaperContent{ID: id, Keywords: keywords, Body: body})
}
