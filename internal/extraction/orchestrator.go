// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/keyword-dataset/internal/metrics"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// DefaultPageSize is the batch size of a full-corpus run.
const DefaultPageSize = 10

// Phase names the orchestrator's position in a batch cycle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseSizing      Phase = "sizing"
	PhaseDispatching Phase = "dispatching"
	PhaseCollecting  Phase = "collecting"
	PhasePersisting  Phase = "persisting"
	PhaseDone        Phase = "done"
)

// Run modes, used as the batch metric label.
const (
	modeAll    = "all"
	modeSample = "sample"
)

// ResultWriter records outcomes. Implementations are transaction scoped.
type ResultWriter interface {
	UpsertContent(ctx context.Context, c *types.PaperContent) error
	AppendStatus(ctx context.Context, rec types.StatusRecord) error
}

// Store supplies identifiers and persists each batch atomically.
type Store interface {
	CountIdentifiers(ctx context.Context) (uint64, error)
	SelectIdentifiers(ctx context.Context, page types.Page) ([]string, error)
	SampleIdentifiers(ctx context.Context, n uint64, unprocessedOnly bool) ([]string, error)
	WithinTx(ctx context.Context, fn func(ResultWriter) error) error
}

// Runner produces the outcome for one identifier; *Service is the
// production implementation.
type Runner interface {
	Run(ctx context.Context, id string) types.Outcome
}

// Options tunes an Orchestrator. Zero values take defaults.
type Options struct {
	// PageSize is the full-corpus batch size (default 10).
	PageSize uint64

	// RunID tags every status row written by this orchestrator; a random
	// UUID when empty.
	RunID string

	Metrics *metrics.ExtractionMetrics
	Logger  *slog.Logger

	// Progress receives one line per paper and a run summary.
	Progress io.Writer
}

// Summary counts the outcomes of a run.
type Summary struct {
	Batches   int
	Succeeded int
	Failed    int
	ByKind    map[types.ErrorKind]int
}

// Total returns the number of identifiers processed.
func (s Summary) Total() int { return s.Succeeded + s.Failed }

func (s *Summary) add(o types.Outcome) {
	if s.ByKind == nil {
		s.ByKind = make(map[types.ErrorKind]int)
	}
	s.ByKind[o.Kind()]++
	if o.OK() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Orchestrator drives batches of identifiers through a shared pool and
// writes every outcome to the store. Storage is only touched from the
// goroutine calling RunAll or RunSample.
type Orchestrator struct {
	store    Store
	runner   Runner
	pool     *Pool
	pageSize uint64
	runID    string
	metrics  *metrics.ExtractionMetrics
	logger   *slog.Logger
	progress io.Writer
}

// NewOrchestrator builds an orchestrator over pool. The caller owns the pool.
func NewOrchestrator(store Store, runner Runner, pool *Pool, opts Options) *Orchestrator {
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Orchestrator{
		store:    store,
		runner:   runner,
		pool:     pool,
		pageSize: opts.PageSize,
		runID:    opts.RunID,
		metrics:  opts.Metrics,
		logger:   opts.Logger.With("run_id", opts.RunID),
		progress: opts.Progress,
	}
}

// RunID returns the identifier written to status rows.
func (o *Orchestrator) RunID() string { return o.runID }

// RunAll processes every stored identifier in pages of PageSize. Successes
// update the paper content; failures append a status row.
func (o *Orchestrator) RunAll(ctx context.Context) (Summary, error) {
	var summary Summary

	o.enter(PhaseSizing)
	total, err := o.store.CountIdentifiers(ctx)
	if err != nil {
		return summary, err
	}
	pages := types.Pages(total, o.pageSize)
	o.logger.Info("starting full extraction", "papers", total, "batches", len(pages), "workers", o.pool.Size())

	for i, page := range pages {
		ids, err := o.store.SelectIdentifiers(ctx, page)
		if err != nil {
			return summary, err
		}
		if err := o.batch(ctx, i+1, ids, false, modeAll, &summary); err != nil {
			return summary, err
		}
	}

	o.finish(summary)
	return summary, nil
}

// RunSample processes up to n randomly chosen identifiers, Size() at a
// time. With unprocessedOnly set, identifiers with any status row are
// skipped. Every outcome, success included, appends a status row.
func (o *Orchestrator) RunSample(ctx context.Context, n uint64, unprocessedOnly bool) (Summary, error) {
	var summary Summary

	o.enter(PhaseSizing)
	ids, err := o.store.SampleIdentifiers(ctx, n, unprocessedOnly)
	if err != nil {
		return summary, err
	}
	chunk := o.pool.Size()
	o.logger.Info("starting sampled extraction", "requested", n, "papers", len(ids), "unprocessed_only", unprocessedOnly, "workers", chunk)

	for i, start := 0, 0; start < len(ids); i, start = i+1, start+chunk {
		end := min(start+chunk, len(ids))
		if err := o.batch(ctx, i+1, ids[start:end], true, modeSample, &summary); err != nil {
			return summary, err
		}
	}

	o.finish(summary)
	return summary, nil
}

// RunBatch dispatches one task per identifier and blocks until exactly
// len(ids) outcomes have been received. Outcomes arrive in completion order.
func (o *Orchestrator) RunBatch(ctx context.Context, ids []string) []types.Outcome {
	o.enter(PhaseDispatching)
	results := make(chan types.Outcome, len(ids))
	for _, id := range ids {
		o.pool.Submit(func() {
			o.metrics.StartPaper()
			start := time.Now()
			out := o.runner.Run(ctx, id)
			o.metrics.FinishPaper(out.Kind(), time.Since(start))
			results <- out
		})
	}

	o.enter(PhaseCollecting)
	outcomes := make([]types.Outcome, 0, len(ids))
	for range ids {
		outcomes = append(outcomes, <-results)
	}
	return outcomes
}

func (o *Orchestrator) batch(ctx context.Context, n int, ids []string, recordSuccess bool, mode string, summary *Summary) error {
	if len(ids) == 0 {
		return nil
	}
	outcomes := o.RunBatch(ctx, ids)

	o.enter(PhasePersisting)
	if err := o.persist(ctx, outcomes, recordSuccess); err != nil {
		return fmt.Errorf("persisting batch %d: %w", n, err)
	}

	var batch Summary
	for _, out := range outcomes {
		batch.add(out)
		summary.add(out)
		o.report(out)
	}
	summary.Batches++
	o.metrics.ObserveBatch(mode)
	o.logger.Info("batch persisted", "batch", n, "succeeded", batch.Succeeded, "failed", batch.Failed)
	return nil
}

// persist writes outcomes in receive order inside one transaction.
func (o *Orchestrator) persist(ctx context.Context, outcomes []types.Outcome, recordSuccess bool) error {
	return o.store.WithinTx(ctx, func(w ResultWriter) error {
		for _, out := range outcomes {
			if out.OK() {
				if err := w.UpsertContent(ctx, out.Content); err != nil {
					return err
				}
				if !recordSuccess {
					continue
				}
			}
			if err := w.AppendStatus(ctx, types.StatusFor(o.runID, out)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (o *Orchestrator) report(out types.Outcome) {
	if out.OK() {
		fmt.Fprintf(o.progress, "extracted: %s (%d keywords, %d chars)\n", out.ID, len(out.Content.Keywords), len(out.Content.Body))
		return
	}
	o.logger.Warn("extraction failed", "id", out.ID, "kind", out.Kind(), "error", out.Err.Err)
	fmt.Fprintf(o.progress, "failed:  %s (%s: %v)\n", out.ID, out.Kind(), out.Err.Err)
}

func (o *Orchestrator) finish(s Summary) {
	o.enter(PhaseDone)
	fmt.Fprintf(o.progress, "\nRun summary: %d extracted, %d failed (total: %d)\n", s.Succeeded, s.Failed, s.Total())
}

func (o *Orchestrator) enter(p Phase) {
	o.logger.Debug("phase", "phase", p)
}
