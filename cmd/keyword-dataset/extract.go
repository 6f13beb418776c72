// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-dataset/internal/content"
	"github.com/pdiddy/keyword-dataset/internal/convert"
	"github.com/pdiddy/keyword-dataset/internal/extraction"
	"github.com/pdiddy/keyword-dataset/internal/fetch"
	"github.com/pdiddy/keyword-dataset/internal/metrics"
	"github.com/pdiddy/keyword-dataset/internal/resilience"
	"github.com/pdiddy/keyword-dataset/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Download papers and extract keywords and body text",
	Long: `Extract downloads each paper's PDF from the arXiv bucket, converts it to
text, and extracts the author keywords and the body between Introduction and
References.

Without --count every paper in the database is processed in pages and only
failures are logged to the status table. With --count a random sample is
processed and every outcome is logged; --unique restricts the sample to papers
that have no status row yet.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.Uint64("count", 0, "process a random sample of this many papers (0 processes every paper)")
	f.Bool("unique", false, "sample only papers that have not been processed before")
	f.IntP("parallelism", "j", 0, "number of concurrent workers (default: number of CPUs)")
	f.Uint64("page-size", 0, "papers per batch in full runs (default 10)")
	f.Duration("item-timeout", 0, "time limit for a single paper (0 disables)")
	f.String("backend", "", "PDF text backend: native or container")
	f.String("bucket", "", "bucket holding the PDFs (default arxiv-dataset)")
	f.Float64("rps", 0, "bucket requests per second shared by all workers (default 4)")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address while running (e.g. :9090)")

	bindFlag(keyParallelism, f.Lookup("parallelism"))
	bindFlag(keyItemTimeout, f.Lookup("item-timeout"))
	bindFlag(keyPageSize, f.Lookup("page-size"))
	bindFlag(keyBackend, f.Lookup("backend"))
	bindFlag(keyFetchBucket, f.Lookup("bucket"))
	bindFlag(keyFetchRPS, f.Lookup("rps"))

	rootCmd.AddCommand(extractCmd)
}

// extractionStore adapts store.Store to the orchestrator's transaction
// signature.
type extractionStore struct {
	*store.Store
}

func (s extractionStore) WithinTx(ctx context.Context, fn func(extraction.ResultWriter) error) error {
	return s.Store.WithinTx(ctx, func(q *store.Queries) error { return fn(q) })
}

func runExtract(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetUint64("count")
	unique, _ := cmd.Flags().GetBool("unique")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	if unique && count == 0 {
		return fmt.Errorf("--unique requires --count")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := pipelineConfig()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := convert.New(ctx, cfg.Extraction)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Fetch.Timeout}
	limiter := fetch.NewRateLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	gcs, err := fetch.NewGCSStore(ctx, cfg.Fetch, client, limiter, resilience.NewExecutor(cfg.Fetch.Resilience))
	if err != nil {
		return err
	}
	fetcher := fetch.NewFetcher(gcs, text, cfg.Fetch.PathPrefix)

	svc := extraction.NewService(fetcher, content.NewKeywordExtractor(), content.NewBodyExtractor(), cfg.Extraction.ItemTimeout, slog.Default())

	var m *metrics.ExtractionMetrics
	if metricsAddr != "" {
		m = metrics.New()
		srv := serveMetrics(metricsAddr, m)
		defer shutdown(srv)
	}

	pool := extraction.NewPool(cfg.Extraction.Parallelism)
	defer pool.Close()

	orch := extraction.NewOrchestrator(extractionStore{s}, svc, pool, extraction.Options{
		PageSize: cfg.Extraction.PageSize,
		Metrics:  m,
		Logger:   slog.Default(),
		Progress: cmd.OutOrStdout(),
	})

	var summary extraction.Summary
	if count > 0 {
		summary, err = orch.RunSample(ctx, count, unique)
	} else {
		summary, err = orch.RunAll(ctx)
	}
	if err != nil {
		return err
	}
	slog.Info("extraction finished", "run_id", orch.RunID(), "succeeded", summary.Succeeded, "failed", summary.Failed, "by_kind", summary.ByKind)
	return nil
}

func serveMetrics(addr string, m *metrics.ExtractionMetrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics listener stopped", "addr", addr, "error", err)
		}
	}()
	slog.Info("serving metrics", "addr", addr)
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
