// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-dataset/internal/metadata"
	"github.com/pdiddy/keyword-dataset/internal/store"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Create and inspect the dataset database",
}

// --- load subcommand ---

var dbLoadCmd = &cobra.Command{
	Use:   "load METADATA_FILE",
	Short: "Load computer-science papers from the arXiv metadata snapshot",
	Long: `Load reads the arXiv metadata snapshot (one JSON object per line), keeps
computer-science papers first submitted after 2020-01-01, and inserts them
into the database in one transaction. Papers already present are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runDBLoad,
}

func runDBLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := pipelineConfig()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening metadata file: %w", err)
	}
	defer f.Close()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	var stats metadata.LoadStats
	err = s.WithinTx(ctx, func(q *store.Queries) error {
		stats, err = metadata.Load(ctx, f, metadata.DefaultFilter(), q)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Load summary: %d read, %d selected, %d inserted\n",
		stats.Read, stats.Selected, stats.Inserted)
	return nil
}

// --- stats subcommand ---

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show paper, training-record, and status counts",
	Args:  cobra.NoArgs,
	RunE:  runDBStats,
}

func runDBStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := store.Open(ctx, pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer s.Close()

	return printStats(ctx, s, cmd)
}

func printStats(ctx context.Context, s *store.Store, cmd *cobra.Command) error {
	papers, err := s.CountIdentifiers(ctx)
	if err != nil {
		return err
	}
	records, err := s.CountTrainingRecords(ctx)
	if err != nil {
		return err
	}
	counts, err := s.StatusCounts(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "papers:           %d\n", papers)
	fmt.Fprintf(w, "training records: %d\n", records)

	kinds := make([]types.ErrorKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-16s %d\n", k, counts[k])
	}
	return nil
}

func init() {
	dbCmd.AddCommand(dbLoadCmd, dbStatsCmd)
	rootCmd.AddCommand(dbCmd)
}
