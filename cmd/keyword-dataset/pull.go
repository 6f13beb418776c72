// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-dataset/internal/export"
	"github.com/pdiddy/keyword-dataset/internal/store"
)

var pullCmd = &cobra.Command{
	Use:   "pull-data",
	Short: "Export extracted papers as training records",
	Long: `Pull-data writes one training record (arxiv_id, content,
abstract_content, keywords) per extracted paper, as NDJSON or a YAML document
stream. Output goes to stdout unless --output names a file; an existing file
is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	f := pullCmd.Flags()
	f.StringP("output", "o", "", "output file (default stdout)")
	f.String("format", "", "output format: ndjson or yaml (default ndjson)")

	bindFlag(keyExportOutput, f.Lookup("output"))
	bindFlag(keyExportFormat, f.Lookup("format"))

	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := pipelineConfig()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	var out io.Writer = cmd.OutOrStdout()
	progress := io.Discard
	if cfg.Export.Output != "" {
		f, err := export.Create(cfg.Export.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
		progress = os.Stderr
	}

	w, err := export.New(cfg.Export.Format, out)
	if err != nil {
		return err
	}

	n, err := export.Export(ctx, s, w, cfg.Export.PageSize, progress)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Export summary: %d records written\n", n)
	return nil
}
