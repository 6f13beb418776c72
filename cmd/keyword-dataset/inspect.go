// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-dataset/internal/content"
	"github.com/pdiddy/keyword-dataset/internal/convert"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Show what extraction finds in local PDF or text files",
	Long: `Inspect runs keyword and body extraction on local files without touching
the database or the bucket. PDFs are converted with the configured backend;
any other file is read as UTF-8 text. For each file it prints the keyword
strategy that matched, the keywords, the body span, and the section headers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	text, err := convert.New(cmd.Context(), cfg.Extraction)
	if err != nil {
		return err
	}

	keywords := content.NewKeywordExtractor()
	body := content.NewBodyExtractor()
	w := cmd.OutOrStdout()

	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}

		doc := string(data)
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			doc, err = text.ExtractText(cmd.Context(), data)
			if err != nil {
				fmt.Fprintf(w, "failed:  %s (%s: %v)\n", path, types.KindOf(err), err)
				failed++
				continue
			}
		}
		inspectText(w, path, doc, keywords, body)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be read", failed)
	}
	return nil
}

func inspectText(w io.Writer, path, doc string, keywords *content.KeywordExtractor, body *content.BodyExtractor) {
	fmt.Fprintf(w, "%s (%d chars)\n", path, len(doc))

	if m, err := keywords.Match(doc); err != nil {
		fmt.Fprintf(w, "  keywords: %s\n", types.KindOf(err))
	} else {
		fmt.Fprintf(w, "  keywords (%s): %q\n", m.Strategy, m.Keywords)
	}

	if start, end, err := body.Span(doc); err != nil {
		fmt.Fprintf(w, "  body:     %s (%v)\n", types.KindOf(err), err)
	} else {
		fmt.Fprintf(w, "  body:     [%d:%d] %d chars\n", start, end, end-start)
	}

	for _, h := range content.FindHeaders(doc) {
		fmt.Fprintf(w, "  header @%-7d %-6s %s\n", h.Offset, h.Number, h.Title)
	}
}
