// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the keyword-dataset CLI, which builds a
// keyword/body training dataset from arXiv computer-science papers.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/keyword-dataset/internal/logging"
	"github.com/pdiddy/keyword-dataset/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "keyword-dataset",
	Short: "Build a keyword extraction dataset from arXiv papers",
	Long: `keyword-dataset loads arXiv metadata into a database, downloads each
paper's PDF from the public arXiv bucket, extracts the author keywords and the
body text between Introduction and References, and exports the results as
training records.

Typical workflow: db load, then extract, then pull-data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(logging.New(os.Stderr, viper.GetString(keyLogLevel), viper.GetString(keyLogFormat)))

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

// loadedSecrets holds credentials read from .secrets/ at startup.
var loadedSecrets map[string]string

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./keyword-dataset.yaml or ~/.config/keyword-dataset/keyword-dataset.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("driver", "sqlite3", "database driver: sqlite3 or pgx")
	pf.String("db", "", "database: a file path for sqlite3 or a connection URL for pgx (default arxiv.db)")

	bindFlag(keyLogLevel, pf.Lookup("log-level"))
	bindFlag(keyLogFormat, pf.Lookup("log-format"))
	bindFlag(keyStoreDriver, pf.Lookup("driver"))
	bindFlag(keyStoreDSN, pf.Lookup("db"))
	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("keyword-dataset")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "keyword-dataset"))
		}
	}

	viper.SetEnvPrefix("KEYWORD_DATASET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
