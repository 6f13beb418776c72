// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed file
// contents are the value.
//
// Recognised keys: gcs-api-key, database-dsn.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

const (
	KeyGCSAPIKey   = "gcs-api-key"
	KeyDatabaseDSN = "database-dsn"
)

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error. Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply copies recognised secrets into cfg. Values already set by flags,
// environment, or config file win.
func Apply(secrets map[string]string, cfg *types.PipelineConfig) {
	if v, ok := secrets[KeyGCSAPIKey]; ok && cfg.Fetch.APIKey == "" {
		cfg.Fetch.APIKey = v
	}
	if v, ok := secrets[KeyDatabaseDSN]; ok && cfg.Store.DSN == "" {
		cfg.Store.DSN = v
	}
}
