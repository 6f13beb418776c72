//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Dataset groups the pipeline stages. Each stage builds the binary first
// and reads its database from KEYWORD_DATASET_STORE_DSN or the config file.
type Dataset mg.Namespace

// Load inserts computer-science papers from the metadata snapshot at path.
func (Dataset) Load(path string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "db", "load", path)
}

// Extract processes every paper in the database.
func (Dataset) Extract() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "extract")
}

// Sample processes n random papers that have not been processed yet.
func (Dataset) Sample(n string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "extract", "--count", n, "--unique")
}

// Pull exports training records to out, which must not exist yet.
func (Dataset) Pull(out string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "pull-data", "-o", out)
}

// Stats prints paper, training-record, and status counts.
func (Dataset) Stats() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "db", "stats")
}
