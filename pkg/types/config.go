// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "keyword-dataset/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds the 429 retries per download (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig holds settings for locating and downloading paper PDFs from
// the arXiv object-store bucket.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the base URL of the Cloud Storage JSON API
	// (default "https://storage.googleapis.com/storage/v1/").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Bucket is the bucket holding the PDFs (default "arxiv-dataset").
	Bucket string `json:"bucket" yaml:"bucket"`

	// PathPrefix is the object-name prefix before the yymm directory
	// (default "arxiv/arxiv/pdf").
	PathPrefix string `json:"path_prefix" yaml:"path_prefix"`

	// APIKey is an optional Cloud Storage API key; the bucket is public.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestsPerSecond is the sustained request rate shared by all workers (default 4).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the token-bucket burst size (default 1).
	Burst int `json:"burst" yaml:"burst"`

	Resilience ResilienceConfig `json:"resilience" yaml:"resilience"`
}

// ResilienceConfig tunes the retry and circuit-breaker policy around
// object-store calls. Zero values take the defaults in internal/resilience.
type ResilienceConfig struct {
	RetryMaxAttempts    int           `json:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryInitialBackoff time.Duration `json:"retry_initial_backoff" yaml:"retry_initial_backoff"`
	RetryMaxBackoff     time.Duration `json:"retry_max_backoff" yaml:"retry_max_backoff"`

	// BreakerDisabled turns the circuit breaker off.
	BreakerDisabled     bool          `json:"breaker_disabled" yaml:"breaker_disabled"`
	BreakerMinRequests  uint32        `json:"breaker_min_requests" yaml:"breaker_min_requests"`
	BreakerFailureRatio float64       `json:"breaker_failure_ratio" yaml:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `json:"breaker_open_timeout" yaml:"breaker_open_timeout"`
}

// TextBackend identifies the PDF-to-text tool.
type TextBackend string

const (
	BackendNative    TextBackend = "native"
	BackendContainer TextBackend = "container"
)

// ExtractionConfig holds settings for the extraction orchestrator.
type ExtractionConfig struct {
	// Parallelism is the worker-pool size; 0 uses every available CPU.
	Parallelism int `json:"parallelism" yaml:"parallelism"`

	// PageSize is the number of identifiers per batch in full-corpus mode (default 10).
	PageSize uint64 `json:"page_size" yaml:"page_size"`

	// ItemTimeout bounds a single paper's pipeline; 0 disables the bound.
	ItemTimeout time.Duration `json:"item_timeout" yaml:"item_timeout"`

	// Backend selects the text extractor: native or container.
	Backend TextBackend `json:"backend" yaml:"backend"`

	// ContainerImage is the pdftotext image used by the container backend.
	ContainerImage string `json:"container_image" yaml:"container_image"`
}

// StoreDriver names a database/sql driver supported by the store.
type StoreDriver string

const (
	DriverSQLite   StoreDriver = "sqlite3"
	DriverPostgres StoreDriver = "pgx"
)

// StoreConfig holds settings for the dataset database.
type StoreConfig struct {
	// Driver selects sqlite3 (default) or pgx.
	Driver StoreDriver `json:"driver" yaml:"driver"`

	// DSN is the data source: a file path for sqlite3, a connection URL for pgx.
	DSN string `json:"dsn" yaml:"dsn"`
}

// ExportFormat selects the training-record output format.
type ExportFormat string

const (
	FormatNDJSON ExportFormat = "ndjson"
	FormatYAML   ExportFormat = "yaml"
)

// ExportConfig holds settings for pull-data.
type ExportConfig struct {
	// Output is the destination file; empty writes to stdout.
	Output string `json:"output" yaml:"output"`

	// Format selects ndjson (default) or yaml.
	Format ExportFormat `json:"format" yaml:"format"`

	// PageSize is the number of records read per query (default 10).
	PageSize uint64 `json:"page_size" yaml:"page_size"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is json or text (default text).
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
