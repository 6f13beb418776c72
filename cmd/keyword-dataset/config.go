// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/keyword-dataset/internal/export"
	"github.com/pdiddy/keyword-dataset/internal/extraction"
	"github.com/pdiddy/keyword-dataset/internal/fetch"
	"github.com/pdiddy/keyword-dataset/internal/secrets"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

// Viper keys. The config file mirrors types.PipelineConfig's yaml layout.
const (
	keyLogLevel  = "log.level"
	keyLogFormat = "log.format"

	keyStoreDriver = "store.driver"
	keyStoreDSN    = "store.dsn"

	keyFetchEndpoint   = "fetch.endpoint"
	keyFetchBucket     = "fetch.bucket"
	keyFetchPathPrefix = "fetch.path_prefix"
	keyFetchAPIKey     = "fetch.api_key"
	keyFetchTimeout    = "fetch.timeout"
	keyFetchUserAgent  = "fetch.user_agent"
	keyFetchMaxRetries = "fetch.max_retries"
	keyFetchRPS        = "fetch.requests_per_second"
	keyFetchBurst      = "fetch.burst"

	keyRetryMaxAttempts    = "fetch.resilience.retry_max_attempts"
	keyRetryInitialBackoff = "fetch.resilience.retry_initial_backoff"
	keyRetryMaxBackoff     = "fetch.resilience.retry_max_backoff"
	keyBreakerDisabled     = "fetch.resilience.breaker_disabled"
	keyBreakerMinRequests  = "fetch.resilience.breaker_min_requests"
	keyBreakerFailureRatio = "fetch.resilience.breaker_failure_ratio"
	keyBreakerOpenTimeout  = "fetch.resilience.breaker_open_timeout"

	keyParallelism    = "extraction.parallelism"
	keyPageSize       = "extraction.page_size"
	keyItemTimeout    = "extraction.item_timeout"
	keyBackend        = "extraction.backend"
	keyContainerImage = "extraction.container_image"

	keyExportOutput   = "export.output"
	keyExportFormat   = "export.format"
	keyExportPageSize = "export.page_size"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "keyword-dataset/0.1"
)

func setDefaults() {
	viper.SetDefault(keyFetchBucket, fetch.DefaultBucket)
	viper.SetDefault(keyFetchPathPrefix, fetch.DefaultPathPrefix)
	viper.SetDefault(keyFetchTimeout, defaultTimeout)
	viper.SetDefault(keyFetchUserAgent, defaultUserAgent)
	viper.SetDefault(keyFetchMaxRetries, 5)
	viper.SetDefault(keyFetchRPS, fetch.DefaultRequestsPerSecond)
	viper.SetDefault(keyFetchBurst, fetch.DefaultBurst)
	viper.SetDefault(keyPageSize, extraction.DefaultPageSize)
	viper.SetDefault(keyBackend, string(types.BackendNative))
	viper.SetDefault(keyExportFormat, string(types.FormatNDJSON))
	viper.SetDefault(keyExportPageSize, export.DefaultPageSize)
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// pipelineConfig assembles the effective configuration: flags, then
// environment, then config file, then defaults, then .secrets/ for any
// credential still unset.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration(keyFetchTimeout),
				UserAgent:  viper.GetString(keyFetchUserAgent),
				MaxRetries: viper.GetInt(keyFetchMaxRetries),
			},
			Endpoint:          viper.GetString(keyFetchEndpoint),
			Bucket:            viper.GetString(keyFetchBucket),
			PathPrefix:        viper.GetString(keyFetchPathPrefix),
			APIKey:            viper.GetString(keyFetchAPIKey),
			RequestsPerSecond: viper.GetFloat64(keyFetchRPS),
			Burst:             viper.GetInt(keyFetchBurst),
			Resilience: types.ResilienceConfig{
				RetryMaxAttempts:    viper.GetInt(keyRetryMaxAttempts),
				RetryInitialBackoff: viper.GetDuration(keyRetryInitialBackoff),
				RetryMaxBackoff:     viper.GetDuration(keyRetryMaxBackoff),
				BreakerDisabled:     viper.GetBool(keyBreakerDisabled),
				BreakerMinRequests:  viper.GetUint32(keyBreakerMinRequests),
				BreakerFailureRatio: viper.GetFloat64(keyBreakerFailureRatio),
				BreakerOpenTimeout:  viper.GetDuration(keyBreakerOpenTimeout),
			},
		},
		Extraction: types.ExtractionConfig{
			Parallelism:    viper.GetInt(keyParallelism),
			PageSize:       viper.GetUint64(keyPageSize),
			ItemTimeout:    viper.GetDuration(keyItemTimeout),
			Backend:        types.TextBackend(viper.GetString(keyBackend)),
			ContainerImage: viper.GetString(keyContainerImage),
		},
		Store: types.StoreConfig{
			Driver: types.StoreDriver(viper.GetString(keyStoreDriver)),
			DSN:    viper.GetString(keyStoreDSN),
		},
		Export: types.ExportConfig{
			Output:   viper.GetString(keyExportOutput),
			Format:   types.ExportFormat(viper.GetString(keyExportFormat)),
			PageSize: viper.GetUint64(keyExportPageSize),
		},
		Log: types.LogConfig{
			Level:  viper.GetString(keyLogLevel),
			Format: viper.GetString(keyLogFormat),
		},
	}
	secrets.Apply(loadedSecrets, &cfg)
	return cfg
}
