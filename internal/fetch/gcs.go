// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/pdiddy/keyword-dataset/internal/httputil"
	"github.com/pdiddy/keyword-dataset/internal/resilience"
	"github.com/pdiddy/keyword-dataset/pkg/types"
)

const (
	// DefaultBucket holds the arXiv PDF mirror.
	DefaultBucket = "arxiv-dataset"

	opList     = "gcs.list"
	opDownload = "gcs.download"
)

// GCSStore lists and downloads objects of one Cloud Storage bucket through
// the JSON API. Every request waits on the shared rate limiter and runs
// under the resilience executor.
type GCSStore struct {
	svc        *storage.Service
	bucket     string
	client     *http.Client
	userAgent  string
	maxRetries int
	limiter    *RateLimiter
	exec       *resilience.Executor
}

// NewGCSStore builds a store for cfg.Bucket. client is used for listing
// (unless cfg.APIKey is set) and for downloads.
func NewGCSStore(ctx context.Context, cfg types.FetchConfig, client *http.Client, limiter *RateLimiter, exec *resilience.Executor) (*GCSStore, error) {
	opts := []option.ClientOption{option.WithUserAgent(cfg.UserAgent)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		opts = append(opts, option.WithHTTPClient(client))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage service: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}

	return &GCSStore{
		svc:        svc,
		bucket:     bucket,
		client:     client,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		limiter:    limiter,
		exec:       exec,
	}, nil
}

// ListObjects returns every object whose name matches glob, in listing order.
func (s *GCSStore) ListObjects(ctx context.Context, glob string) ([]types.BucketObject, error) {
	var objects []types.BucketObject

	err := s.exec.Execute(ctx, opList, func(ctx context.Context) error {
		objects = objects[:0]
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		call := s.svc.Objects.List(s.bucket).
			MatchGlob(glob).
			Fields("nextPageToken", "items(id,name,mediaLink,contentType,size)")
		return call.Pages(ctx, func(page *storage.Objects) error {
			for _, o := range page.Items {
				objects = append(objects, types.BucketObject{
					ID:          o.Id,
					Name:        o.Name,
					MediaLink:   o.MediaLink,
					ContentType: o.ContentType,
					Size:        o.Size,
				})
			}
			if page.NextPageToken != "" {
				return s.limiter.Wait(ctx)
			}
			return nil
		})
	}, classify)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", glob, translate(err))
	}
	return objects, nil
}

// Download opens the object at mediaLink. The caller closes the body.
func (s *GCSStore) Download(ctx context.Context, mediaLink string) (io.ReadCloser, error) {
	var body io.ReadCloser

	err := s.exec.Execute(ctx, opDownload, func(ctx context.Context) error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaLink, nil)
		if err != nil {
			return err
		}
		if s.userAgent != "" {
			req.Header.Set("User-Agent", s.userAgent)
		}

		resp, err := httputil.DoWithRetry(ctx, s.client, req, s.maxRetries, s.limiter)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return &types.HTTPStatusError{Code: resp.StatusCode}
		}
		body = resp.Body
		return nil
	}, classify)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", mediaLink, translate(err))
	}
	return body, nil
}

// classify retries transport failures and server-side statuses. Client
// statuses such as 404 neither retry nor count against the breaker.
func classify(err error) resilience.Classification {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return statusClass(apiErr.Code)
	}
	var status *types.HTTPStatusError
	if errors.As(err, &status) {
		return statusClass(status.Code)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	return resilience.Classification{}
}

func statusClass(code int) resilience.Classification {
	transient := code == http.StatusTooManyRequests || code >= 500
	return resilience.Classification{Retryable: transient, RecordFailure: transient}
}

// translate maps client-library and breaker errors onto the status taxonomy.
func translate(err error) error {
	var apiErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %w", &types.HTTPStatusError{Code: apiErr.Code}, err)
	case resilience.IsCircuitOpen(err):
		return fmt.Errorf("%w: %w", types.ErrNetwork, err)
	default:
		return err
	}
}
