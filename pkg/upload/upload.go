// Package upload pushes a batch of remote-key/content pairs to a storage
// client. A batch is all-or-nothing: every upload runs to completion, and if
// any of them failed the batch reports the first failure and no results.
package upload

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
	"github.com/williamokano/oss_uploader/pkg/storage"
)

// Result represents the outcome of one successful upload
type Result struct {
	Key      string
	URL      string
	Status   int
	Duration time.Duration
}

// Uploader uploads assets through a storage client. The client is shared by
// all goroutines of a batch and must be safe for concurrent use.
type Uploader struct {
	client      storage.Client
	logger      zerolog.Logger
	concurrency int
	retry       storage.RetryConfig
}

// Option configures an Uploader
type Option func(*Uploader)

// WithConcurrency caps the number of uploads in flight. n <= 0 means no cap.
func WithConcurrency(n int) Option {
	return func(u *Uploader) { u.concurrency = n }
}

// WithRetry retries retryable put failures according to cfg
func WithRetry(cfg storage.RetryConfig) Option {
	return func(u *Uploader) { u.retry = cfg }
}

// New creates an uploader. By default uploads are neither capped nor retried.
func New(client storage.Client, logger zerolog.Logger, opts ...Option) *Uploader {
	u := &Uploader{
		client: client,
		logger: logger,
		retry:  storage.NoRetry(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UploadFile uploads a single object and checks the provider's answer
func (u *Uploader) UploadFile(ctx context.Context, key string, content []byte) (*Result, error) {
	if key == "" {
		return nil, errdefs.Validation(errdefs.ComponentStorage, "", "filename must not be empty or undefined")
	}
	if len(content) == 0 {
		return nil, errdefs.Validation(errdefs.ComponentStorage, key, "content must not be empty or undefined")
	}

	u.logger.Debug().Str("key", key).Int("bytes", len(content)).Msg("uploading")
	start := time.Now()

	var result *storage.PutResult
	err := storage.WithRetry(ctx, u.retry, func() error {
		var putErr error
		result, putErr = u.client.Put(ctx, key, content)
		if putErr != nil && storage.IsRetryable(putErr) {
			u.logger.Debug().Err(putErr).Str("key", key).Msg("upload attempt failed")
		}
		return putErr
	})
	duration := time.Since(start)

	if err != nil {
		return nil, errdefs.Upload(errdefs.ComponentStorage, key, responseOf(result), err)
	}

	switch {
	case result == nil:
		return nil, errdefs.Upload(errdefs.ComponentStorage, key, nil, nil)
	case result.URL == "" && result.Response == nil:
		return nil, errdefs.Upload(errdefs.ComponentStorage, key, result, nil)
	case result.Response == nil || result.Response.Status != storage.StatusOK:
		return nil, errdefs.Upload(errdefs.ComponentStorage, key, result, nil)
	}

	u.logger.Debug().
		Str("key", key).
		Str("url", result.URL).
		Dur("duration", duration).
		Msg("uploaded successfully")

	return &Result{
		Key:      key,
		URL:      result.URL,
		Status:   result.Response.Status,
		Duration: duration,
	}, nil
}

// UploadBatch uploads every entry of assets concurrently and waits for all of
// them to settle. Results are sorted by key and only returned when every
// upload succeeded.
func (u *Uploader) UploadBatch(ctx context.Context, assets map[string][]byte) ([]Result, error) {
	if assets == nil {
		return nil, errdefs.Validation(errdefs.ComponentStorage, "", "assets must not be empty or undefined")
	}
	if len(assets) == 0 {
		u.logger.Warn().Msg("no assets to upload")
		return []Result{}, nil
	}

	u.logger.Info().
		Int("total_files", len(assets)).
		Int("max_concurrent", u.concurrency).
		Msg("uploading files")

	var g errgroup.Group
	if u.concurrency > 0 {
		g.SetLimit(u.concurrency)
	}

	var mu sync.Mutex
	results := make([]Result, 0, len(assets))
	failureCount := 0
	start := time.Now()

	for key, content := range assets {
		g.Go(func() error {
			result, err := u.UploadFile(ctx, key, content)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failureCount++
				u.logger.Error().Err(err).Str("key", key).Msg("upload failed")
				return err
			}
			results = append(results, *result)
			return nil
		})
	}

	waitErr := g.Wait()

	u.logger.Info().
		Int("successful", len(results)).
		Int("failed", failureCount).
		Dur("total_duration", time.Since(start)).
		Msg("batch upload completed")

	if waitErr != nil {
		return nil, waitErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})

	return results, nil
}

func responseOf(result *storage.PutResult) any {
	if result == nil {
		return nil
	}
	return result
}
