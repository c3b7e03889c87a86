// Package gcs stores assets in a Google Cloud Storage bucket.
//
// accessKeySecret is either a service account JSON document or the path to
// one; accessKeyId is informational (the project id). An explicit endpoint
// points the client at an emulator and disables authentication.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gcsStorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

const Provider = "gcs"

type Backend struct {
	client  *gcsStorage.Client
	bucket  string
	baseURL string
	timeout time.Duration
}

func init() {
	storage.RegisterBackend(Provider, func(ctx context.Context, cfg storage.Config) (storage.Client, error) {
		return New(ctx, cfg)
	})
}

// New creates a GCS client for cfg.Bucket
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	client, err := gcsStorage.NewClient(ctx, ClientOptions(cfg)...)
	if err != nil {
		return nil, storage.WrapError(Provider, "init", fmt.Errorf("%w: %v", storage.ErrAuthFailed, err))
	}

	return &Backend{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: BaseURL(cfg),
		timeout: cfg.Timeout,
	}, nil
}

// ClientOptions maps the shared credential fields onto GCS client options
func ClientOptions(cfg storage.Config) []option.ClientOption {
	opts := make([]option.ClientOption, 0, 2)

	if cfg.Endpoint != "" {
		return append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	secret := strings.TrimSpace(cfg.AccessKeySecret)
	switch {
	case strings.HasPrefix(secret, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(secret)))
	case secret != "":
		opts = append(opts, option.WithCredentialsFile(secret))
	}

	return opts
}

// BaseURL is the public URL prefix objects are served from
func BaseURL(cfg storage.Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return "https://storage.googleapis.com/" + cfg.Bucket
}

func (b *Backend) Name() string { return Provider }

// Put uploads body as a single object
func (b *Backend) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	writer := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = storage.ContentType(key, body)

	if _, err := writer.Write(body); err != nil {
		writer.Close()
		return b.failure(err)
	}
	if err := writer.Close(); err != nil {
		return b.failure(err)
	}

	return &storage.PutResult{
		URL:      b.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(),
		Response: &storage.Response{Status: storage.StatusOK},
	}, nil
}

func (b *Backend) failure(err error) (*storage.PutResult, error) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		result := &storage.PutResult{Response: &storage.Response{Status: apiErr.Code}}
		return result, storage.WrapError(Provider, "put", storage.Classify(err, apiErr.Code))
	}
	return nil, storage.WrapError(Provider, "put", storage.Classify(err, 0))
}

// Close releases the underlying client
func (b *Backend) Close() error {
	return b.client.Close()
}
