package backblaze

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kurin/blazer/b2"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

const Provider = "b2"

// Backend stores objects in a Backblaze B2 bucket. accessKeyId is the key id,
// accessKeySecret the application key.
type Backend struct {
	client  *b2.Client
	store   objectStore
	timeout time.Duration
}

// objectStore is the part of a B2 bucket Put needs
type objectStore interface {
	NewWriter(ctx context.Context, key, contentType string) io.WriteCloser
	URL(key string) string
}

type bucketStore struct {
	bucket *b2.Bucket
}

func (s bucketStore) NewWriter(ctx context.Context, key, contentType string) io.WriteCloser {
	return s.bucket.Object(key).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
}

func (s bucketStore) URL(key string) string {
	return s.bucket.Object(key).URL()
}

func init() {
	storage.RegisterBackend(Provider, func(ctx context.Context, cfg storage.Config) (storage.Client, error) {
		return New(ctx, cfg)
	})
}

// New creates a new Backblaze B2 backend
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	client, err := b2.NewClient(ctx, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, storage.WrapError(Provider, "init", fmt.Errorf("%w: %v", storage.ErrAuthFailed, err))
	}

	bucket, err := client.Bucket(ctx, cfg.Bucket)
	if err != nil {
		return nil, storage.WrapError(Provider, "get bucket", err)
	}

	return &Backend{
		client:  client,
		store:   bucketStore{bucket: bucket},
		timeout: cfg.Timeout,
	}, nil
}

func (b *Backend) Name() string { return Provider }

// Put uploads body to B2
func (b *Backend) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	writer := b.store.NewWriter(ctx, key, storage.ContentType(key, body))

	if _, err := io.Copy(writer, bytes.NewReader(body)); err != nil {
		writer.Close()
		return nil, storage.WrapError(Provider, "put", storage.Classify(err, 0))
	}

	if err := writer.Close(); err != nil {
		return nil, storage.WrapError(Provider, "put", storage.Classify(err, 0))
	}

	return &storage.PutResult{
		URL:      b.store.URL(key),
		Response: &storage.Response{Status: storage.StatusOK},
	}, nil
}

// Close releases resources
func (b *Backend) Close() error {
	return nil
}
