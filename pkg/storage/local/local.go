package local

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

const Provider = "local"

// Backend writes objects below a directory; the configured bucket is the
// directory path. Useful for dry runs and for serving assets from disk.
type Backend struct {
	basePath string
}

func init() {
	storage.RegisterBackend(Provider, func(ctx context.Context, cfg storage.Config) (storage.Client, error) {
		return New(cfg)
	})
}

// New creates a new local filesystem backend
func New(cfg storage.Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket must name a directory", storage.ErrInvalidConfig)
	}

	basePath, err := filepath.Abs(cfg.Bucket)
	if err != nil {
		return nil, storage.WrapError(Provider, "init", err)
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, storage.WrapError(Provider, "init", fmt.Errorf("failed to create directory: %w", err))
	}

	return &Backend{basePath: basePath}, nil
}

func (b *Backend) Name() string { return Provider }

// Put writes body to basePath/key
func (b *Backend) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	destFullPath := filepath.Join(b.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(destFullPath, b.basePath+string(filepath.Separator)) {
		return nil, storage.WrapError(Provider, "put", fmt.Errorf("key %q escapes the base directory", key))
	}

	if err := os.MkdirAll(filepath.Dir(destFullPath), 0o755); err != nil {
		return nil, storage.WrapError(Provider, "put", err)
	}

	// Write to a sibling temp file so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(destFullPath), ".upload-*")
	if err != nil {
		return nil, storage.WrapError(Provider, "put", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return nil, storage.WrapError(Provider, "put", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, storage.WrapError(Provider, "put", err)
	}
	if err := os.Rename(tmp.Name(), destFullPath); err != nil {
		return nil, storage.WrapError(Provider, "put", err)
	}

	fileURL := url.URL{Scheme: "file", Path: filepath.ToSlash(destFullPath)}

	return &storage.PutResult{
		URL:      fileURL.String(),
		Response: &storage.Response{Status: storage.StatusOK},
	}, nil
}

// Close is a no-op for local backend
func (b *Backend) Close() error {
	return nil
}
