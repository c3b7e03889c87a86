// Package azblob stores assets in an Azure Blob Storage container.
//
// accessKeyId is the storage account name, accessKeySecret the account key and
// bucket the container. The service URL defaults to the public endpoint of the
// account; set endpoint for Azurite or sovereign clouds.
package azblob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

const Provider = "azblob"

type Backend struct {
	client    *azblob.Client
	container string
}

func init() {
	storage.RegisterBackend(Provider, func(ctx context.Context, cfg storage.Config) (storage.Client, error) {
		return New(cfg)
	})
}

// New creates a client authenticated with the account shared key
func New(cfg storage.Config) (*Backend, error) {
	cred, err := azblob.NewSharedKeyCredential(cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, storage.WrapError(Provider, "init", fmt.Errorf("%w: %v", storage.ErrAuthFailed, err))
	}

	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Transport: &http.Client{Timeout: cfg.Timeout},
		},
	}
	// Retries are a decision of the caller
	opts.Retry.MaxRetries = -1

	client, err := azblob.NewClientWithSharedKeyCredential(ServiceURL(cfg), cred, opts)
	if err != nil {
		return nil, storage.WrapError(Provider, "init", err)
	}

	return &Backend{client: client, container: cfg.Bucket}, nil
}

// ServiceURL is the blob service endpoint for cfg
func ServiceURL(cfg storage.Config) string {
	if cfg.Endpoint != "" {
		if strings.Contains(cfg.Endpoint, "://") {
			return cfg.Endpoint
		}
		return cfg.Scheme() + "://" + cfg.Endpoint
	}
	return fmt.Sprintf("%s://%s.blob.core.windows.net/", cfg.Scheme(), cfg.AccessKeyID)
}

func (b *Backend) Name() string { return Provider }

// Put uploads body as a block blob
func (b *Backend) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	contentType := storage.ContentType(key, body)

	_, err := b.client.UploadBuffer(ctx, b.container, key, body, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			result := &storage.PutResult{Response: &storage.Response{Status: respErr.StatusCode}}
			return result, storage.WrapError(Provider, "put", storage.Classify(err, respErr.StatusCode))
		}
		return nil, storage.WrapError(Provider, "put", storage.Classify(err, 0))
	}

	return &storage.PutResult{
		URL:      strings.TrimSuffix(b.client.URL(), "/") + "/" + b.container + "/" + (&url.URL{Path: key}).EscapedPath(),
		Response: &storage.Response{Status: storage.StatusOK},
	}, nil
}

// Close is a no-op; the SDK client holds no connections of its own
func (b *Backend) Close() error {
	return nil
}
