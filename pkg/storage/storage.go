package storage

import (
	"context"
	"net/http"
	"time"
)

// StatusOK is the status a provider reports for a successful put
const StatusOK = http.StatusOK

// Client represents an object store that assets are written to
type Client interface {
	// Name returns the provider name (oss, s3, b2, sftp, gcs, azblob, local)
	Name() string

	// Put stores body under key, overwriting any existing object.
	// On a provider-level failure the result may still be non-nil and carry
	// the response the provider sent, alongside the error.
	Put(ctx context.Context, key string, body []byte) (*PutResult, error)

	// Close releases resources (connections, sessions)
	Close() error
}

// PutResult is what a provider hands back for a single put
type PutResult struct {
	URL      string    // Public or provider URL of the stored object
	Response *Response // Nil when the provider was never reached
}

// Response is the raw provider response, kept for diagnostics
type Response struct {
	Status    int               // HTTP status or provider equivalent
	RequestID string            // Provider request id, when available
	Headers   map[string]string // Selected response headers
}

// Config represents storage client configuration, with defaults already resolved
type Config struct {
	Provider        string        // oss, s3, b2, sftp, gcs, azblob, local
	AccessKeyID     string        // Credential id; meaning depends on the provider
	AccessKeySecret string        // Credential secret; meaning depends on the provider
	Bucket          string        // Bucket, container or base directory
	Region          string        // Data center region
	Endpoint        string        // Empty means provider computed
	Internal        bool          // Use the provider's internal network endpoint
	CNAME           bool          // Endpoint is a custom domain bound to the bucket
	RequestPayer    bool          // Bucket has requester-pays enabled
	Secure          bool          // Use https
	PathStyle       bool          // Path-style addressing (MinIO, LocalStack)
	Timeout         time.Duration // Per-request timeout
}

// Scheme returns the URL scheme implied by Secure
func (c Config) Scheme() string {
	if c.Secure {
		return "https"
	}
	return "http"
}
