package config

import (
	"time"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
	"github.com/williamokano/oss_uploader/pkg/predicate"
	"github.com/williamokano/oss_uploader/pkg/storage"
)

const (
	DefaultProvider  = "oss"
	DefaultTimeoutMS = 300000
)

// Config is the plugin configuration. Build it with FromMap or ParseConfig and
// treat it as read-only afterwards.
type Config struct {
	AccessKeyID     string `json:"accessKeyId"`
	AccessKeySecret string `json:"accessKeySecret"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`

	Endpoint     string `json:"endpoint,omitempty"`     // empty means provider computed
	Internal     bool   `json:"internal,omitempty"`     // use the internal network endpoint
	CNAME        bool   `json:"cname,omitempty"`        // endpoint is a custom domain
	IsRequestPay bool   `json:"isRequestPay,omitempty"` // bucket has requester-pays enabled
	Secure       *bool  `json:"secure,omitempty"`       // nil means true
	Timeout      int    `json:"timeout,omitempty"`      // milliseconds (default: 300000)

	Exclude  predicate.Matcher `json:"-"`
	Include  predicate.Matcher `json:"-"`
	IsSilent bool              `json:"isSilent,omitempty"`

	Provider    string `json:"provider,omitempty"`    // oss, s3, b2, sftp, gcs, azblob, local (default: oss)
	PathStyle   bool   `json:"pathStyle,omitempty"`   // path-style bucket addressing
	Concurrency int    `json:"concurrency,omitempty"` // uploads in flight, 0 = no cap
	Retries     int    `json:"retries,omitempty"`     // extra attempts after the first (default: 0)
	LogLevel    string `json:"logLevel,omitempty"`    // debug, info, warn, error (default: info)
	LogFormat   string `json:"logFormat,omitempty"`   // json, console (default: json)
}

// Validate checks that every required option is present and non-empty
func (c *Config) Validate() error {
	if c == nil {
		return errdefs.Config(errdefs.ComponentPlugin, "", "options was required")
	}
	required := []struct {
		name  string
		value string
	}{
		{"accessKeyId", c.AccessKeyID},
		{"accessKeySecret", c.AccessKeySecret},
		{"bucket", c.Bucket},
		{"region", c.Region},
	}
	for _, field := range required {
		if field.value == "" {
			return errdefs.Config(errdefs.ComponentPlugin, field.name, "was required")
		}
	}
	if c.Timeout < 0 {
		return errdefs.Config(errdefs.ComponentPlugin, "timeout", "must not be negative")
	}
	if c.Concurrency < 0 {
		return errdefs.Config(errdefs.ComponentPlugin, "concurrency", "must not be negative")
	}
	if c.Retries < 0 {
		return errdefs.Config(errdefs.ComponentPlugin, "retries", "must not be negative")
	}
	return nil
}

// IsSecure returns whether https is used (defaults to true)
func (c *Config) IsSecure() bool {
	if c.Secure != nil {
		return *c.Secure
	}
	return true
}

// GetTimeout returns the per-request timeout (defaults to 300000ms)
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Millisecond
	}
	return DefaultTimeoutMS * time.Millisecond
}

// GetProvider returns the storage provider (defaults to oss)
func (c *Config) GetProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	return DefaultProvider
}

// GetLogLevel returns the log level (defaults to info)
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to json)
func (c *Config) GetLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "json"
}

// GetRetryConfig returns the retry policy for puts (no retry by default)
func (c *Config) GetRetryConfig() storage.RetryConfig {
	return storage.RetryConfigFor(c.Retries)
}

// StorageConfig resolves defaults into the storage client configuration
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Provider:        c.GetProvider(),
		AccessKeyID:     c.AccessKeyID,
		AccessKeySecret: c.AccessKeySecret,
		Bucket:          c.Bucket,
		Region:          c.Region,
		Endpoint:        c.Endpoint,
		Internal:        c.Internal,
		CNAME:           c.CNAME,
		RequestPayer:    c.IsRequestPay,
		Secure:          c.IsSecure(),
		PathStyle:       c.PathStyle,
		Timeout:         c.GetTimeout(),
	}
}
