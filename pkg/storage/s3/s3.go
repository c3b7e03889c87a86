package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

const (
	ProviderOSS = "oss"
	ProviderS3  = "s3"
)

// putAPI is the slice of the S3 client the backend needs
type putAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Backend struct {
	provider     string
	client       putAPI
	bucket       string
	requestPayer bool
	endpoint     *url.URL // nil when the SDK resolves the endpoint
	region       string
	pathStyle    bool
	cname        bool
}

func init() {
	for _, provider := range []string{ProviderOSS, ProviderS3} {
		storage.RegisterBackend(provider, func(ctx context.Context, cfg storage.Config) (storage.Client, error) {
			return New(ctx, cfg)
		})
	}
}

// New creates a client for Aliyun OSS (through its S3-compatible API) or AWS S3
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOSS
	}

	endpoint, err := ResolveEndpoint(cfg)
	if err != nil {
		return nil, err
	}

	region := SigningRegion(cfg)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.AccessKeySecret,
				"",
			),
		),
		config.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(cfg.Timeout)),
		// Retries are a decision of the caller
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, storage.WrapError(cfg.Provider, "init", err)
	}

	var endpointURL *url.URL
	if endpoint != "" {
		endpointURL, err = url.Parse(endpoint)
		if err != nil {
			return nil, storage.WrapError(cfg.Provider, "init", fmt.Errorf("%w: endpoint %q: %v", storage.ErrInvalidConfig, endpoint, err))
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpointURL != nil {
			o.BaseEndpoint = aws.String(endpointURL.String())
		}
		o.UsePathStyle = cfg.PathStyle
		if cfg.CNAME {
			o.EndpointResolverV2 = cnameResolver{endpoint: *endpointURL}
		}
		if cfg.Provider == ProviderOSS {
			// OSS rejects the streaming checksum trailers newer SDKs send by default
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	return newBackend(cfg, client, endpointURL, region), nil
}

func newBackend(cfg storage.Config, client putAPI, endpoint *url.URL, region string) *Backend {
	return &Backend{
		provider:     cfg.Provider,
		client:       client,
		bucket:       cfg.Bucket,
		requestPayer: cfg.RequestPayer,
		endpoint:     endpoint,
		region:       region,
		pathStyle:    cfg.PathStyle,
		cname:        cfg.CNAME,
	}
}

func (b *Backend) Name() string { return b.provider }

// Put uploads body as a single object
func (b *Backend) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(storage.ContentType(key, body)),
	}
	if b.requestPayer {
		input.RequestPayer = s3types.RequestPayerRequester
	}

	output, err := b.client.PutObject(ctx, input)
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			result := &storage.PutResult{
				Response: &storage.Response{
					Status:    respErr.HTTPStatusCode(),
					RequestID: respErr.ServiceRequestID(),
				},
			}
			return result, storage.WrapError(b.provider, "put", storage.Classify(err, respErr.HTTPStatusCode()))
		}
		return nil, storage.WrapError(b.provider, "put", storage.Classify(err, 0))
	}

	return b.result(key, output), nil
}

// Close is a no-op for S3
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) result(key string, output *s3.PutObjectOutput) *storage.PutResult {
	response := &storage.Response{
		Status:  storage.StatusOK,
		Headers: map[string]string{},
	}
	objectURL := b.ObjectURL(key)

	if output != nil {
		if output.ETag != nil {
			response.Headers["ETag"] = *output.ETag
		}
		if output.VersionId != nil {
			response.Headers["Version-Id"] = *output.VersionId
		}
		if raw, ok := rawResponse(output.ResultMetadata); ok {
			response.Status = raw.StatusCode
			if raw.Request != nil && raw.Request.URL != nil {
				u := *raw.Request.URL
				u.RawQuery = ""
				objectURL = u.String()
			}
		}
		if id, ok := awsmiddleware.GetRequestIDMetadata(output.ResultMetadata); ok {
			response.RequestID = id
		}
	}

	return &storage.PutResult{URL: objectURL, Response: response}
}

func rawResponse(metadata middleware.Metadata) (*smithyhttp.Response, bool) {
	raw, ok := awsmiddleware.GetRawResponse(metadata).(*smithyhttp.Response)
	if !ok || raw == nil || raw.Response == nil {
		return nil, false
	}
	return raw, true
}

// ObjectURL is the address of key as the provider serves it
func (b *Backend) ObjectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()

	if b.endpoint == nil {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, escaped)
	}

	base := *b.endpoint
	base.Path = strings.TrimSuffix(base.Path, "/")
	switch {
	case b.cname:
	case b.pathStyle:
		base.Path += "/" + b.bucket
	default:
		base.Host = b.bucket + "." + base.Host
	}

	return base.String() + "/" + escaped
}

// ResolveEndpoint computes the endpoint URL for cfg. An empty result means the
// SDK should resolve it from the region.
func ResolveEndpoint(cfg storage.Config) (string, error) {
	scheme := cfg.Scheme()

	if cfg.Endpoint != "" {
		if strings.Contains(cfg.Endpoint, "://") {
			return cfg.Endpoint, nil
		}
		return scheme + "://" + cfg.Endpoint, nil
	}

	if cfg.CNAME {
		return "", fmt.Errorf("%w: endpoint is required when cname is enabled", storage.ErrInvalidConfig)
	}

	switch cfg.Provider {
	case ProviderOSS, "":
		if cfg.Region == "" {
			return "", fmt.Errorf("%w: region or endpoint is required", storage.ErrInvalidConfig)
		}
		host := ossRegion(cfg.Region)
		if cfg.Internal {
			host += "-internal"
		}
		return fmt.Sprintf("%s://%s.aliyuncs.com", scheme, host), nil
	default:
		if cfg.Secure || cfg.Region == "" {
			return "", nil
		}
		return fmt.Sprintf("http://s3.%s.amazonaws.com", cfg.Region), nil
	}
}

// SigningRegion is the region requests are signed for
func SigningRegion(cfg storage.Config) string {
	if cfg.Provider == ProviderOSS || cfg.Provider == "" {
		if cfg.Region == "" {
			return "oss-cn-hangzhou"
		}
		return ossRegion(cfg.Region)
	}
	if cfg.Region == "" {
		return "us-east-1"
	}
	return cfg.Region
}

// ossRegion accepts both "cn-hangzhou" and "oss-cn-hangzhou"
func ossRegion(region string) string {
	if strings.HasPrefix(region, "oss-") {
		return region
	}
	return "oss-" + region
}
