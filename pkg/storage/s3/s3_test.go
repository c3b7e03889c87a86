package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	payer       string
	body        string
}

func newFakeBucket(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			payer:       r.Header.Get("X-Amz-Request-Payer"),
			body:        string(body),
		})
		mu.Unlock()

		w.Header().Set("x-amz-request-id", "req-1")
		if status == http.StatusOK {
			w.Header().Set("ETag", `"abc"`)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, &requests
}

func testConfig(endpoint string) storage.Config {
	return storage.Config{
		Provider:        ProviderS3,
		AccessKeyID:     "id",
		AccessKeySecret: "secret",
		Bucket:          "assets",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		PathStyle:       true,
		Timeout:         5 * time.Second,
	}
}

func TestBackend_Put(t *testing.T) {
	t.Run("success_reports_url_and_status", func(t *testing.T) {
		server, requests := newFakeBucket(t, http.StatusOK)

		backend, err := New(context.Background(), testConfig(server.URL))
		require.NoError(t, err)

		result, err := backend.Put(context.Background(), "static/main.css", []byte("body{}"))
		require.NoError(t, err)
		require.NotNil(t, result.Response)
		assert.Equal(t, storage.StatusOK, result.Response.Status)
		assert.Equal(t, server.URL+"/assets/static/main.css", result.URL)
		assert.Equal(t, `"abc"`, result.Response.Headers["ETag"])

		require.Len(t, *requests, 1)
		req := (*requests)[0]
		assert.Equal(t, http.MethodPut, req.method)
		assert.Equal(t, "/assets/static/main.css", req.path)
		assert.Equal(t, "text/css; charset=utf-8", req.contentType)
		assert.Contains(t, req.body, "body{}")
	})

	t.Run("server_error_is_retryable_and_keeps_response", func(t *testing.T) {
		server, requests := newFakeBucket(t, http.StatusInternalServerError)

		backend, err := New(context.Background(), testConfig(server.URL))
		require.NoError(t, err)

		result, err := backend.Put(context.Background(), "a.js", []byte("x"))
		require.Error(t, err)
		assert.True(t, storage.IsRetryable(err))
		require.NotNil(t, result)
		assert.Equal(t, http.StatusInternalServerError, result.Response.Status)
		assert.Len(t, *requests, 1, "SDK retries must be disabled")
	})

	t.Run("forbidden_is_not_retryable", func(t *testing.T) {
		server, _ := newFakeBucket(t, http.StatusForbidden)

		backend, err := New(context.Background(), testConfig(server.URL))
		require.NoError(t, err)

		_, err = backend.Put(context.Background(), "a.js", []byte("x"))
		assert.ErrorIs(t, err, storage.ErrPermissionDenied)
		assert.False(t, storage.IsRetryable(err))
	})

	t.Run("cname_sends_key_without_bucket", func(t *testing.T) {
		server, requests := newFakeBucket(t, http.StatusOK)

		cfg := testConfig(server.URL)
		cfg.PathStyle = false
		cfg.CNAME = true
		backend, err := New(context.Background(), cfg)
		require.NoError(t, err)

		result, err := backend.Put(context.Background(), "js/app.js", []byte("console.log(1)"))
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/js/app.js", result.URL)
		require.Len(t, *requests, 1)
		assert.Equal(t, "/js/app.js", (*requests)[0].path)
	})
}

type fakePutAPI struct {
	input *s3.PutObjectInput
}

func (f *fakePutAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	return &s3.PutObjectOutput{}, nil
}

func TestBackend_RequestPayer(t *testing.T) {
	fake := &fakePutAPI{}
	endpoint, _ := url.Parse("https://oss-cn-hangzhou.aliyuncs.com")
	cfg := storage.Config{Provider: ProviderOSS, Bucket: "assets", RequestPayer: true}
	backend := newBackend(cfg, fake, endpoint, "oss-cn-hangzhou")

	result, err := backend.Put(context.Background(), "a.js", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, s3types.RequestPayerRequester, fake.input.RequestPayer)
	assert.Equal(t, "https://assets.oss-cn-hangzhou.aliyuncs.com/a.js", result.URL)
	assert.Equal(t, storage.StatusOK, result.Response.Status)
	assert.Equal(t, "oss", backend.Name())
	assert.NoError(t, backend.Close())
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		want    string
		wantErr bool
	}{
		{
			name: "oss default",
			cfg:  storage.Config{Provider: ProviderOSS, Region: "oss-cn-hangzhou", Secure: true},
			want: "https://oss-cn-hangzhou.aliyuncs.com",
		},
		{
			name: "oss region without prefix",
			cfg:  storage.Config{Provider: ProviderOSS, Region: "cn-beijing", Secure: true},
			want: "https://oss-cn-beijing.aliyuncs.com",
		},
		{
			name: "oss internal over http",
			cfg:  storage.Config{Provider: ProviderOSS, Region: "oss-cn-shanghai", Internal: true},
			want: "http://oss-cn-shanghai-internal.aliyuncs.com",
		},
		{
			name: "explicit endpoint gets scheme",
			cfg:  storage.Config{Provider: ProviderOSS, Endpoint: "oss-accelerate.aliyuncs.com", Secure: true},
			want: "https://oss-accelerate.aliyuncs.com",
		},
		{
			name: "explicit endpoint with scheme kept",
			cfg:  storage.Config{Provider: ProviderS3, Endpoint: "http://localhost:4566", Secure: true},
			want: "http://localhost:4566",
		},
		{
			name:    "cname without endpoint",
			cfg:     storage.Config{Provider: ProviderOSS, Region: "oss-cn-hangzhou", CNAME: true},
			wantErr: true,
		},
		{
			name: "s3 left to the sdk",
			cfg:  storage.Config{Provider: ProviderS3, Region: "eu-west-1", Secure: true},
			want: "",
		},
		{
			name: "s3 insecure",
			cfg:  storage.Config{Provider: ProviderS3, Region: "eu-west-1"},
			want: "http://s3.eu-west-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEndpoint(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, storage.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSigningRegion(t *testing.T) {
	assert.Equal(t, "oss-cn-hangzhou", SigningRegion(storage.Config{Provider: ProviderOSS, Region: "cn-hangzhou"}))
	assert.Equal(t, "eu-west-1", SigningRegion(storage.Config{Provider: ProviderS3, Region: "eu-west-1"}))
	assert.Equal(t, "us-east-1", SigningRegion(storage.Config{Provider: ProviderS3}))
}

func TestObjectURL(t *testing.T) {
	backend := newBackend(storage.Config{Provider: ProviderS3, Bucket: "assets"}, nil, nil, "eu-west-1")
	assert.Equal(t, "https://assets.s3.eu-west-1.amazonaws.com/js/a%20b.js", backend.ObjectURL("js/a b.js"))
}
