package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/williamokano/oss_uploader/pkg/storage"
)

func TestClientOptions(t *testing.T) {
	assert.Len(t, ClientOptions(storage.Config{Endpoint: "http://localhost:4443/storage/v1/"}), 2)
	assert.Len(t, ClientOptions(storage.Config{AccessKeySecret: `{"type":"service_account"}`}), 1)
	assert.Len(t, ClientOptions(storage.Config{AccessKeySecret: "/etc/gcs/key.json"}), 1)
	assert.Empty(t, ClientOptions(storage.Config{}))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/assets", BaseURL(storage.Config{Bucket: "assets"}))
	assert.Equal(t, "http://localhost:4443/assets", BaseURL(storage.Config{Bucket: "assets", Endpoint: "http://localhost:4443/"}))
}
