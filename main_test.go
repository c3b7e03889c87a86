package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func writeLocalConfig(t *testing.T, bucket string, extra map[string]any) string {
	t.Helper()
	options := map[string]any{
		"provider":        "local",
		"accessKeyId":     "unused",
		"accessKeySecret": "unused",
		"bucket":          bucket,
		"region":          "local",
		"logLevel":        "error",
	}
	for k, v := range extra {
		options[k] = v
	}
	data, err := json.Marshal(options)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUpload_LocalProvider(t *testing.T) {
	dist := t.TempDir()
	writeFile(t, filepath.Join(dist, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(dist, "js", "main.js"), "console.log(1)")
	writeFile(t, filepath.Join(dist, "js", "main.js.map"), "{}")

	bucket := t.TempDir()
	cfg := writeLocalConfig(t, bucket, map[string]any{"exclude": `\.map$`})

	_, err := execute(t, "upload", "--config", cfg, "--dir", dist, "--public-path", "https://cdn.example.com/static/")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(bucket, "static", "js", "main.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(content))
	assert.FileExists(t, filepath.Join(bucket, "static", "index.html"))
	assert.NoFileExists(t, filepath.Join(bucket, "static", "js", "main.js.map"))
}

func TestUpload_SilentWritesNothing(t *testing.T) {
	dist := t.TempDir()
	writeFile(t, filepath.Join(dist, "main.js"), "x")

	bucket := filepath.Join(t.TempDir(), "never-created")
	cfg := writeLocalConfig(t, bucket, map[string]any{"isSilent": true})

	_, err := execute(t, "upload", "--config", cfg, "--dir", dist)
	require.NoError(t, err)
	assert.NoDirExists(t, bucket)
}

func TestUpload_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"accessKeyId":"a","accessKeySecret":"b","region":"r"}`)

	_, err := execute(t, "upload", "--config", path, "--dir", t.TempDir(), "--log-level", "error")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := execute(t, "validate", "--config", writeLocalConfig(t, t.TempDir(), nil))
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"bucket":"b"}`)
	_, err = execute(t, "validate", "--config", path, "--log-level", "error")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "oss_uploader dev")
	assert.Contains(t, out, "local")
	assert.Contains(t, out, "oss")
}
