// Package resolver maps a locally built asset name to the key it is stored
// under in the bucket.
package resolver

import (
	"net/url"
	"path"
	"strings"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
)

// Resolve computes the remote key for localName under publicPath.
//
// The bucket only ever receives path-style keys: protocol-relative and
// absolute URL prefixes are reduced to their path before joining, e.g.
//
//	Resolve("a.js", "https://cdn.example.com/static") == "static/a.js"
//	Resolve("a.js", "//cdn.example.com/static")       == "static/a.js"
//	Resolve("a.js", "/assets/")                       == "assets/a.js"
//	Resolve("a.js", "")                               == "a.js"
func Resolve(localName, publicPath string) (string, error) {
	if localName == "" {
		return "", errdefs.Validation(errdefs.ComponentPlugin, "", "filename must not be empty or undefined")
	}

	if publicPath == "" {
		return localName, nil
	}

	prefix, err := NormalizePrefix(publicPath)
	if err != nil {
		return "", err
	}

	return path.Join(prefix, localName), nil
}

// NormalizePrefix reduces a public path to the bucket-relative directory it
// denotes. The result never starts with a slash and ends with one unless empty.
// A prefix carrying a scheme must be a valid URL with a host.
func NormalizePrefix(publicPath string) (string, error) {
	prefix := publicPath

	if strings.HasPrefix(prefix, "//") {
		prefix = "https:" + prefix
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if hasScheme(prefix) {
		u, err := url.Parse(prefix)
		if err != nil {
			return "", errdefs.Config(errdefs.ComponentPlugin, "", "publicPath %q is not a valid URL: %v", publicPath, err)
		}
		if u.Host == "" {
			return "", errdefs.Config(errdefs.ComponentPlugin, "", "publicPath %q has no host", publicPath)
		}
		prefix = u.Path
	}

	return strings.TrimPrefix(prefix, "/"), nil
}

// hasScheme reports whether s starts with "scheme://"
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, c := range s[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
