package storage

import (
	"mime"
	"path"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType picks the Content-Type for an object. The key extension wins,
// since sniffing cannot tell CSS or JS apart from plain text; the body is
// sniffed only when the extension is unknown.
func ContentType(key string, body []byte) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return mimetype.Detect(body).String()
}
