// Package mimetype derives a Content-Type from a request path's extension,
// the case-insensitive lookup table from spec §4.2(d).
package mimetype

import "strings"

const (
	Default     = "text/plain"
	OctetStream = "application/octet-stream"
)

var table = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"txt":  "text/plain",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"ps":   "application/postscript",
	"gif":  "image/gif",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"pdf":  "application/pdf",
}

// FromPath returns the Content-Type for path, found via the last '.' in
// the whole path (not just the final segment — this matches the original
// C server's strrchr(path, '.') scan). A path with no '.' at all defaults
// to text/plain; an extension outside the table falls back to
// application/octet-stream.
func FromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return Default
	}
	ext := strings.ToLower(path[i+1:])
	if t, ok := table[ext]; ok {
		return t
	}
	return OctetStream
}
