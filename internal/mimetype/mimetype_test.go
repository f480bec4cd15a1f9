package mimetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPathKnownExtensions(t *testing.T) {
	cases := map[string]string{
		"/a/b/c.html": "text/html",
		"/a/b/c.css":  "text/css",
		"/script.js":  "application/javascript",
		"/data.json":  "application/json",
		"/doc.ps":     "application/postscript",
		"/pic.gif":    "image/gif",
		"/pic.PNG":    "image/png",
	}
	for path, want := range cases {
		assert.Equal(t, want, FromPath(path), path)
	}
}

func TestFromPathNoExtensionDefaultsToPlainText(t *testing.T) {
	assert.Equal(t, Default, FromPath("/README"))
}

func TestFromPathUnknownExtensionFallsBackToOctetStream(t *testing.T) {
	assert.Equal(t, OctetStream, FromPath("/archive.tar.gz"))
}

func TestFromPathScansWholePathNotJustBasename(t *testing.T) {
	// A dot in a directory segment and one in the final component: the
	// original server's strrchr(path, '.') scan picks the last one.
	assert.Equal(t, "text/html", FromPath("/v1.2/index.html"))
	// The only '.' here sits in the directory segment "v1.2", so the
	// "extension" scanned is "2/index" — not in the table, hence
	// octet-stream rather than the no-dot-at-all default.
	assert.Equal(t, OctetStream, FromPath("/v1.2/index"))
}
