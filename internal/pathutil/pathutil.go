// Package pathutil implements the path composer (C3): joining a document
// root with a decoded request path into an absolute filesystem path, while
// refusing any composition that would escape the root.
package pathutil

import (
	"path/filepath"
	"strings"

	"cgiserve/internal/statuserr"
)

// MaxPathLength bounds the composed path the way the original server's
// PATH_MAX buffer did: the path must be shorter than MaxPathLength, leaving
// room for the terminating NUL.
const MaxPathLength = 4096

// Compose joins documentRoot and requestPath, lexically cleaning the result
// and verifying it still falls under documentRoot. The original C server
// concatenated the two strings directly, so a request path containing
// "../" could walk out of the document root entirely; Compose closes that
// hole by treating an escape the same as a missing file (statuserr.NotFound),
// rather than serving whatever the traversal reached.
func Compose(documentRoot, requestPath string) (string, *statuserr.Error) {
	root := filepath.Clean(documentRoot)
	joined := filepath.Join(root, requestPath)

	if joined != root && !strings.HasPrefix(joined, root+string(filepath.Separator)) {
		return "", statuserr.NotFound("request path escapes the document root")
	}
	if len(joined) >= MaxPathLength {
		return "", statuserr.URITooLong("composed path exceeds maximum length")
	}
	return joined, nil
}
