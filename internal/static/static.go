// Package static implements the static file responder (C4): opening,
// stat'ing and streaming a file under the document root, mapping open(2)
// failures the way serve_static in the original server did.
package static

import (
	"errors"
	"io"
	"net/http"
	"os"
	"syscall"

	"cgiserve/internal/mimetype"
	"cgiserve/internal/pathutil"
	"cgiserve/internal/request"
	"cgiserve/internal/response"
	"cgiserve/internal/statuserr"
)

// Serve resolves req.Path under documentRoot and returns a Response whose
// Body streams the file's contents. The caller is responsible for closing
// the returned file once the body has been fully written; Serve hands the
// *os.File back wrapped as the Body reader so the driver can defer Close
// after streaming.
func Serve(documentRoot, serverName string, req *request.Request) (*response.Response, *os.File, *statuserr.Error) {
	absPath, serr := pathutil.Compose(documentRoot, req.Path)
	if serr != nil {
		return nil, nil, serr
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, nil, mapOpenError(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, statuserr.Internal("failed to stat " + absPath)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, statuserr.NotFound("request path is a directory")
	}

	contentType := req.MimeType
	if contentType == "" {
		contentType = mimetype.FromPath(absPath)
	}

	resp := response.New(200, req.Version.String(), serverName, contentType, info.Size(), io.Reader(f))
	resp.LastModified = info.ModTime().UTC().Format(http.TimeFormat)
	return resp, f, nil
}

// mapOpenError mirrors serve_static's errno switch: ENOENT -> 404,
// EACCES -> 403, EMFILE/ENFILE -> 503, anything else -> 500.
func mapOpenError(err error) *statuserr.Error {
	switch {
	case os.IsNotExist(err):
		return statuserr.NotFound("file not found")
	case os.IsPermission(err):
		return statuserr.Forbidden("permission denied")
	case errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE):
		return statuserr.ServiceUnavailable("too many open files")
	default:
		return statuserr.Internal("failed to open file")
	}
}
