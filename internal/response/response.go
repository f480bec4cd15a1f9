// Package response implements the response header formatter (C6): a fixed
// field order status line and header block writer, shared by the static
// and CGI responders.
package response

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"cgiserve/internal/headers"
	"cgiserve/internal/httpstatus"
)

// Response is the fully-formed result one of the responders hands back to
// the connection driver.
type Response struct {
	Status          int
	Version         string // echoes the request's HTTP version, per decision #1
	Date            string
	Server          string
	Connection      string
	LastModified    string
	CacheControl    string
	ETag            string
	ContentType     string
	ContentLength   int64 // a negative value makes Write omit Content-Length
	ContentEncoding string
	Extra           []headers.Header // additional fields, written in source order
	Body            io.Reader
}

// Write formats the status line and header block in the fixed order
// spec §4.6 requires: Date, Server, Connection, Last-Modified,
// Cache-Control, ETag, Content-Type, Content-Length (written whenever
// ContentLength is zero or more, and omitted only when it is negative),
// Content-Encoding, then any Extra fields a CGI script asked to have
// forwarded, then the blank line terminating the header block. It does
// not write the body; callers stream Body separately.
func (r *Response) Write(w io.Writer) error {
	version := r.Version
	if version == "" {
		version = "HTTP/1.1"
	}
	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", version, r.Status, httpstatus.ReasonPhrase(r.Status)); err != nil {
		return err
	}

	if r.Date != "" {
		if _, err := fmt.Fprintf(w, "Date: %s\r\n", r.Date); err != nil {
			return err
		}
	}
	if r.Server != "" {
		if _, err := fmt.Fprintf(w, "Server: %s\r\n", r.Server); err != nil {
			return err
		}
	}
	connection := r.Connection
	if connection == "" {
		connection = "close"
	}
	if _, err := fmt.Fprintf(w, "Connection: %s\r\n", connection); err != nil {
		return err
	}
	if r.LastModified != "" {
		if _, err := fmt.Fprintf(w, "Last-Modified: %s\r\n", r.LastModified); err != nil {
			return err
		}
	}
	if r.CacheControl != "" {
		if _, err := fmt.Fprintf(w, "Cache-Control: %s\r\n", r.CacheControl); err != nil {
			return err
		}
	}
	if r.ETag != "" {
		if _, err := fmt.Fprintf(w, "ETag: %s\r\n", r.ETag); err != nil {
			return err
		}
	}
	if r.ContentType != "" {
		if _, err := fmt.Fprintf(w, "Content-Type: %s\r\n", r.ContentType); err != nil {
			return err
		}
	}
	if r.ContentLength >= 0 {
		if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n", r.ContentLength); err != nil {
			return err
		}
	}
	if r.ContentEncoding != "" {
		if _, err := fmt.Fprintf(w, "Content-Encoding: %s\r\n", r.ContentEncoding); err != nil {
			return err
		}
	}

	for _, h := range r.Extra {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", h.Name, h.Value); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\r\n")
	return err
}

// New builds a Response for a known-length body such as a static file or a
// generated error page. Date is always stamped at construction time (spec
// §3: "set at initialization"); Server is set from serverName.
func New(status int, version, serverName, contentType string, length int64, body io.Reader) *Response {
	return &Response{
		Status:        status,
		Version:       version,
		Date:          time.Now().UTC().Format(http.TimeFormat),
		Server:        serverName,
		ContentType:   contentType,
		ContentLength: length,
		Connection:    "close",
		Body:          body,
	}
}
