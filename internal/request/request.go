// Package request implements the request parser (C2): request-line
// validation, URI percent-decoding and query splitting, dynamic/static
// classification, and MIME detection.
package request

import (
	"bytes"
	"strings"

	"cgiserve/internal/mimetype"
	"cgiserve/internal/statuserr"
)

type Method string

const MethodGet Method = "GET"

type Version string

const (
	HTTP10 Version = "HTTP/1.0"
	HTTP11 Version = "HTTP/1.1"
)

// MaxURILength is the spec's MAX_URI_LENGTH.
const MaxURILength = 4096

// Param is one decoded (name, value) query pair.
type Param struct {
	Name  string
	Value string
}

// Request is the parsed, owned result of Parse.
type Request struct {
	Method    Method
	Version   Version
	Path      string
	IsDynamic bool
	MimeType  string
	Params    []Param
}

var crlf = []byte("\r\n")

// Parse consumes the raw bytes read from the connection up to and
// including the first CRLFCRLF (only the request line is actually
// inspected; header lines after it are never interpreted, per spec
// §4.2 step 8) and the configured dynamic directory name used to
// classify the request.
func Parse(head []byte, dynamicDirName string) (*Request, *statuserr.Error) {
	idx := bytes.Index(head, crlf)
	if idx < 0 {
		return nil, statuserr.BadRequest("request line missing CRLF terminator")
	}
	line := head[:idx]

	fields := bytes.Fields(line)
	if len(fields) != 3 {
		return nil, statuserr.BadRequest("request line does not have exactly three fields")
	}
	method := string(fields[0])
	uri := string(fields[1])
	version := string(fields[2])

	if len(uri) > MaxURILength {
		return nil, statuserr.URITooLong("request URI exceeds maximum length")
	}
	if method != string(MethodGet) {
		return nil, statuserr.NotImplemented("unsupported method: " + method)
	}
	if version != string(HTTP10) && version != string(HTTP11) {
		return nil, statuserr.VersionNotSupported("unsupported version: " + version)
	}
	if !strings.HasPrefix(uri, "/") {
		return nil, statuserr.BadRequest("request URI must start with '/'")
	}

	req := &Request{Method: MethodGet, Version: Version(version)}
	if err := parseURI(uri, req, dynamicDirName); err != nil {
		return nil, err
	}
	return req, nil
}

func parseURI(uri string, req *Request, dynamicDirName string) *statuserr.Error {
	decoded := percentDecode(uri)

	path := decoded
	query := ""
	if i := strings.IndexByte(decoded, '?'); i >= 0 {
		path = decoded[:i]
		query = decoded[i+1:]
	}

	if strings.IndexByte(path, 0) >= 0 {
		return statuserr.BadRequest("request path contains a NUL byte")
	}

	req.Path = path
	req.IsDynamic = classifyDynamic(path, dynamicDirName)
	req.MimeType = mimetype.FromPath(path)

	if req.IsDynamic && query != "" {
		req.Params = parseQuery(query)
	} else {
		req.Params = []Param{}
	}
	return nil
}

// classifyDynamic reports whether path's first path segment (after the
// leading '/') equals dynamicDirName as a whole component.
func classifyDynamic(path, dynamicDirName string) bool {
	rest := strings.TrimPrefix(path, "/")
	if rest == dynamicDirName {
		return true
	}
	return strings.HasPrefix(rest, dynamicDirName+"/")
}

// parseQuery splits an already-decoded query string on '&', then each
// token on the first '='. Names and values are NOT decoded again — the
// whole URI was already decoded by percentDecode before the '?' split.
func parseQuery(query string) []Param {
	tokens := strings.Split(query, "&")
	params := make([]Param, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if i := strings.IndexByte(tok, '='); i >= 0 {
			params = append(params, Param{Name: tok[:i], Value: tok[i+1:]})
		} else {
			params = append(params, Param{Name: tok, Value: ""})
		}
	}
	return params
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// percentDecode decodes %HH escapes and '+' as space. Invalid %-escapes
// (not followed by two hex digits) are preserved verbatim — this is the
// one place spec §4.2(a) explicitly forbids "fixing" the input.
func percentDecode(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			sb.WriteByte(hexVal(s[i+1])<<4 | hexVal(s[i+2]))
			i += 3
		case c == '+':
			sb.WriteByte(' ')
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// String returns the wire version token, defaulting to HTTP/1.1 for a
// zero-value Version (used before a request has been parsed).
func (v Version) String() string {
	if v == "" {
		return string(HTTP11)
	}
	return string(v)
}
