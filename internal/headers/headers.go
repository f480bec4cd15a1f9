// Package headers parses a CGI script's header block (spec §4.5 point 6):
// the "Status:"/"Location:"/ordinary-field lines a CGI script writes ahead
// of its body, terminated by a blank line. Incoming HTTP request headers
// are never interpreted by this server (spec §4.2 step 8), so unlike the
// map-based header store this package is descended from, this one keeps
// headers in the order the script wrote them — CGI/1.1 callers are
// expected to forward non-status fields to the client verbatim and in
// order, which a map cannot preserve.
package headers

import (
	"bytes"
	"errors"
	"strings"
)

var (
	ErrMalformedHeaderLine = errors.New("malformed header-line")
	ErrHeaderLineTooLong   = errors.New("header line too long")

	separator = []byte("\r\n")
)

// maxHeaderLine bounds a single unterminated header line the way the
// teacher's per-line cap did, guarding against a runaway script.
const maxHeaderLine = 8 * 1024

// Header is one ordered (name, value) pair from a script's header block.
type Header struct {
	Name  string
	Value string
}

// ParseBlock scans data for a CGI header block terminated by a blank line
// (CRLFCRLF or, since scripts commonly emit bare LF, LFLF — ParseBlock
// accepts either line ending on input). It returns the ordered headers,
// the byte offset where the body begins, and whether a terminating blank
// line was found at all; a false done with a nil error (and no headers)
// means more bytes are needed before the block can be fully parsed.
func ParseBlock(data []byte) (hdrs []Header, bodyStart int, done bool, err error) {
	nl := []byte("\n")
	useCRLF := bytes.Contains(data, separator)
	sep := nl
	if useCRLF {
		sep = separator
	}

	off := 0
	for {
		idx := bytes.Index(data[off:], sep)
		if idx == -1 {
			if len(data)-off > maxHeaderLine {
				return nil, 0, false, ErrHeaderLineTooLong
			}
			return nil, 0, false, nil
		}

		line := data[off : off+idx]
		lineEnd := off + idx + len(sep)

		if len(line) == 0 {
			return hdrs, lineEnd, true, nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return nil, 0, false, ErrMalformedHeaderLine
		}
		name := strings.TrimSpace(string(line[:colon]))
		if !isToken(name) {
			return nil, 0, false, ErrMalformedHeaderLine
		}
		value := strings.TrimSpace(string(line[colon+1:]))

		hdrs = append(hdrs, Header{Name: name, Value: value})
		off = lineEnd
	}
}

// Get returns the value of the first header matching name, case-
// insensitively, and whether one was found.
func Get(hdrs []Header, name string) (string, bool) {
	for _, h := range hdrs {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

var allowed [256]bool

func init() {
	for c := byte('0'); c <= '9'; c++ {
		allowed[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		allowed[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		allowed[c] = true
	}
	for _, c := range []byte("!#$%&'*+-.^_`|~") {
		allowed[c] = true
	}
}

func isToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c > 127 || !allowed[c] {
			return false
		}
	}
	return true
}
