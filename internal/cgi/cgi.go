// Package cgi implements the dynamic responder (C5): launching a CGI/1.1
// script with the request's environment, draining its combined
// stdout+stderr pipe fully, then splitting the captured bytes into a
// header block and a body.
package cgi

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"cgiserve/internal/headers"
	"cgiserve/internal/httpstatus"
	"cgiserve/internal/pathutil"
	"cgiserve/internal/request"
	"cgiserve/internal/response"
	"cgiserve/internal/statuserr"
)

// ServerInfo carries the values the environment-variable block needs from
// the listening server rather than from the request itself.
type ServerInfo struct {
	Port          string
	SoftwareName  string
	ScriptTimeout time.Duration // zero disables the timeout
}

// Serve resolves req.Path to a script under documentRoot, executes it per
// CGI/1.1, and returns the translated Response. The returned Response's
// Body is an in-memory reader over the already-drained script output —
// unlike the static responder, there is no live file descriptor to keep
// open, so Serve has no second return value to close.
func Serve(documentRoot string, req *request.Request, info ServerInfo) (*response.Response, *statuserr.Error) {
	absPath, serr := pathutil.Compose(documentRoot, req.Path)
	if serr != nil {
		return nil, serr
	}

	if fi, err := os.Stat(absPath); err != nil {
		return nil, statuserr.NotFound("CGI script not found")
	} else if fi.IsDir() {
		return nil, statuserr.NotFound("CGI script path is a directory")
	}
	if err := unix.Access(absPath, unix.X_OK); err != nil {
		return nil, statuserr.Forbidden("CGI script is not executable")
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, statuserr.Internal("failed to create CGI output pipe")
	}

	cmd := exec.Command(absPath)
	cmd.Env = buildEnv(req, info, absPath)
	cmd.Stdout = pw
	cmd.Stderr = pw
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, statuserr.Internal("failed to start CGI script")
	}
	// The write end must be closed in the parent too, or ReadAll below
	// will block forever waiting for a pipe that is still "open" because
	// this process, not just the child, holds a writable fd to it.
	pw.Close()

	output, timedOut := drainWithTimeout(pr, cmd, info.ScriptTimeout)

	waitErr := cmd.Wait()
	if timedOut {
		return nil, statuserr.New(httpstatus.ServiceUnavailable, "CGI script timed out")
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, statuserr.Internal("failed to run CGI script")
		}
		// A nonzero exit with output already produced is still translated
		// below; only a wait failure with no captured bytes is fatal.
		if len(output) == 0 {
			return nil, statuserr.Internal("CGI script exited with no output")
		}
	}

	return translate(req.Version.String(), info.SoftwareName, output)
}

// drainWithTimeout reads pr to completion (or until info's timeout fires,
// in which case the child is killed so the read unblocks). The parent
// must finish draining before calling cmd.Wait — waiting first risks a
// child blocked on a full pipe, which is a deadlock between the two
// processes.
func drainWithTimeout(pr *os.File, cmd *exec.Cmd, timeout time.Duration) (data []byte, timedOut bool) {
	done := make(chan struct{})
	var buf []byte
	var readErr error
	go func() {
		buf, readErr = io.ReadAll(pr)
		close(done)
	}()

	if timeout <= 0 {
		<-done
		return buf, false
	}

	select {
	case <-done:
		return buf, false
	case <-time.After(timeout):
		terminateChild(cmd)
		<-done
		_ = readErr
		return buf, true
	}
}

// terminateChild sends SIGTERM and, if the process has not exited within
// a grace period, SIGKILL — the same escalation the original server's
// signal handling used for shutdown, reused here for a runaway script.
func terminateChild(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)
	grace := time.NewTimer(2 * time.Second)
	defer grace.Stop()

	exited := make(chan struct{})
	go func() {
		_, _ = cmd.Process.Wait()
		close(exited)
	}()

	select {
	case <-exited:
	case <-grace.C:
		_ = cmd.Process.Kill()
	}
}

// translate splits the captured output into the CGI header block and
// body, honoring a Status: header as the HTTP status line (spec §4.5
// point 5) and a Location: header as an implicit 302 redirect when no
// explicit Status: was given (a supplemented CGI/1.1 behavior the
// original server's write_cgi_headers never implemented). The parent
// writes Server: itself (spec §4.5 point 3) — a CGI script's own output
// never supplies it.
func translate(version, serverName string, output []byte) (*response.Response, *statuserr.Error) {
	hdrs, bodyStart, done, err := headers.ParseBlock(output)
	if err != nil {
		return nil, statuserr.Internal("malformed CGI header block")
	}
	if !done {
		hdrs, bodyStart = nil, 0
	}
	body := output[bodyStart:]

	status := httpstatus.OK
	contentType := "text/html"
	var extra []headers.Header

	if v, ok := headers.Get(hdrs, "Status"); ok {
		if n, convErr := strconv.Atoi(firstToken(v)); convErr == nil {
			status = n
		}
	} else if loc, ok := headers.Get(hdrs, "Location"); ok {
		status = httpstatus.Found
		_ = loc
	}

	for _, h := range hdrs {
		switch {
		case strings.EqualFold(h.Name, "Status"):
			continue
		case strings.EqualFold(h.Name, "Content-Type"):
			contentType = h.Value
		default:
			extra = append(extra, h)
		}
	}

	resp := response.New(status, version, serverName, contentType, int64(len(body)), bytes.NewReader(body))
	resp.Extra = extra
	return resp, nil
}

func firstToken(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i]
		}
	}
	return s
}

// buildEnv assembles the CGI/1.1 environment block (spec §4.5 point 2).
func buildEnv(req *request.Request, info ServerInfo, scriptPath string) []string {
	env := []string{
		"REQUEST_METHOD=" + string(req.Method),
		"SERVER_PORT=" + info.Port,
		"SCRIPT_NAME=" + req.Path,
		"SERVER_SOFTWARE=" + info.SoftwareName,
		"SERVER_NAME=" + info.SoftwareName,
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_PROTOCOL=" + req.Version.String(),
		"CONTENT_TYPE=",
		"CONTENT_LENGTH=0",
		"QUERY_STRING=" + buildQueryString(req),
	}
	return env
}

// buildQueryString re-encodes the already-decoded query parameters rather
// than forwarding the raw wire query string, so a CGI script always
// receives a canonical application/x-www-form-urlencoded string (decision
// #3) regardless of how the client escaped it on the wire.
func buildQueryString(req *request.Request) string {
	if len(req.Params) == 0 {
		return ""
	}
	var out string
	for i, p := range req.Params {
		if i > 0 {
			out += "&"
		}
		out += url.QueryEscape(p.Name)
		if p.Value != "" {
			out += "=" + url.QueryEscape(p.Value)
		}
	}
	return out
}
