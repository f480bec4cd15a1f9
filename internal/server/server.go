// Package server implements the connection driver (C7): one goroutine per
// accepted connection, reading exactly one request head, dispatching to
// the static or CGI responder, and writing back a formatted response —
// the same accept-loop shape as the teacher's listen()/handle(), carrying
// the sequential, non-pipelined, Connection: close contract spec §5
// describes instead of the teacher's keep-alive-agnostic demo handler.
package server

import (
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"cgiserve/internal/cgi"
	"cgiserve/internal/config"
	"cgiserve/internal/httpstatus"
	"cgiserve/internal/iobuf"
	"cgiserve/internal/logging"
	"cgiserve/internal/netutil"
	"cgiserve/internal/request"
	"cgiserve/internal/response"
	"cgiserve/internal/static"
	"cgiserve/internal/statuserr"
)

// maxRequestHead bounds the accumulated request-line-plus-headers buffer,
// matching the original server's 32 KiB request_buffer in handle_client.
const maxRequestHead = 32 * 1024

// Server owns the listening socket and the configuration every accepted
// connection is served against.
type Server struct {
	cfg      *config.ServerConfig
	log      *logrus.Logger
	listener net.Listener
	closed   atomic.Bool
}

// New constructs a Server bound to cfg and log without opening a socket.
func New(cfg *config.ServerConfig, log *logrus.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

// ListenAndServe opens the listening socket and blocks accepting
// connections until Close is called, at which point it returns nil.
func (s *Server) ListenAndServe() error {
	l, err := netutil.Listen(s.cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = l
	s.log.WithField("port", s.cfg.Port).Info("server listening")

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.WithError(err).Warn("accept failed, continuing")
			continue
		}
		go s.handle(conn)
	}
}

// Close stops accepting new connections. It is idempotent, matching the
// teacher's Close.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// handle serves exactly one request per connection: the pipeline is
// sequential and closes the connection after the response regardless of
// what the client sent, per spec §5.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	start := time.Now()
	remoteAddr := conn.RemoteAddr().String()

	if s.cfg.ConnectionTimeoutSeconds > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.ConnectionTimeout()))
	}

	reader := iobuf.New(conn)
	head, err := s.readHeadBlock(reader)
	if err != nil {
		// A deadline expiry closes the connection without an error response.
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return
		}
		s.writeErrorPage(conn, statuserr.BadRequest("failed to read request head"), "HTTP/1.1")
		logging.Access(s.log, remoteAddr, "-", "-", httpstatus.BadRequest, time.Since(start).Milliseconds())
		return
	}

	req, serr := request.Parse(head, s.cfg.DynamicDirName)
	if serr != nil {
		s.writeErrorPage(conn, serr, "HTTP/1.1")
		logging.Access(s.log, remoteAddr, "-", "-", serr.Status, time.Since(start).Milliseconds())
		return
	}

	var resp *response.Response
	var closeFile io.Closer

	if req.IsDynamic {
		resp, serr = cgi.Serve(s.cfg.DocumentRoot, req, cgi.ServerInfo{
			Port:          s.cfg.Port,
			SoftwareName:  s.cfg.ServerName,
			ScriptTimeout: s.cfg.CGITimeout(),
		})
	} else {
		var f io.Closer
		resp, f, serr = static.Serve(s.cfg.DocumentRoot, s.cfg.ServerName, req)
		closeFile = f
	}
	if closeFile != nil {
		defer closeFile.Close()
	}

	if serr != nil {
		s.writeErrorPage(conn, serr, req.Version.String())
		logging.Access(s.log, remoteAddr, string(req.Method), req.Path, serr.Status, time.Since(start).Milliseconds())
		return
	}

	if err := resp.Write(conn); err != nil {
		s.log.WithError(err).Warn("failed to write response header")
		return
	}
	if resp.Body != nil {
		if _, err := io.Copy(conn, resp.Body); err != nil {
			s.log.WithError(err).Warn("failed to stream response body")
			return
		}
	}

	logging.Access(s.log, remoteAddr, string(req.Method), req.Path, resp.Status, time.Since(start).Milliseconds())
}

// readHeadBlock accumulates lines from r until a blank line terminates
// the header block, capped at maxRequestHead the way handle_client capped
// its stack buffer.
func (s *Server) readHeadBlock(r *iobuf.Reader) ([]byte, error) {
	var head []byte
	for len(head) < maxRequestHead {
		line, err := r.ReadLine(maxRequestHead - len(head) + 1)
		if err != nil {
			return nil, err
		}
		head = append(head, line...)
		if string(line) == "\r\n" || string(line) == "\n" {
			return head, nil
		}
	}
	return nil, fmt.Errorf("request head exceeded %d bytes without a terminating blank line", maxRequestHead)
}

// writeErrorPage formats an HTML error body per spec §4.7 step 3
// (status line + Date, Server, Connection: close, Content-Type:
// text/html, Content-Length, HTML body), best-effort — a write failure
// here just means the client already hung up.
func (s *Server) writeErrorPage(w io.Writer, serr *statuserr.Error, version string) {
	body := fmt.Sprintf(
		"<html><head><title>%d %s</title></head><body><h1>%d %s</h1><p>%s</p></body></html>\n",
		serr.Status, serr.Reason, serr.Status, serr.Reason, html.EscapeString(serr.Message),
	)
	resp := response.New(serr.Status, version, s.cfg.ServerName, "text/html", int64(len(body)), strings.NewReader(body))
	_ = resp.Write(w)
	_, _ = io.Copy(w, resp.Body)
}
