package server

import (
	"bufio"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgiserve/internal/config"
	"cgiserve/internal/logging"
)

// startServerOnPipe wires a Server's handle() to one end of an in-memory
// net.Pipe connection and returns the other end for the test to drive,
// letting the integration test exercise handle() without opening a real
// socket.
func startServerOnPipe(t *testing.T, cfg *config.ServerConfig) net.Conn {
	t.Helper()
	client, serverConn := net.Pipe()
	s := New(cfg, logging.New(false))
	go s.handle(serverConn)
	t.Cleanup(func() { client.Close() })
	return client
}

func testConfig(t *testing.T, root string) *config.ServerConfig {
	t.Helper()
	cfg := config.Default()
	cfg.DocumentRoot = root
	cfg.CGIBinPath = filepath.Join(root, "cgi-bin")
	cfg.ConnectionTimeoutSeconds = 5
	return cfg
}

func TestHandleServesStaticFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hi there"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "cgi-bin"), 0o755))

	conn := startServerOnPipe(t, testConfig(t, root))
	_, err := conn.Write([]byte("GET /hello.txt HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)

	s := string(resp)
	assert.Contains(t, s, "HTTP/1.1 200 OK\r\n")
	assert.Contains(t, s, "Date: ")
	assert.Contains(t, s, "Server: "+config.Default().ServerName+"\r\n")
	assert.Contains(t, s, "Last-Modified: ")
	assert.Contains(t, s, "Content-Type: text/plain\r\n")
	assert.Contains(t, s, "Content-Length: 8\r\n")
	assert.Contains(t, s, "hi there")
}

func TestHandleMissingFileReturns404(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "cgi-bin"), 0o755))

	conn := startServerOnPipe(t, testConfig(t, root))
	_, err := conn.Write([]byte("GET /missing.txt HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)

	s := string(resp)
	assert.Contains(t, s, "404 Not Found")
	assert.Contains(t, s, "Content-Type: text/html\r\n")
	assert.Contains(t, s, "<html>")
}

func TestHandleMalformedRequestReturns400(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "cgi-bin"), 0o755))

	conn := startServerOnPipe(t, testConfig(t, root))
	_, err := conn.Write([]byte("NOTAVERB\r\n\r\n"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "400 Bad Request")
}

func TestHandleUnsupportedMethodReturns501(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "cgi-bin"), 0o755))

	conn := startServerOnPipe(t, testConfig(t, root))
	_, err := conn.Write([]byte("POST /x HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "501 Not Implemented")
}
