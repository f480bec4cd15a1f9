// Package netutil constructs the listening socket. The original server
// called setsockopt(SO_REUSEADDR) before bind() so a restart didn't have
// to wait out TIME_WAIT; net.Listen alone doesn't expose that option, so
// this reaches into the socket via net.ListenConfig.Control the same way
// the rest of this port uses golang.org/x/sys/unix for the syscalls Go's
// standard library won't do on its own.
package netutil

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Listen opens a TCP listener on port with SO_REUSEADDR set.
func Listen(port string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	return lc.Listen(context.Background(), "tcp", fmt.Sprintf(":%s", port))
}
