package netutil

import (
	"fmt"
	"net"
)

// FreePort asks the kernel for a free TCP port on 127.0.0.1 and returns it
// after closing the temporary listener. Nothing holds the port afterwards, so
// another process may still take it before the JVM binds it; callers get
// a bind error from the runtime in that case, not a silent conflict.
func FreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("resolve tcp address: %w", err)
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("listen on tcp address: %w", err)
	}
	tcpAddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		_ = l.Close()
		return 0, fmt.Errorf("unexpected address type: %T", l.Addr())
	}
	if err := l.Close(); err != nil {
		return 0, fmt.Errorf("close temporary listener on port %d: %w", tcpAddr.Port, err)
	}
	return tcpAddr.Port, nil
}
