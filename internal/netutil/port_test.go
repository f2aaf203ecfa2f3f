package netutil

import (
	"fmt"
	"net"
	"testing"
)

func TestFreePort(t *testing.T) {
	t.Parallel()

	port, err := FreePort()
	if err != nil {
		t.Fatalf("FreePort() error = %v", err)
	}
	if port <= 0 || port > 65535 {
		t.Fatalf("FreePort() = %d, want a valid TCP port", port)
	}

	// The temporary listener is closed, so the port can be bound again.
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("listen on returned port %d: %v", port, err)
	}
	_ = l.Close()
}
