package client

import (
	"errors"
	"net"
	"testing"

	"indexdb/pkg/protocol"
)

func TestDialInvalidAddr(t *testing.T) {
	_, err := Dial("invalid:invalid:invalid")
	if err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestDialUnreachable(t *testing.T) {
	// Connect to non-routable IP (RFC 5737) - expect error
	_, err := Dial("192.0.2.1:9999")
	if err == nil {
		t.Skip("connection unexpectedly succeeded (e.g. in sandbox)")
	}
}

// serveOnce answers the first request on l with the given frame.
func serveOnce(t *testing.T, op byte, key, val []byte) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { l.Close() })

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, err := protocol.Decode(conn); err != nil {
			return
		}
		protocol.Encode(conn, op, key, val)
	}()
	return l.Addr().String()
}

func TestServerErrorIsSurfaced(t *testing.T) {
	addr := serveOnce(t, protocol.RespErr, nil, []byte("syntax error: boom"))
	cli, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer cli.Close()

	_, err = cli.Query("SELECT nonsense")
	if err == nil || err.Error() != "server: syntax error: boom" {
		t.Fatalf("expected server error, got %v", err)
	}
}

func TestUnexpectedOpcode(t *testing.T) {
	addr := serveOnce(t, 0x7A, nil, nil)
	cli, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer cli.Close()

	if _, err := cli.Delete(1); !errors.Is(err, ErrUnexpectedResponse) {
		t.Fatalf("expected ErrUnexpectedResponse, got %v", err)
	}
}
