package backend

import (
	"fmt"
	"net"
	"time"

	"github.com/idlenpu/waker-desktop/internal/config"
)

// ExitRequestTimeout bounds both the connect and the write of the
// cooperative exit request.
const ExitRequestTimeout = 300 * time.Millisecond

// RequestExit writes a bodiless POST /api/app/exit to the backend. The
// response is never read; a closed port or a hung peer just yields an
// error the caller may ignore.
func RequestExit(ep config.Endpoint, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", ep.Address(), timeout)
	if err != nil {
		return fmt.Errorf("connect %s: %w", ep.Address(), err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	req := "POST /api/app/exit HTTP/1.1\r\n" +
		"Host: " + ep.Address() + "\r\n" +
		"Content-Length: 0\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	if _, err := conn.Write([]byte(req)); err != nil {
		return fmt.Errorf("write exit request: %w", err)
	}
	return nil
}
