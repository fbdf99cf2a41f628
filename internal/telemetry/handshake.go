package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const hello = "RADIOCODECv1"

// handshake performs the short hello exchange both sides must complete
// before any telemetry line is sent: a 12-byte literal written and read
// concurrently, bounded by timeout.
func handshake(ctx context.Context, c net.Conn, timeout time.Duration) error {
	if err := c.SetDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	defer c.SetDeadline(time.Time{})

	errCh := make(chan error, 2)

	go func() {
		_, err := io.WriteString(c, hello)
		errCh <- err
	}()

	go func() {
		buf := make([]byte, len(hello))
		_, err := io.ReadFull(c, buf)
		if err == nil && string(buf) != hello {
			err = errors.New("bad hello")
		}
		errCh <- err
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
		}
	}
	return nil
}

// Handshake runs the required hello exchange for conn using the server's
// configured timeout.
func (s *Server) Handshake(ctx context.Context, conn net.Conn) error {
	return handshake(ctx, conn, s.handshakeTimeout)
}
