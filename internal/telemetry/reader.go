package telemetry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/kstaniek/radiocodecd/internal/fanout"
	"github.com/kstaniek/radiocodecd/internal/metrics"
)

// startReader drains whatever a client sends (telemetry clients are
// read-only subscribers; this loop exists purely to notice disconnects
// promptly).
func (s *Server) startReader(ctxDone <-chan struct{}, conn net.Conn, cl *fanout.Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { _ = conn.Close() }()
		buf := make([]byte, 256)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(s.readDeadline))
			_, err := conn.Read(buf)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					return
				}
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					select {
					case <-ctxDone:
						return
					default:
						continue
					}
				}
				wrap := fmt.Errorf("%w: %v", ErrConnRead, err)
				metrics.IncError(mapErrToMetric(wrap))
				s.setError(wrap)
				logger.Debug("conn_read_error", "error", wrap)
				return
			}
			select {
			case <-ctxDone:
				return
			default:
			}
		}
	}()
}
