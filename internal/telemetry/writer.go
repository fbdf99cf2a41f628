package telemetry

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"

	"github.com/kstaniek/radiocodecd/internal/fanout"
	"github.com/kstaniek/radiocodecd/internal/message"
	"github.com/kstaniek/radiocodecd/internal/metrics"
)

// encodeLine renders one reconstructed message as a single text line, the
// simplest wire format that can carry a variable-length payload without a
// length-prefixed binary framing the demo has no other use for.
func encodeLine(msg message.Message) []byte {
	return []byte(fmt.Sprintf("version=%s src=%#x type=%#x listen=%t data=%x\n",
		msg.Version, msg.SourceAddress, msg.PacketType, msg.WillListen, msg.Payload()))
}

// startWriter launches the goroutine pushing hub messages to a single
// client connection, one line per message.
func (s *Server) startWriter(ctxDone <-chan struct{}, conn net.Conn, cl *fanout.Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			_ = conn.Close()
			if s.Hub != nil {
				s.Hub.Remove(cl)
			}
			s.totalDisconnected.Add(1)
			logger.Info("client_disconnected")
		}()
		w := bufio.NewWriter(conn)
		for {
			select {
			case msg := <-cl.Out:
				if _, err := w.Write(encodeLine(msg)); err != nil {
					wrap := fmt.Errorf("%w: %v", ErrConnWrite, err)
					metrics.IncError(mapErrToMetric(wrap))
					s.setError(wrap)
					return
				}
				if err := w.Flush(); err != nil {
					wrap := fmt.Errorf("%w: %v", ErrConnWrite, err)
					metrics.IncError(mapErrToMetric(wrap))
					s.setError(wrap)
					return
				}
				metrics.AddTCPTx(1)
			case <-cl.Closed:
				return
			case <-ctxDone:
				return
			}
		}
	}()
}
