package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kstaniek/radiocodecd/internal/metrics"
)

func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"packets_encoded", snap.PacketsEncoded,
					"packets_decoded", snap.PacketsDecoded,
					"golay_corrected", snap.GolayCorrected,
					"golay_parity_violations", snap.GolayParityViol,
					"crc8_failures", snap.CRC8Failures,
					"messages_assembled", snap.MessagesAssembled,
					"tcp_rx", snap.TCPRx,
					"tcp_tx", snap.TCPTx,
					"hub_drops", snap.HubDrops,
					"hub_kicks", snap.HubKicks,
					"hub_clients", snap.HubClients,
					"malformed", snap.Malformed,
					"errors", snap.Errors,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
