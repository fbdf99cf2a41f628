package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kstaniek/radiocodecd/internal/fanout"
	"github.com/kstaniek/radiocodecd/internal/metrics"
	"github.com/kstaniek/radiocodecd/internal/telemetry"
)

// Helper implementations moved to dedicated files: config.go, logger.go, metrics_logger.go, demo.go, lasotype.go.

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("radiocodecd %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if cfg == nil {
		os.Exit(1)
	}
	l := setupLogger(cfg.logFormat, cfg.logLevel)

	h := fanout.New()
	h.OutBufSize = cfg.hubBuffer
	switch cfg.hubPolicy {
	case "kick":
		h.Policy = fanout.PolicyKick
	default:
		h.Policy = fanout.PolicyDrop
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	ch := newDemoChannel(ctx, cfg, h, l)
	defer ch.Close()
	demoTransmitter(ctx, cfg, ch, l, &wg)

	srv := telemetry.NewServer(
		telemetry.WithHub(h),
		telemetry.WithLogger(l),
		telemetry.WithMaxClients(cfg.maxClients),
		telemetry.WithHandshakeTimeout(cfg.handshakeTO),
		telemetry.WithReadDeadline(cfg.clientReadTO),
	)
	srv.SetListenAddr(cfg.listenAddr)
	go func() {
		if err := srv.Serve(ctx); err != nil {
			l.Error("tcp_server_error", "error", err)
			cancel()
		}
	}()

	metrics.SetReadinessFunc(func() bool {
		select {
		case <-srv.Ready():
		default:
			return false
		}
		return ctx.Err() == nil
	})
	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		srvHTTP := metrics.StartHTTP(cfg.metricsAddr)
		defer func() { _ = srvHTTP.Shutdown(context.Background()) }()
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())
	cancel()
	_ = srv.Shutdown(context.Background())
	wg.Wait()
}
