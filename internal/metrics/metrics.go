package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/kstaniek/radiocodecd/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters
var (
	PacketsEncoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packets_encoded_total",
		Help: "Total packets run through the transmit pipeline.",
	})
	PacketsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packets_decoded_total",
		Help: "Total bursts run through the decode pipeline.",
	})
	GolayBitsCorrected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "golay_bits_corrected_total",
		Help: "Total bit errors corrected by the Golay(24,12) decoder.",
	})
	GolayParityViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "golay_parity_violations_total",
		Help: "Total Golay codewords whose overall parity bit disagreed after correction.",
	})
	CRC8Failures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crc8_failures_total",
		Help: "Total running CRC8 mismatches detected while assembling a message.",
	})
	MessagesAssembled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messages_assembled_total",
		Help: "Total messages fully reassembled by the receive assembler.",
	})
	TCPRxFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcp_rx_frames_total",
		Help: "Total bursts received from TCP clients.",
	})
	TCPTxFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcp_tx_frames_total",
		Help: "Total messages sent to TCP clients.",
	})
	HubDroppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_dropped_frames_total",
		Help: "Total messages dropped by the fan-out hub due to slow clients.",
	})
	HubKickedClients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_kicked_clients_total",
		Help: "Total clients disconnected due to the backpressure kick policy.",
	})
	HubRejectedClients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_rejected_clients_total",
		Help: "Total client connection attempts rejected (e.g., max-clients).",
	})
	HubActiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_active_clients",
		Help: "Current number of active connected clients.",
	})
	HubBroadcastFanout = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_broadcast_fanout",
		Help: "Number of clients targeted in the most recent broadcast.",
	})
	HubQueueDepthMax = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_queue_depth_max",
		Help: "Observed max queued messages among clients since last sample window.",
	})
	HubQueueDepthAvg = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_queue_depth_avg",
		Help: "Approximate average queued messages per client in last sample.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})
	MalformedPackets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "malformed_packets_total",
		Help: "Total packets rejected by the receive assembler (see errors_total{where=~\"rx_.*\"} for the breakdown).",
	})
	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality). The
// rx_* values mirror rxassemble.MetricLabel's sentinel set.
const (
	ErrTCPRead      = "tcp_read"
	ErrTCPWrite     = "tcp_write"
	ErrHandshake    = "handshake"
	ErrRxOutOfOrder = "rx_out_of_order"
	ErrRxUnexpected = "rx_unexpected"
	ErrRxInvalid    = "rx_invalid"
	ErrRxCRCFailed  = "rx_crc_failed"
	ErrRxFull       = "rx_full"
	ErrRxUnknown    = "rx_unknown_packet"
	ErrRxRawPending = "rx_raw_needs_decoding"
	ErrRxInternal   = "rx_internal_only"
	ErrRxOther      = "rx_other"
)

// StartHTTP serves Prometheus metrics at /metrics and readiness at /ready on
// addr, using its own mux, from a background goroutine.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters for easy logging (avoid Prometheus scraping in-process)
var (
	localPacketsEncoded    uint64
	localPacketsDecoded    uint64
	localGolayCorrected    uint64
	localGolayParityViol   uint64
	localCRC8Failures      uint64
	localMessagesAssembled uint64
	localTCPRx             uint64
	localTCPTx             uint64
	localHubDrop           uint64
	localHubKick           uint64
	localHubReject         uint64
	localErrors            uint64
	localHubClients        uint64
	localFanout            uint64
	localMalformed         uint64
	localQDMax             uint64
	localQDAvg             uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	PacketsEncoded    uint64
	PacketsDecoded    uint64
	GolayCorrected    uint64
	GolayParityViol   uint64
	CRC8Failures      uint64
	MessagesAssembled uint64
	TCPRx             uint64
	TCPTx             uint64
	HubDrops          uint64
	HubKicks          uint64
	HubRejects        uint64
	Errors            uint64 // sum across error labels
	HubClients        uint64
	Fanout            uint64
	Malformed         uint64
	QueueDepthMax     uint64
	QueueDepthAvg     uint64
}

func Snap() Snapshot {
	return Snapshot{
		PacketsEncoded:    atomic.LoadUint64(&localPacketsEncoded),
		PacketsDecoded:    atomic.LoadUint64(&localPacketsDecoded),
		GolayCorrected:    atomic.LoadUint64(&localGolayCorrected),
		GolayParityViol:   atomic.LoadUint64(&localGolayParityViol),
		CRC8Failures:      atomic.LoadUint64(&localCRC8Failures),
		MessagesAssembled: atomic.LoadUint64(&localMessagesAssembled),
		TCPRx:             atomic.LoadUint64(&localTCPRx),
		TCPTx:             atomic.LoadUint64(&localTCPTx),
		HubDrops:          atomic.LoadUint64(&localHubDrop),
		HubKicks:          atomic.LoadUint64(&localHubKick),
		HubRejects:        atomic.LoadUint64(&localHubReject),
		Errors:            atomic.LoadUint64(&localErrors),
		HubClients:        atomic.LoadUint64(&localHubClients),
		Fanout:            atomic.LoadUint64(&localFanout),
		Malformed:         atomic.LoadUint64(&localMalformed),
		QueueDepthMax:     atomic.LoadUint64(&localQDMax),
		QueueDepthAvg:     atomic.LoadUint64(&localQDAvg),
	}
}

// Wrapper helpers to keep call sites simple.
func IncPacketsEncoded() {
	PacketsEncoded.Inc()
	atomic.AddUint64(&localPacketsEncoded, 1)
}

func IncPacketsDecoded() {
	PacketsDecoded.Inc()
	atomic.AddUint64(&localPacketsDecoded, 1)
}

func AddGolayCorrected(n int) {
	if n <= 0 {
		return
	}
	GolayBitsCorrected.Add(float64(n))
	atomic.AddUint64(&localGolayCorrected, uint64(n))
}

func AddGolayParityViolations(n int) {
	if n <= 0 {
		return
	}
	GolayParityViolations.Add(float64(n))
	atomic.AddUint64(&localGolayParityViol, uint64(n))
}

func IncCRC8Failure() {
	CRC8Failures.Inc()
	atomic.AddUint64(&localCRC8Failures, 1)
}

func IncMessageAssembled() {
	MessagesAssembled.Inc()
	atomic.AddUint64(&localMessagesAssembled, 1)
}

func IncTCPRx() {
	TCPRxFrames.Inc()
	atomic.AddUint64(&localTCPRx, 1)
}

func AddTCPTx(n int) {
	TCPTxFrames.Add(float64(n))
	atomic.AddUint64(&localTCPTx, uint64(n))
}

func IncHubDrop() {
	HubDroppedFrames.Inc()
	atomic.AddUint64(&localHubDrop, 1)
}

func IncHubKick() {
	HubKickedClients.Inc()
	atomic.AddUint64(&localHubKick, 1)
}

func IncHubReject() {
	HubRejectedClients.Inc()
	atomic.AddUint64(&localHubReject, 1)
}

func SetHubClients(n int) {
	HubActiveClients.Set(float64(n))
	atomic.StoreUint64(&localHubClients, uint64(n))
}

func SetBroadcastFanout(n int) {
	HubBroadcastFanout.Set(float64(n))
	atomic.StoreUint64(&localFanout, uint64(n))
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

func IncMalformed() {
	MalformedPackets.Inc()
	atomic.AddUint64(&localMalformed, 1)
}

// SetQueueDepth records a snapshot of max and avg queue depth.
func SetQueueDepth(max, avg int) {
	HubQueueDepthMax.Set(float64(max))
	HubQueueDepthAvg.Set(float64(avg))
	atomic.StoreUint64(&localQDMax, uint64(max))
	atomic.StoreUint64(&localQDAvg, uint64(avg))
}

// InitBuildInfo sets the build info gauge (should be called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	// Pre-register common error label series so first error does not pay
	// registration latency.
	for _, lbl := range []string{
		ErrTCPRead, ErrTCPWrite, ErrHandshake,
		ErrRxOutOfOrder, ErrRxUnexpected, ErrRxInvalid, ErrRxCRCFailed,
		ErrRxFull, ErrRxUnknown, ErrRxRawPending, ErrRxInternal, ErrRxOther,
	} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil { // if not set yet, treat as ready so metrics endpoint doesn't flap
		return true
	}
	return fn()
}

// Ready is a concise alias used at call sites.
func Ready() bool { return IsReady() }
