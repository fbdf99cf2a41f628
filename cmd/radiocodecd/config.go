package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// maxDemoPayload mirrors message.MaxLen without importing the message
// package into config.go, which otherwise stays dependency-free.
const maxDemoPayload = 256

type appConfig struct {
	listenAddr      string
	logFormat       string
	logLevel        string
	metricsAddr     string
	hubBuffer       int
	hubPolicy       string
	logMetricsEvery time.Duration
	maxClients      int
	handshakeTO     time.Duration
	clientReadTO    time.Duration

	// bitErrorRate is the probability, in [0,1], that the simulated
	// channel flips one random bit of a burst before decoding it: it picks
	// the demo's failure mode.
	bitErrorRate float64

	// demoVersion/demoSourceAddress/demoPacketType/demoPayloadLen/demoInterval
	// configure the synthetic message the demo transmitter segments and
	// feeds into the simulated channel on a timer; these select the demo's
	// framing mode the way a transport-selection flag would pick a backend.
	demoVersion       string
	demoSourceAddress uint
	demoPacketType    uint
	demoPayloadLen    int
	demoInterval      time.Duration
}

func parseFlags() (*appConfig, bool) {
	cfg := &appConfig{}
	listen := flag.String("listen", ":20000", "Telemetry TCP listen address")
	logFormat := flag.String("log-format", "text", "Log format: text|json")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	metricsAddr := flag.String("metrics-addr", "", "Metrics HTTP listen address (e.g., :9100); empty disables")
	hubBuf := flag.Int("hub-buffer", 512, "Per-client hub buffer (messages)")
	hubPolicy := flag.String("hub-policy", "drop", "Backpressure policy: drop|kick")
	logMetricsEvery := flag.Duration("log-metrics-interval", 0, "If >0, periodically log metrics counters (for non-Prometheus setups)")
	maxClients := flag.Int("max-clients", 0, "Maximum simultaneous TCP clients (0 = unlimited)")
	handshakeTO := flag.Duration("handshake-timeout", 3*time.Second, "Client handshake timeout")
	clientReadTO := flag.Duration("client-read-timeout", 60*time.Second, "Per-connection read deadline")
	bitErrorRate := flag.Float64("bit-error-rate", 0, "Probability in [0,1] that the simulated channel flips one random bit per burst")
	demoVersion := flag.String("demo-version", "v2", "Demo message framing: legacy|v2|naked")
	demoSourceAddress := flag.Uint("demo-source-address", 0x55, "Demo message source address")
	demoPacketType := flag.Uint("demo-packet-type", 0x100, "Demo message packet type (V2/Legacy only)")
	demoPayloadLen := flag.Int("demo-payload-len", 16, "Demo message payload length in bytes")
	demoInterval := flag.Duration("demo-interval", time.Second, "Interval between synthetic demo messages")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Track which flags were explicitly set to give them precedence over env.
	setFlags := map[string]struct{}{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })
	cfg.listenAddr = *listen
	cfg.logFormat = *logFormat
	cfg.logLevel = *logLevel
	cfg.metricsAddr = *metricsAddr
	cfg.hubBuffer = *hubBuf
	cfg.hubPolicy = *hubPolicy
	cfg.logMetricsEvery = *logMetricsEvery
	cfg.maxClients = *maxClients
	cfg.handshakeTO = *handshakeTO
	cfg.clientReadTO = *clientReadTO
	cfg.bitErrorRate = *bitErrorRate
	cfg.demoVersion = *demoVersion
	cfg.demoSourceAddress = *demoSourceAddress
	cfg.demoPacketType = *demoPacketType
	cfg.demoPayloadLen = *demoPayloadLen
	cfg.demoInterval = *demoInterval

	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		fmt.Printf("environment override error: %v\n", err)
		return nil, *showVersion
	}
	if err := cfg.validate(); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		return nil, *showVersion
	}
	return cfg, *showVersion
}

// validate performs basic semantic validation of the parsed configuration.
// It does not attempt to open listeners – only checks values/ranges.
func (c *appConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	switch c.hubPolicy {
	case "drop", "kick":
	default:
		return fmt.Errorf("invalid hub-policy: %s", c.hubPolicy)
	}
	switch c.demoVersion {
	case "legacy", "v2", "naked":
	default:
		return fmt.Errorf("invalid demo-version: %s", c.demoVersion)
	}
	if c.hubBuffer <= 0 {
		return fmt.Errorf("hub-buffer must be > 0 (got %d)", c.hubBuffer)
	}
	if c.handshakeTO <= 0 {
		return fmt.Errorf("handshake-timeout must be > 0")
	}
	if c.clientReadTO <= 0 {
		return fmt.Errorf("client-read-timeout must be > 0")
	}
	if c.maxClients < 0 {
		return fmt.Errorf("max-clients must be >= 0")
	}
	if c.bitErrorRate < 0 || c.bitErrorRate > 1 {
		return fmt.Errorf("bit-error-rate must be in [0,1] (got %v)", c.bitErrorRate)
	}
	if c.demoPayloadLen <= 0 || c.demoPayloadLen > maxDemoPayload {
		return fmt.Errorf("demo-payload-len must be in (0,%d] (got %d)", maxDemoPayload, c.demoPayloadLen)
	}
	if c.demoInterval <= 0 {
		return fmt.Errorf("demo-interval must be > 0")
	}
	return nil
}

// applyEnvOverrides maps RADIOCODECD_* environment variables to config
// fields unless a corresponding flag was explicitly set. Boolean & numeric
// parsing is lax: empty values ignored. Duration accepts Go
// time.ParseDuration format.
func applyEnvOverrides(c *appConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }
	setErr := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}
	if _, ok := set["listen"]; !ok {
		if v, ok := get("RADIOCODECD_LISTEN"); ok && v != "" {
			c.listenAddr = v
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("RADIOCODECD_LOG_FORMAT"); ok && v != "" {
			c.logFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("RADIOCODECD_LOG_LEVEL"); ok && v != "" {
			c.logLevel = v
		}
	}
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("RADIOCODECD_METRICS"); ok {
			c.metricsAddr = v
		}
	}
	if _, ok := set["hub-buffer"]; !ok {
		if v, ok := get("RADIOCODECD_HUB_BUFFER"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.hubBuffer = n
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_HUB_BUFFER: %w", err))
			}
		}
	}
	if _, ok := set["hub-policy"]; !ok {
		if v, ok := get("RADIOCODECD_HUB_POLICY"); ok && v != "" {
			c.hubPolicy = v
		}
	}
	if _, ok := set["max-clients"]; !ok {
		if v, ok := get("RADIOCODECD_MAX_CLIENTS"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				c.maxClients = n
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_MAX_CLIENTS: %w", err))
			}
		}
	}
	if _, ok := set["handshake-timeout"]; !ok {
		if v, ok := get("RADIOCODECD_HANDSHAKE_TIMEOUT"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.handshakeTO = d
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_HANDSHAKE_TIMEOUT: %w", err))
			}
		}
	}
	if _, ok := set["client-read-timeout"]; !ok {
		if v, ok := get("RADIOCODECD_CLIENT_READ_TIMEOUT"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.clientReadTO = d
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_CLIENT_READ_TIMEOUT: %w", err))
			}
		}
	}
	if _, ok := set["log-metrics-interval"]; !ok {
		if v, ok := get("RADIOCODECD_LOG_METRICS_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				c.logMetricsEvery = d
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_LOG_METRICS_INTERVAL: %w", err))
			}
		}
	}
	if _, ok := set["bit-error-rate"]; !ok {
		if v, ok := get("RADIOCODECD_BIT_ERROR_RATE"); ok && v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.bitErrorRate = f
			} else {
				setErr(fmt.Errorf("invalid RADIOCODECD_BIT_ERROR_RATE: %w", err))
			}
		}
	}
	if _, ok := set["demo-version"]; !ok {
		if v, ok := get("RADIOCODECD_DEMO_VERSION"); ok && v != "" {
			c.demoVersion = v
		}
	}
	if _, ok := set["demo-source-address"]; !ok {
		if v, ok := get("RADIOCODECD_DEMO_SOURCE_ADDRESS"); ok && v != "" {
			if n, err := strconv.ParseUint(v, 0, 32); err == nil {
				c.demoSourceAddress = uint(n)
			} else {
				setErr(fmt.Errorf("invalid RADIOCODECD_DEMO_SOURCE_ADDRESS: %w", err))
			}
		}
	}
	if _, ok := set["demo-packet-type"]; !ok {
		if v, ok := get("RADIOCODECD_DEMO_PACKET_TYPE"); ok && v != "" {
			if n, err := strconv.ParseUint(v, 0, 32); err == nil {
				c.demoPacketType = uint(n)
			} else {
				setErr(fmt.Errorf("invalid RADIOCODECD_DEMO_PACKET_TYPE: %w", err))
			}
		}
	}
	if _, ok := set["demo-payload-len"]; !ok {
		if v, ok := get("RADIOCODECD_DEMO_PAYLOAD_LEN"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.demoPayloadLen = n
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_DEMO_PAYLOAD_LEN: %w", err))
			}
		}
	}
	if _, ok := set["demo-interval"]; !ok {
		if v, ok := get("RADIOCODECD_DEMO_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.demoInterval = d
			} else if err != nil {
				setErr(fmt.Errorf("invalid RADIOCODECD_DEMO_INTERVAL: %w", err))
			}
		}
	}
	return firstErr
}
