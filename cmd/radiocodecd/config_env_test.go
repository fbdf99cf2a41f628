package main

import (
	"os"
	"testing"
	"time"
)

func TestApplyEnvOverrides_Basic(t *testing.T) {
	base := baseConfig()

	os.Setenv("RADIOCODECD_DEMO_VERSION", "naked")
	os.Setenv("RADIOCODECD_BIT_ERROR_RATE", "0.25")
	os.Setenv("RADIOCODECD_CLIENT_READ_TIMEOUT", "100ms")
	os.Setenv("RADIOCODECD_LOG_METRICS_INTERVAL", "5s")
	t.Cleanup(func() {
		os.Unsetenv("RADIOCODECD_DEMO_VERSION")
		os.Unsetenv("RADIOCODECD_BIT_ERROR_RATE")
		os.Unsetenv("RADIOCODECD_CLIENT_READ_TIMEOUT")
		os.Unsetenv("RADIOCODECD_LOG_METRICS_INTERVAL")
	})
	if err := applyEnvOverrides(base, map[string]struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.demoVersion != "naked" {
		t.Fatalf("expected demoVersion override, got %s", base.demoVersion)
	}
	if base.bitErrorRate != 0.25 {
		t.Fatalf("expected bitErrorRate 0.25 got %v", base.bitErrorRate)
	}
	if base.clientReadTO != 100*time.Millisecond {
		t.Fatalf("expected clientReadTO 100ms got %v", base.clientReadTO)
	}
	if base.logMetricsEvery != 5*time.Second {
		t.Fatalf("expected logMetricsEvery 5s got %v", base.logMetricsEvery)
	}
}

func TestApplyEnvOverrides_FlagPrecedence(t *testing.T) {
	base := &appConfig{hubBuffer: 512}
	os.Setenv("RADIOCODECD_HUB_BUFFER", "1024")
	t.Cleanup(func() { os.Unsetenv("RADIOCODECD_HUB_BUFFER") })
	// Simulate user passed -hub-buffer flag (so env should be ignored)
	if err := applyEnvOverrides(base, map[string]struct{}{"hub-buffer": {}}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if base.hubBuffer != 512 {
		t.Fatalf("expected hubBuffer unchanged 512 got %d", base.hubBuffer)
	}
}

func TestApplyEnvOverrides_BadInt(t *testing.T) {
	base := &appConfig{hubBuffer: 512}
	os.Setenv("RADIOCODECD_HUB_BUFFER", "notint")
	t.Cleanup(func() { os.Unsetenv("RADIOCODECD_HUB_BUFFER") })
	if err := applyEnvOverrides(base, map[string]struct{}{}); err == nil {
		t.Fatalf("expected error for bad integer")
	}
}

func TestApplyEnvOverrides_BadFloat(t *testing.T) {
	base := &appConfig{bitErrorRate: 0}
	os.Setenv("RADIOCODECD_BIT_ERROR_RATE", "notafloat")
	t.Cleanup(func() { os.Unsetenv("RADIOCODECD_BIT_ERROR_RATE") })
	if err := applyEnvOverrides(base, map[string]struct{}{}); err == nil {
		t.Fatalf("expected error for bad float")
	}
}
