package config

import (
	"fmt"
	"strings"
	"time"
)

// TelemetryConfig controls span export. Metrics are always served from the
// Prometheus registry and are configured by MetricsConfig.
type TelemetryConfig struct {
	Enabled bool         `koanf:"enabled"`
	Traces  TracesConfig `koanf:"traces"`
}

type TracesConfig struct {
	// SampleRatio is the fraction of root spans kept, in (0, 1]. Zero means 1.
	SampleRatio float64        `koanf:"sampleratio"`
	OtlpHttp    OtlpHttpConfig `koanf:"otlphttp"`
}

type OtlpHttpConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

func (c *TelemetryConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Telemetry ---\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Enabled)
	fmt.Fprintf(&b, "  traces.sampleratio: %g\n", c.Traces.SampleRatio)
	fmt.Fprintf(&b, "  traces.otlphttp: %s (insecure=%t, timeout=%s)\n",
		c.Traces.OtlpHttp.Endpoint, c.Traces.OtlpHttp.Insecure, c.Traces.OtlpHttp.Timeout)
	return b.String()
}

func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Traces.OtlpHttp.Endpoint == "" {
		return fmt.Errorf("telemetry.traces.otlphttp.endpoint is not configured")
	}
	if c.Traces.OtlpHttp.Timeout <= 0 {
		return fmt.Errorf("telemetry.traces.otlphttp.timeout must be greater than 0")
	}
	if c.Traces.SampleRatio == 0 {
		c.Traces.SampleRatio = 1
	}
	if c.Traces.SampleRatio < 0 || c.Traces.SampleRatio > 1 {
		return fmt.Errorf("telemetry.traces.sampleratio must be within (0, 1], got %g", c.Traces.SampleRatio)
	}
	return nil
}
