package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultMaxHeaderBytes = 1 << 20

// HTTPConfig configures the REST listener. An empty Host binds every interface.
type HTTPConfig struct {
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	MaxHeaderBytes int    `koanf:"maxHeaderBytes"`
	Timeout        struct {
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
		ReadHeader time.Duration `koanf:"readHeader"`
	} `koanf:"timeout"`
}

func (c *HTTPConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- HTTP Server ---\n")
	fmt.Fprintf(&b, "  listen: %s:%d\n", c.Host, c.Port)
	fmt.Fprintf(&b, "  maxHeaderBytes: %d\n", c.MaxHeaderBytes)
	fmt.Fprintf(&b, "  timeout: read=%v write=%v idle=%v readHeader=%v\n",
		c.Timeout.Read, c.Timeout.Write, c.Timeout.Idle, c.Timeout.ReadHeader)
	return b.String()
}

// Validate requires a port and every timeout. MaxHeaderBytes defaults to 1 MiB.
func (c *HTTPConfig) Validate() error {
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = defaultMaxHeaderBytes
	}
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP server port: %d", c.Port))
	}
	if c.MaxHeaderBytes < 0 {
		errs = append(errs, fmt.Errorf("invalid HTTP server maxHeaderBytes: %d", c.MaxHeaderBytes))
	}
	for name, d := range map[string]time.Duration{
		"read":       c.Timeout.Read,
		"write":      c.Timeout.Write,
		"idle":       c.Timeout.Idle,
		"readHeader": c.Timeout.ReadHeader,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("invalid HTTP server %s timeout: %v", name, d))
		}
	}
	return errors.Join(errs...)
}
