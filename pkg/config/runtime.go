package config

import (
	"fmt"
	"net"
	"time"
)

// ShutdownConfig bounds how long servers and exporters get to drain.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	return fmt.Sprintf("\n--- Shutdown ---\n  timeout: %s\n", c.Timeout)
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("shutdown timeout must be greater than 0, got %s", c.Timeout)
	}
	return nil
}

// PProfConfig exposes net/http/pprof on its own listener, away from the API port.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	return fmt.Sprintf("\n--- PProf ---\n  enabled: %t\n  addr: %s\n", c.Enabled, c.Addr)
}

func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("pprof addr %q: %w", c.Addr, err)
	}
	return nil
}
