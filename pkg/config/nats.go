package config

import (
	"fmt"
	"net/url"
	"time"
)

// NATSConfig points the association event publisher at a JetStream server.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	// Stream is the JetStream stream holding the association events.
	Stream string `koanf:"stream"`
}

func (c *NATSConfig) String() string {
	return fmt.Sprintf("\n--- NATS ---\n  enabled: %t\n  url: %s\n  timeout: %s\n  stream: %s\n",
		c.Enabled, c.Url, c.Timeout, c.Stream)
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	u, err := url.Parse(c.Url)
	if err != nil || u.Host == "" {
		return fmt.Errorf("nats.url %q is not a valid server URL", c.Url)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats.timeout must be greater than 0")
	}
	return nil
}
