package config

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// ProbesConfig tunes the /healthz and /readyz endpoints.
type ProbesConfig struct {
	ReadinessTimeout time.Duration `koanf:"readinesstimeout"`
}

const defaultReadinessTimeout = 2 * time.Second

// String returns a string representation of the ProbesConfig.
func (c *ProbesConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Probes ---\n")
	b.WriteString(fmt.Sprintf("  readinesstimeout: %s\n", c.ReadinessTimeout))
	return b.String()
}

func (c *ProbesConfig) Validate() error {
	if c.ReadinessTimeout <= 0 {
		log.Println("Using default value for readinesstimeout")
		c.ReadinessTimeout = defaultReadinessTimeout
	}
	return nil
}
