package config

import (
	"fmt"
	"strings"
)

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowedorigins"`
}

// String returns a string representation of the CORS configuration.
func (c *CORSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- CORS ---\n")
	b.WriteString(fmt.Sprintf("  allowedorigins: %s\n", strings.Join(c.AllowedOrigins, ",")))
	return b.String()
}

func (c *CORSConfig) Validate() error {
	for _, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("cors allowed origin cannot be empty")
		}
	}
	return nil
}
