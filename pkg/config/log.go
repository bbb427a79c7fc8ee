package config

import (
	"fmt"
	"strings"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LogConfig selects the minimum level and the output encoding of the service log.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (c *LogConfig) String() string {
	return fmt.Sprintf("\n--- Log ---\n  level: %s\n  format: %s\n", c.Level, c.Format)
}

// Validate accepts levels and formats case-insensitively. The format defaults to json.
func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "":
		c.Format = LogFormatJSON
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
