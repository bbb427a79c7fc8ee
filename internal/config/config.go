// Package config holds the configuration root of the catalog service.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Storage    config.StorageConfig    `koanf:"storage"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Probes     config.ProbesConfig     `koanf:"probes"`
	CORS       config.CORSConfig       `koanf:"cors"`
	Metrics    config.MetricsConfig    `koanf:"metrics"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog Configuration ---")
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Storage.String())
	if c.Storage.UsesPostgres() {
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.GRPC.String())
	b.WriteString(c.NATS.String())
	if c.NATS.Enabled {
		b.WriteString(c.Resilience.String())
	}
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Probes.String())
	b.WriteString(c.CORS.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

type block struct {
	name string
	v    interface{ Validate() error }
}

// Validate checks every block. Blocks of disabled features validate to nil.
func (c *Config) Validate() error {
	blocks := []block{
		{"server", &c.HTTPServer},
		{"storage", &c.Storage},
		{"log", &c.Log},
		{"pprof", &c.PProf},
		{"grpc", &c.GRPC},
		{"shutdown", &c.Shutdown},
		{"nats", &c.NATS},
		{"telemetry", &c.Telemetry},
		{"probes", &c.Probes},
		{"cors", &c.CORS},
		{"metrics", &c.Metrics},
	}
	if c.Storage.UsesPostgres() {
		blocks = append(blocks, block{"database", &c.Database})
	}
	if c.NATS.Enabled {
		blocks = append(blocks, block{"resilience", &c.Resilience})
	}
	for _, b := range blocks {
		if err := b.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
	}
	return nil
}
