// Package configloader assembles a configuration struct from layered sources.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultDotEnvFile = ".env"
)

// Validator is implemented by configuration roots that can check themselves.
type Validator interface {
	Validate() error
}

// Option customizes where Load looks for its sources.
type Option func(*options)

type options struct {
	configFile string
	dotEnvFile string
}

// WithConfigFile reads the yaml layer from path instead of ./config.yaml.
// An empty path keeps the default.
func WithConfigFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.configFile = path
		}
	}
}

// WithDotEnvFile reads the dotenv layer from path instead of ./.env.
func WithDotEnvFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.dotEnvFile = path
		}
	}
}

// Load builds T from the yaml file, then the dotenv file, then the process
// environment, later sources overriding earlier ones, and validates the result.
// Variables are matched by the upper-cased service name as prefix:
// CATALOG_SERVER_PORT maps to server.port for serviceName "catalog".
// Missing files are skipped; unreadable ones are reported and skipped.
func Load[T Validator](serviceName string, opts ...Option) (T, error) {
	var cfg T
	o := options{configFile: defaultConfigFile, dotEnvFile: defaultDotEnvFile}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	prefix := strings.ToUpper(serviceName) + "_"
	keyOf := envKeyMapper(prefix)

	if err := k.Load(file.Provider(o.configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: skipping config file %s: %v", o.configFile, err)
	}
	if err := loadDotEnv(k, o.dotEnvFile, keyOf); err != nil {
		log.Printf("WARN: skipping %s: %v", o.dotEnvFile, err)
	}
	if err := k.Load(env.Provider(prefix, ".", keyOf), nil); err != nil {
		log.Printf("WARN: skipping process environment: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKeyMapper turns PREFIX_SECTION_KEY into section.key.
func envKeyMapper(prefix string) func(string) string {
	lowerPrefix := strings.ToLower(prefix)
	return func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}

// loadDotEnv merges the dotenv file into k. A missing file is not an error.
func loadDotEnv(k *koanf.Koanf, path string, keyOf func(string) string) error {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	values := make(map[string]any, len(vars))
	for key, value := range vars {
		values[keyOf(key)] = value
	}
	return k.Load(confmap.Provider(values, "."), nil)
}
