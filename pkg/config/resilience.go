package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ResilienceConfig tunes retries and the circuit breaker around outbound calls:
// event publishing to NATS and the associations CLI talking to the gRPC API.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
}

// CircuitBreakerConfig trips the breaker after ConsecutiveFailures failures in
// a row, or once more than ErrorRatePercent of the calls in the window failed.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

// DefaultResilience is used where no configuration file is read.
func DefaultResilience() ResilienceConfig {
	return ResilienceConfig{
		Retry:          RetryConfig{MaxAttempts: 3, InitialBackoff: 200 * time.Millisecond},
		CircuitBreaker: CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 50, OpenTimeout: 10 * time.Second},
	}
}

func (c *ResilienceConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Resilience ---\n")
	fmt.Fprintf(&b, "  retry: %d attempts, initial backoff %s\n", c.Retry.MaxAttempts, c.Retry.InitialBackoff)
	fmt.Fprintf(&b, "  circuitbreaker: trips after %d consecutive failures or %d%% errors, open for %s\n",
		c.CircuitBreaker.ConsecutiveFailures, c.CircuitBreaker.ErrorRatePercent, c.CircuitBreaker.OpenTimeout)
	return b.String()
}

// Validate reports every invalid field at once.
func (c *ResilienceConfig) Validate() error {
	var errs []error
	if c.Retry.MaxAttempts == 0 {
		errs = append(errs, errors.New("retry.maxattempts must be greater than 0"))
	}
	if c.Retry.InitialBackoff <= 0 {
		errs = append(errs, errors.New("retry.initialbackoff must be greater than 0"))
	}
	if c.CircuitBreaker.ConsecutiveFailures == 0 {
		errs = append(errs, errors.New("circuitbreaker.consecutivefailures must be greater than 0"))
	}
	if c.CircuitBreaker.ErrorRatePercent < 0 || c.CircuitBreaker.ErrorRatePercent > 100 {
		errs = append(errs, fmt.Errorf("circuitbreaker.errorratepercent must be within 0..100, got %d", c.CircuitBreaker.ErrorRatePercent))
	}
	if c.CircuitBreaker.OpenTimeout <= 0 {
		errs = append(errs, errors.New("circuitbreaker.opentimeout must be greater than 0"))
	}
	return errors.Join(errs...)
}
