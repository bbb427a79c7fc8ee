package messaging

import (
	"context"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// BreakerPublisher wraps a Publisher in a circuit breaker so an unavailable
// broker fails fast instead of stalling every request.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher creates a BreakerPublisher named name around next.
func NewBreakerPublisher(name string, next Publisher, cfg config.CircuitBreakerConfig) *BreakerPublisher {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
	}
	if st.Timeout <= 0 {
		st.Timeout = 5 * time.Second
	}
	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

// Publish forwards the event unless the breaker is open, in which case
// gobreaker.ErrOpenState is returned.
func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	return err
}

// State reports the current breaker state.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}
