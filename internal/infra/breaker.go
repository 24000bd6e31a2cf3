package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BreakerState is the current position of a CircuitBreaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Execute while the breaker is open and the
// cooldown has not elapsed.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to a flaky external dependency (the SMTP relay).
// After maxFailures consecutive failures it opens and rejects calls outright;
// after the cooldown a single probe call is allowed through.
type CircuitBreaker struct {
	mu          sync.Mutex
	name        string
	state       BreakerState
	failures    int
	maxFailures int
	cooldown    time.Duration
	openedAt    time.Time
}

func NewCircuitBreaker(name string, maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:        name,
		state:       BreakerClosed,
		maxFailures: maxFailures,
		cooldown:    cooldown,
	}
}

// Execute runs fn under the breaker's failure accounting.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == BreakerOpen {
		if time.Since(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrBreakerOpen
		}
		cb.state = BreakerHalfOpen
		log.Info().Str("breaker", cb.name).Msg("circuit breaker half-open, probing")
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		if cb.state == BreakerHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = BreakerOpen
			cb.openedAt = time.Now()
			log.Warn().
				Str("breaker", cb.name).
				Int("failures", cb.failures).
				Msg("circuit breaker opened")
		}
		return err
	}

	if cb.state != BreakerClosed {
		log.Info().Str("breaker", cb.name).Msg("circuit breaker closed")
	}
	cb.state = BreakerClosed
	cb.failures = 0
	return nil
}

// State reports the breaker position without mutating it. Exposed on /health.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
