package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker is refusing calls.
var ErrOpen = errors.New("circuit breaker open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Settings configures a breaker. FailureThreshold consecutive failures
// within Interval open the circuit; after Timeout a single probe call is
// let through and, if it succeeds, the circuit closes again.
type Settings struct {
	Name             string
	FailureThreshold int
	Interval         time.Duration
	Timeout          time.Duration
}

type CircuitBreaker struct {
	name      string
	threshold int
	interval  time.Duration
	timeout   time.Duration

	mu          sync.Mutex
	state       state
	failures    int
	lastFailure time.Time
}

func NewCircuitBreaker(s Settings) *CircuitBreaker {
	if s.FailureThreshold <= 0 {
		s.FailureThreshold = 5
	}
	return &CircuitBreaker{
		name:      s.Name,
		threshold: s.FailureThreshold,
		interval:  s.Interval,
		timeout:   s.Timeout,
		state:     stateClosed,
	}
}

// Execute runs fn under the breaker's admission policy.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	switch cb.state {
	case stateOpen:
		if time.Since(cb.lastFailure) <= cb.timeout {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = stateHalfOpen
	case stateClosed:
		if cb.interval > 0 && cb.failures > 0 && time.Since(cb.lastFailure) > cb.interval {
			cb.failures = 0
		}
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailure = time.Now()
		if cb.state == stateHalfOpen || cb.failures >= cb.threshold {
			cb.state = stateOpen
		}
		return err
	}

	cb.state = stateClosed
	cb.failures = 0
	return nil
}
