package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/shopfront/pkg/logger"
)

// State represents the state of a circuit breaker
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// ErrOpen is returned by Call while the circuit rejects work.
var ErrOpen = errors.New("circuit breaker is open")

// Breaker stops calling a failing dependency for a cool-down period
type Breaker struct {
	name             string
	maxFailures      int           // consecutive failures before opening
	timeout          time.Duration // open period before a trial call
	halfOpenRequired int           // trial successes needed to close

	mu              sync.Mutex
	state           State
	failures        int
	successCount    int
	lastStateChange time.Time
	now             func() time.Time
}

// New creates a closed breaker
func New(name string, maxFailures int, timeout time.Duration) *Breaker {
	return &Breaker{
		name:             name,
		maxFailures:      maxFailures,
		timeout:          timeout,
		halfOpenRequired: 3,
		state:            StateClosed,
		lastStateChange:  time.Now(),
		now:              time.Now,
	}
}

// Call runs fn unless the circuit is open, and records the outcome
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen && b.now().Sub(b.lastStateChange) > b.timeout {
		b.transition(StateHalfOpen)
		b.successCount = 0
	}
	current := b.state
	b.mu.Unlock()

	if current == StateOpen {
		return ErrOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func (b *Breaker) onFailure() {
	b.failures++

	switch {
	case b.state == StateHalfOpen:
		b.transition(StateOpen)
	case b.failures >= b.maxFailures && b.state == StateClosed:
		logger.Logger.Error().
			Str("circuit", b.name).
			Int("failures", b.failures).
			Int("threshold", b.maxFailures).
			Msg("Circuit breaker opened")
		b.transition(StateOpen)
	}
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.halfOpenRequired {
			b.failures = 0
			b.successCount = 0
			b.transition(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	logger.Logger.Info().
		Str("circuit", b.name).
		Str("from", string(b.state)).
		Str("to", string(to)).
		Msg("Circuit breaker state change")
	b.state = to
	b.lastStateChange = b.now()
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
