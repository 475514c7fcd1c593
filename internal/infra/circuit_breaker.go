package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Circuit breaker guarding the SMTP relay (Closed → Open → Half-Open).
// The notification workers run every send through it: once the relay has
// failed FailureThreshold times in a row the breaker fast-fails sends for
// OpenTimeout, then lets a probe through; SuccessThreshold consecutive
// probe successes close it again.

// CBState is the breaker state.
type CBState int

const (
	CBClosed   CBState = iota // sends flow through
	CBOpen                    // fast-fail, relay considered down
	CBHalfOpen                // probing recovery
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker fast-fails.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string        // identifies the guarded dependency in logs
	FailureThreshold int           // consecutive failures before tripping
	SuccessThreshold int           // half-open successes required to close
	OpenTimeout      time.Duration // fast-fail duration before probing
}

// DefaultCBConfig is tuned for the registration-mail volume: a burst of
// 5 failed sends means the relay is down, and a minute is long enough for
// a transient outage to clear.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

type CircuitBreaker struct {
	mu               sync.Mutex
	name             string
	state            CBState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Name == "" {
		cfg.Name = "smtp"
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{
		name:             cfg.Name,
		state:            CBClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
	}
}

// basculer moves the breaker to a new state, logging the transition.
// Must be called under lock.
func (cb *CircuitBreaker) basculer(vers CBState) {
	if cb.state == vers {
		return
	}
	log.Warn().
		Str("breaker", cb.name).
		Str("de", cb.state.String()).
		Str("vers", vers.String()).
		Msg("circuit breaker: changement d'état")
	cb.state = vers
}

// State returns the current state, promoting open → half-open once the
// fast-fail window has elapsed. Safe for concurrent use.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CBOpen && time.Since(cb.lastFailureTime) >= cb.openTimeout {
		cb.basculer(CBHalfOpen)
		cb.successCount = 0
	}
	return cb.state
}

// Execute runs fn through the breaker, returning ErrCircuitOpen without
// invoking fn while the breaker fast-fails.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

// onFailure records a failed send. Must be called under lock.
func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case CBClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.basculer(CBOpen)
			cb.successCount = 0
		}
	case CBHalfOpen:
		// The probe failed: back to fast-fail for another window.
		cb.basculer(CBOpen)
		cb.failureCount = 0
	}
}

// onSuccess records a successful send. Must be called under lock.
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failureCount = 0
	case CBHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.basculer(CBClosed)
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}
