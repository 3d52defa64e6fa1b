package clients

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/quote-service/internal/platform/config"
)

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down has elapsed.
	StateOpen

	// StateHalfOpen admits a limited number of probes.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "quote_service_circuit_breaker_state",
		Help: "Circuit breaker state per downstream: 0 closed, 1 open, 2 half-open.",
	}, []string{"downstream"})

	circuitTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_service_circuit_breaker_transitions_total",
		Help: "Circuit breaker state changes per downstream, by new state.",
	}, []string{"downstream", "to"})
)

// CircuitBreaker stops calling a downstream that keeps failing.
//
//   - closed to open after MaxFailures consecutive failures
//   - open to half-open once Timeout has passed since the last failure
//   - half-open to closed after HalfOpenLimit consecutive successes
//   - half-open to open on any failure
type CircuitBreaker struct {
	name string
	cfg  config.CircuitBreakerConfig
	now  func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	probes      int
	lastFailure time.Time
	onChange    func(from, to State)
}

// NewCircuitBreaker creates a closed breaker for the named downstream.
// Non-positive limits are treated as one.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	circuitState.WithLabelValues(name).Set(float64(StateClosed))

	return &CircuitBreaker{
		name: name,
		cfg:  cfg,
		now:  time.Now,
	}
}

// OnStateChange registers fn to run after every transition.
// fn runs on the goroutine that caused the transition, without the lock held.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = fn
}

// Allow reports whether a request may proceed. Callers that get true must
// report the outcome with RecordSuccess, RecordFailure or Release.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	allowed := false
	var notify func()

	switch cb.state {
	case StateClosed:
		allowed = true

	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.cfg.Timeout {
			notify = cb.setLocked(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}

	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.mu.Unlock()
	run(notify)

	return allowed
}

// RecordSuccess reports a completed request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.failures = 0

	case StateHalfOpen:
		cb.probes = max(cb.probes-1, 0)
		cb.successes++
		if cb.successes >= cb.cfg.HalfOpenLimit {
			notify = cb.setLocked(StateClosed)
		}
	}

	cb.mu.Unlock()
	run(notify)
}

// RecordFailure reports a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var notify func()
	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			notify = cb.setLocked(StateOpen)
		}

	case StateHalfOpen:
		notify = cb.setLocked(StateOpen)
	}

	cb.mu.Unlock()
	run(notify)
}

// Release gives back an allowed request that ended without a verdict, such
// as one abandoned by its caller. A half-open probe slot is freed.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.probes = max(cb.probes-1, 0)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// setLocked moves to next, resets the counters and updates the metrics.
// It returns the callback invocation to run once the lock is released.
func (cb *CircuitBreaker) setLocked(next State) func() {
	prev := cb.state
	if prev == next {
		return nil
	}

	cb.state = next
	cb.failures = 0
	cb.successes = 0
	cb.probes = 0

	circuitState.WithLabelValues(cb.name).Set(float64(next))
	circuitTransitions.WithLabelValues(cb.name, next.String()).Inc()

	fn := cb.onChange
	if fn == nil {
		return nil
	}

	return func() { fn(prev, next) }
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}
