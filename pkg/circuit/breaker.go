package circuit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast
	StateHalfOpen              // probing whether the backend recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // consecutive failures before opening
	Timeout          time.Duration // time spent open before probing
	SuccessThreshold int           // probe successes needed to close
	MaxHalfOpen      int           // concurrent probes allowed
	CallTimeout      time.Duration // upper bound for a single Do call, 0 disables
}

// DefaultConfig suits a backend that sits on the request path and must not
// hold a request for long.
func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      1,
		CallTimeout:      200 * time.Millisecond,
	}
}

// Breaker guards one backend. Consecutive failures open it, and after
// Config.Timeout a limited number of probe calls decide whether it closes.
type Breaker struct {
	name   string
	config Config
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	failures  int // consecutive, reset by any success
	probesOK  int
	inflight  int // admitted half-open probes still running
	openedAt  time.Time
	lastError string
}

func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	config.MaxHalfOpen = max(config.MaxHalfOpen, 1)
	config.SuccessThreshold = max(config.SuccessThreshold, 1)

	return &Breaker{name: name, config: config, logger: logger, now: time.Now}
}

// Do runs fn when the breaker admits it and records the outcome. ctx is
// bounded by CallTimeout and a call that overruns it counts as a failure.
// A call whose caller went away is neither a failure nor a success.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.Allow(); err != nil {
		return err
	}

	callCtx := ctx
	if b.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.config.CallTimeout)
		defer cancel()
	}

	err := fn(callCtx)
	if ctx.Err() != nil {
		b.release()
		if err == nil {
			err = ctx.Err()
		}
		return err
	}
	if err == nil {
		err = callCtx.Err()
	}
	b.Record(err)
	return err
}

// Allow admits or rejects a call. Every admitted call must be followed by
// exactly one Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.config.Timeout {
			return ErrCircuitOpen
		}
		b.setState(StateHalfOpen)
	}

	if b.state == StateHalfOpen {
		if b.inflight >= b.config.MaxHalfOpen {
			return ErrTooManyRequests
		}
		b.inflight++
	}
	return nil
}

// Record settles a call admitted by Allow
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.inflight > 0 {
		b.inflight--
	}

	if err != nil {
		b.failures++
		b.probesOK = 0
		b.lastError = err.Error()
		if b.state == StateHalfOpen || b.failures >= b.config.Threshold {
			b.setState(StateOpen)
		}
		return
	}

	b.failures = 0
	if b.state == StateHalfOpen {
		b.probesOK++
		if b.probesOK >= b.config.SuccessThreshold {
			b.setState(StateClosed)
		}
	}
}

// release frees a half-open probe slot without recording an outcome
func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.inflight > 0 {
		b.inflight--
	}
}

// setState must be called with mu held
func (b *Breaker) setState(next State) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	b.inflight = 0

	switch next {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures, b.probesOK, b.lastError = 0, 0, ""
	}

	b.logger.Info("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.Stringer("from", prev),
		zap.Stringer("to", next),
		zap.String("last_error", b.lastError),
	)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Snapshot is a point-in-time view of a breaker, used by the health endpoint
type Snapshot struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Failures  int    `json:"failures"`
	LastError string `json:"last_error,omitempty"`
}

func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{Name: b.name, State: b.state.String(), Failures: b.failures, LastError: b.lastError}
}

// BreakerRegistry hands out one breaker per backend name
type BreakerRegistry struct {
	config Config
	logger *zap.Logger

	mu       sync.Mutex
	breakers map[string]*Breaker
}

func NewBreakerRegistry(config Config, logger *zap.Logger) *BreakerRegistry {
	return &BreakerRegistry{config: config, logger: logger, breakers: map[string]*Breaker{}}
}

// GetOrCreate returns the breaker for name, built from the registry config
func (r *BreakerRegistry) GetOrCreate(name string) *Breaker {
	return r.GetOrCreateWith(name, r.config)
}

// GetOrCreateWith is GetOrCreate for a backend that needs its own config.
// config only applies when the breaker does not exist yet.
func (r *BreakerRegistry) GetOrCreateWith(name string, config Config) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[name]
	if !ok {
		b = NewBreaker(name, config, r.logger)
		r.breakers[name] = b
	}
	return b
}

// Snapshots returns every registered breaker ordered by name
func (r *BreakerRegistry) Snapshots() []Snapshot {
	r.mu.Lock()
	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	r.mu.Unlock()
	sort.Strings(names)

	out := make([]Snapshot, 0, len(names))
	for _, name := range names {
		out = append(out, r.GetOrCreate(name).Snapshot())
	}
	return out
}
