package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(config Config) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b := NewBreaker("test", config, zap.NewNop())
	b.now = clock.now
	return b, clock
}

func TestNewBreaker(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State())
	}
	if breaker.State() == StateOpen {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 3, Timeout: time.Second})

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("redis down"))
	}

	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN after 3 failures, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	breaker, _ := newTestBreaker(Config{Threshold: 2, Timeout: time.Second})

	breaker.Record(errors.New("e"))
	breaker.Record(nil)
	breaker.Record(errors.New("e"))

	if breaker.State() != StateClosed {
		t.Errorf("Expected non-consecutive failures to keep the breaker CLOSED, got %s", breaker.State())
	}
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, SuccessThreshold: 2, MaxHalfOpen: 1})

	breaker.Record(errors.New("e"))
	clock.advance(500 * time.Millisecond)
	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Fatalf("Expected ErrCircuitOpen before timeout, got %v", err)
	}

	clock.advance(time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected probe to be allowed, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Fatalf("Expected HALF_OPEN, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != ErrTooManyRequests {
		t.Errorf("Expected a second concurrent probe to be rejected, got %v", err)
	}

	breaker.Record(nil)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected next probe after success, got %v", err)
	}
	breaker.Record(nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected CLOSED after probe successes, got %s", breaker.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second})

	breaker.Record(errors.New("e"))
	clock.advance(2 * time.Second)
	_ = breaker.Allow()
	breaker.Record(errors.New("still down"))

	if breaker.State() != StateOpen {
		t.Errorf("Expected OPEN after failed probe, got %s", breaker.State())
	}
	if snap := breaker.Snapshot(); snap.LastError != "still down" {
		t.Errorf("Expected last error to be recorded, got %q", snap.LastError)
	}
}

func TestBreaker_DoPassesResult(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), nil)

	if err := breaker.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	testErr := errors.New("test failure")
	if err := breaker.Do(context.Background(), func(context.Context) error { return testErr }); err != testErr {
		t.Errorf("Expected test error, got %v", err)
	}
}

func TestBreaker_DoEnforcesCallTimeout(t *testing.T) {
	breaker := NewBreaker("test", Config{Threshold: 1, Timeout: time.Hour, CallTimeout: 20 * time.Millisecond}, nil)

	err := breaker.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if breaker.State() != StateOpen {
		t.Error("Expected a timed out call to count as a failure")
	}

	called := false
	err = breaker.Do(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != ErrCircuitOpen || called {
		t.Errorf("Expected open breaker to skip the call, got err=%v called=%v", err, called)
	}
}

func TestBreaker_DoIgnoresCallerCancellation(t *testing.T) {
	breaker := NewBreaker("test", Config{Threshold: 1, Timeout: time.Hour, CallTimeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := breaker.Do(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context canceled, got %v", err)
	}
	if breaker.State() != StateClosed {
		t.Errorf("Expected a disconnected caller to leave the breaker CLOSED, got %s", breaker.State())
	}

	called := false
	err = breaker.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("Expected a cancelled context to skip the call, got err=%v called=%v", err, called)
	}
	if snap := breaker.Snapshot(); snap.Failures != 0 {
		t.Errorf("Expected no recorded failures, got %d", snap.Failures)
	}
}

func TestBreaker_CallerCancellationFreesProbeSlot(t *testing.T) {
	breaker, clock := newTestBreaker(Config{Threshold: 1, Timeout: time.Second, MaxHalfOpen: 1})
	breaker.Record(errors.New("e"))
	clock.advance(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	_ = breaker.Do(ctx, func(context.Context) error {
		cancel()
		return nil
	})

	if breaker.State() != StateHalfOpen {
		t.Fatalf("Expected HALF_OPEN, got %s", breaker.State())
	}
	if err := breaker.Allow(); err != nil {
		t.Errorf("Expected the probe slot to be free again, got %v", err)
	}
}

func TestBreakerRegistry(t *testing.T) {
	registry := NewBreakerRegistry(DefaultConfig(), nil)

	cache := registry.GetOrCreate("cache")
	queue := registry.GetOrCreate("queue")

	if cache != registry.GetOrCreate("cache") {
		t.Error("Expected same breaker instance for same name")
	}
	if cache == queue {
		t.Error("Expected different breakers for different names")
	}
	if n := len(registry.Snapshots()); n != 2 {
		t.Errorf("Expected 2 snapshots, got %d", n)
	}
}

func TestBreakerRegistry_GetOrCreateWith(t *testing.T) {
	registry := NewBreakerRegistry(Config{Threshold: 5, Timeout: time.Hour}, nil)

	registry.GetOrCreate("cache")
	queue := registry.GetOrCreateWith("queue", Config{Threshold: 1, Timeout: time.Hour})
	queue.Record(errors.New("broker down"))

	if registry.GetOrCreateWith("queue", DefaultConfig()) != queue {
		t.Error("Expected the existing queue breaker to be returned")
	}

	snaps := registry.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[1].Name != "queue" || snaps[1].State != "OPEN" {
		t.Errorf("Expected the queue breaker to open with its own threshold, got %+v", snaps[1])
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF_OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.expected)
		}
	}
}
