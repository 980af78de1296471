package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PingFunc probes one dependency
type PingFunc func(ctx context.Context) error

// CheckResult represents the latest result for one dependency
type CheckResult struct {
	Name         string        `json:"-"`
	Status       Status        `json:"status"`
	Message      string        `json:"message,omitempty"`
	Latency      time.Duration `json:"latency_ns"`
	LastCheck    time.Time     `json:"last_check"`
	LastError    error         `json:"-"`
	CheckCount   int           `json:"check_count"`
	FailureCount int           `json:"failure_count"`
}

// Report aggregates every registered dependency
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type checker struct {
	name     string
	critical bool
	ping     PingFunc
}

// check runs the probe. A failing optional dependency only degrades.
func (c checker) check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Name: c.name, LastCheck: start.UTC()}

	err := c.ping(ctx)
	result.Latency = time.Since(start)

	switch {
	case err == nil:
		result.Status = StatusHealthy
		result.Message = c.name + " is reachable"
	case c.critical:
		result.Status = StatusUnhealthy
		result.Message = c.name + " ping failed"
		result.LastError = err
	default:
		result.Status = StatusDegraded
		result.Message = c.name + " ping failed"
		result.LastError = err
	}

	return result
}

// Monitor checks the application's dependencies, on demand and, once
// started, periodically so that state changes show up in the logs.
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]checker
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMonitor creates a new health monitor. timeout bounds each probe.
func NewMonitor(interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Monitor{
		checkers: make(map[string]checker),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Register adds a dependency. A failing critical dependency makes the whole
// report unhealthy; any other failure degrades it.
func (m *Monitor) Register(name string, critical bool, ping PingFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = checker{name: name, critical: critical, ping: ping}

	m.logger.Info("Registered health check",
		zap.String("name", name),
		zap.Bool("critical", critical),
	)
}

// Start runs the periodic checks until Stop. A non-positive interval
// leaves the monitor on-demand only.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil || m.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx, m.done)
}

// Stop stops the periodic checks and waits for the loop to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll probes every dependency concurrently and returns the aggregate
func (m *Monitor) CheckAll(ctx context.Context) Report {
	m.mu.RLock()
	checkers := make([]checker, 0, len(m.checkers))
	for _, c := range m.checkers {
		checkers = append(checkers, c)
	}
	m.mu.RUnlock()

	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c checker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()
			results[i] = c.check(checkCtx)
		}(i, c)
	}
	wg.Wait()

	report := Report{Status: StatusHealthy, Checks: make(map[string]CheckResult, len(results))}
	for _, result := range results {
		result = m.record(result)
		report.Checks[result.Name] = result

		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded:
			if report.Status == StatusHealthy {
				report.Status = StatusDegraded
			}
		}
	}

	return report
}

// record folds result into the running counters and logs state changes
func (m *Monitor) record(result CheckResult) CheckResult {
	m.mu.Lock()
	previous, seen := m.results[result.Name]
	if seen {
		result.CheckCount = previous.CheckCount + 1
		result.FailureCount = previous.FailureCount
	} else {
		result.CheckCount = 1
	}
	if result.Status != StatusHealthy {
		result.FailureCount++
	}
	stored := result
	m.results[result.Name] = &stored
	m.mu.Unlock()

	if !seen || previous.Status != result.Status {
		fields := []zap.Field{
			zap.String("name", result.Name),
			zap.String("status", result.Status.String()),
			zap.Duration("latency", result.Latency),
		}
		if result.LastError != nil {
			m.logger.Warn("Health check failed", append(fields, zap.Error(result.LastError))...)
		} else {
			m.logger.Info("Health check status", fields...)
		}
	}

	return result
}

// IsHealthy reports the last known state of one dependency. Untracked
// dependencies are assumed healthy.
func (m *Monitor) IsHealthy(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if result, ok := m.results[name]; ok {
		return result.Status == StatusHealthy
	}
	return true
}

// GetResult gets the last result for a dependency
func (m *Monitor) GetResult(name string) (*CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, exists := m.results[name]
	if !exists {
		return nil, false
	}
	resultCopy := *result
	return &resultCopy, true
}

// Names lists the registered dependencies in order
func (m *Monitor) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.checkers))
	for name := range m.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
