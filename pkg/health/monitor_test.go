package health

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func TestCheckAll_Aggregate(t *testing.T) {
	tests := []struct {
		name     string
		database PingFunc
		cache    PingFunc
		want     Status
	}{
		{"all healthy", ok, ok, StatusHealthy},
		{"optional failure degrades", ok, failing, StatusDegraded},
		{"critical failure", failing, ok, StatusUnhealthy},
		{"both failing", failing, failing, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(0, time.Second, nil)
			m.Register("database", true, tt.database)
			m.Register("cache", false, tt.cache)

			report := m.CheckAll(context.Background())

			assert.Equal(t, tt.want, report.Status)
			assert.Len(t, report.Checks, 2)
		})
	}
}

func TestCheckAll_Counters(t *testing.T) {
	var fail atomic.Bool
	m := NewMonitor(0, time.Second, nil)
	m.Register("cache", false, func(context.Context) error {
		if fail.Load() {
			return errors.New("timeout")
		}
		return nil
	})

	m.CheckAll(context.Background())
	fail.Store(true)
	m.CheckAll(context.Background())

	result, found := m.GetResult("cache")
	require.True(t, found)
	assert.Equal(t, 2, result.CheckCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, StatusDegraded, result.Status)
	assert.False(t, m.IsHealthy("cache"))
	assert.True(t, m.IsHealthy("unknown"))
}

func TestCheckAll_ProbeTimeout(t *testing.T) {
	m := NewMonitor(0, 20*time.Millisecond, nil)
	m.Register("database", true, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := m.CheckAll(context.Background())

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.ErrorIs(t, report.Checks["database"].LastError, context.DeadlineExceeded)
}

func TestRecord_LogsOnlyTransitions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMonitor(0, time.Second, zap.New(core))
	m.Register("database", true, ok)

	m.CheckAll(context.Background())
	m.CheckAll(context.Background())
	m.CheckAll(context.Background())

	assert.Equal(t, 1, logs.FilterMessage("Health check status").Len())
}

func TestStartStop(t *testing.T) {
	var calls atomic.Int32
	m := NewMonitor(5*time.Millisecond, time.Second, nil)
	m.Register("database", true, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	m.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	m.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())

	m.Stop()
}

func TestStatusJSON(t *testing.T) {
	raw, err := json.Marshal(CheckResult{Status: StatusDegraded, Message: "cache ping failed"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "degraded", decoded["status"])
}

func TestNames(t *testing.T) {
	m := NewMonitor(0, 0, nil)
	m.Register("database", true, ok)
	m.Register("cache", false, ok)

	assert.Equal(t, []string{"cache", "database"}, m.Names())
}
