package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Payphone-Digital/addressbook/pkg/circuit"
	"github.com/Payphone-Digital/addressbook/pkg/health"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	return r
}

func pingResult(err error) health.PingFunc {
	return func(context.Context) error { return err }
}

func TestHealthCheck(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name       string
		dbErr      error
		cacheErr   error
		wantCode   int
		wantStatus string
		wantCache  string
	}{
		{"all healthy", nil, nil, http.StatusOK, "healthy", "healthy"},
		{"cache down only degrades", nil, down, http.StatusOK, "degraded", "degraded"},
		{"database down", down, nil, http.StatusServiceUnavailable, "unhealthy", "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitor := health.NewMonitor(0, time.Second, nil)
			monitor.Register("database", true, pingResult(tt.dbErr))
			monitor.Register("cache", false, pingResult(tt.cacheErr))

			w, body := doJSON(t, healthRouter(NewHealthHandler("test", monitor, nil)), http.MethodGet, "/health", nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, "test", body["version"])
			checks := body["checks"].(map[string]any)
			assert.Equal(t, tt.wantCache, checks["cache"].(map[string]any)["status"])
			assert.Nil(t, body["breakers"])
		})
	}
}

func TestHealthCheck_ReportsBreakers(t *testing.T) {
	monitor := health.NewMonitor(0, time.Second, nil)
	monitor.Register("database", true, pingResult(nil))
	breakers := circuit.NewBreakerRegistry(circuit.DefaultConfig(), nil)
	breakers.GetOrCreate("cache")
	queue := breakers.GetOrCreateWith("queue", circuit.Config{Threshold: 1, Timeout: time.Hour})
	queue.Record(errors.New("broker down"))

	_, body := doJSON(t, healthRouter(NewHealthHandler("test", monitor, breakers)), http.MethodGet, "/health", nil)

	list := body["breakers"].([]any)
	if assert.Len(t, list, 2) {
		assert.Equal(t, "cache", list[0].(map[string]any)["name"])
		assert.Equal(t, "CLOSED", list[0].(map[string]any)["state"])
		assert.Equal(t, "queue", list[1].(map[string]any)["name"])
		assert.Equal(t, "OPEN", list[1].(map[string]any)["state"])
		assert.Equal(t, "broker down", list[1].(map[string]any)["last_error"])
	}
}
