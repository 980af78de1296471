package handler

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/addressbook/pkg/circuit"
	"github.com/Payphone-Digital/addressbook/pkg/health"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	version  string
	monitor  *health.Monitor
	breakers *circuit.BreakerRegistry
}

type HealthCheckResponse struct {
	Status    health.Status                 `json:"status"`
	Version   string                        `json:"version"`
	Timestamp time.Time                     `json:"timestamp"`
	Checks    map[string]health.CheckResult `json:"checks"`
	Breakers  []circuit.Snapshot            `json:"breakers,omitempty"`
}

// NewHealthHandler builds the handler; breakers may be nil
func NewHealthHandler(version string, monitor *health.Monitor, breakers *circuit.BreakerRegistry) *HealthHandler {
	return &HealthHandler{
		version:  version,
		monitor:  monitor,
		breakers: breakers,
	}
}

// HealthCheck probes every registered dependency. Only an unhealthy critical
// dependency (the database) turns the answer into 503.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	report := h.monitor.CheckAll(c.Request.Context())

	response := HealthCheckResponse{
		Status:    report.Status,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Checks:    report.Checks,
	}
	if h.breakers != nil {
		response.Breakers = h.breakers.Snapshots()
	}

	statusCode := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", report.Status.String()),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}
