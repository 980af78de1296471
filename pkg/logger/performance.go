package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// PerformanceConfig controls filtering applied before a log line is built
type PerformanceConfig struct {
	MinLogLevel      zapcore.Level `json:"min_log_level"`
	EnableSampling   bool          `json:"enable_sampling"`
	SampleInitial    int           `json:"sample_initial"`
	SampleThereafter int           `json:"sample_thereafter"`
	EnableRateLimit  bool          `json:"enable_rate_limit"`
	MaxLogPerSecond  int           `json:"max_log_per_second"`
}

// DefaultPerformanceConfig keeps everything from info up
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.InfoLevel,
		MaxLogPerSecond: 1000,
	}
}

// ProductionConfig samples repeated lines and caps the log rate
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:      zapcore.InfoLevel,
		EnableSampling:   true,
		SampleInitial:    100,
		SampleThereafter: 10,
		EnableRateLimit:  true,
		MaxLogPerSecond:  500,
	}
}

// DevelopmentConfig logs everything
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.DebugLevel,
		MaxLogPerSecond: 10000,
	}
}

// OptimizedLogger drops lines below the configured level, or above the rate
// cap, before any field is allocated.
type OptimizedLogger struct {
	config  PerformanceConfig
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewOptimizedLogger wraps base with the given filtering config
func NewOptimizedLogger(base *zap.Logger, config PerformanceConfig) *OptimizedLogger {
	if base == nil {
		base = zap.NewNop()
	}

	if config.EnableSampling {
		base = base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, config.SampleInitial, config.SampleThereafter)
		}))
	}

	ol := &OptimizedLogger{
		config: config,
		logger: base.WithOptions(zap.AddCallerSkip(1)),
	}
	if config.EnableRateLimit && config.MaxLogPerSecond > 0 {
		ol.limiter = rate.NewLimiter(rate.Limit(config.MaxLogPerSecond), config.MaxLogPerSecond)
	}

	return ol
}

// ShouldLog reports whether a line at level would be written
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}

	// errors always pass the rate cap
	if ol.limiter != nil && level < zapcore.ErrorLevel && !ol.limiter.Allow() {
		return false
	}

	return true
}

var optimizedLogger *OptimizedLogger

// GetOptimizedLogger returns the filtering logger built by InitLogger, or a
// default one over GetLogger() when InitLogger has not run.
func GetOptimizedLogger() *OptimizedLogger {
	if optimizedLogger == nil {
		optimizedLogger = NewOptimizedLogger(GetLogger(), DefaultPerformanceConfig())
	}
	return optimizedLogger
}
