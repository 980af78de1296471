package logger

import (
	"os"
	"path/filepath"

	"github.com/Payphone-Digital/addressbook/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger set by InitLogger
var Logger *zap.Logger

// sink is one log file plus an optional console mirror
type sink struct {
	file   string
	level  zapcore.LevelEnabler
	mirror zapcore.WriteSyncer
}

// InitLogger writes JSON logs to info.log, error.log and debug.log under the
// configured logs path. Info and error lines are mirrored to stdout and stderr.
func InitLogger(cfg *config.Config) error {
	dir := cfg.App.LogsPath
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	level := zapcore.DebugLevel
	perf := DevelopmentConfig()
	if cfg.IsProduction() {
		level = zapcore.InfoLevel
		perf = ProductionConfig()
	}

	sinks := []sink{
		{file: "info.log", level: level, mirror: os.Stdout},
		{file: "error.log", level: zapcore.ErrorLevel, mirror: os.Stderr},
		{file: "debug.log", level: zapcore.DebugLevel},
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig())
	cores := make([]zapcore.Core, 0, len(sinks))
	opened := make([]*os.File, 0, len(sinks))
	for _, s := range sinks {
		f, err := os.OpenFile(filepath.Join(dir, s.file), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return err
		}
		opened = append(opened, f)

		out := zapcore.AddSync(f)
		if s.mirror != nil {
			out = zapcore.NewMultiWriteSyncer(out, s.mirror)
		}
		cores = append(cores, zapcore.NewCore(encoder, out, s.level))
	}

	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("app", cfg.App.Name))
	optimizedLogger = NewOptimizedLogger(Logger, perf)

	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// GetLogger returns the structured logger. Before InitLogger runs it returns
// a no-op logger so packages can log unconditionally.
func GetLogger() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// Sync syncs all logs (call this before application exits)
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogPanic records a recovered panic with its stack
func LogPanic(recovered interface{}) {
	GetLogger().Error("Panic recovered",
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	)
}
