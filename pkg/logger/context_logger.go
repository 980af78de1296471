package logger

import (
	"context"
	"time"

	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Entry is a single log line under construction. Field methods are no-ops
// once the level has been filtered out, so a dropped line costs no
// allocations beyond the builder itself.
type Entry struct {
	logger  *OptimizedLogger
	ctx     context.Context
	level   zapcore.Level
	message string
	fields  []zap.Field
	enabled bool
}

func (ol *OptimizedLogger) entry(ctx context.Context, level zapcore.Level, message string) *Entry {
	e := &Entry{
		logger:  ol,
		ctx:     ctx,
		level:   level,
		message: message,
		enabled: ol.ShouldLog(level),
	}
	if e.enabled {
		e.fields = make([]zap.Field, 0, 12)
		e.fields = append(e.fields, contextFields(ctx)...)
	}
	return e
}

// contextFields pulls the request tracking values placed by ctxutil
func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}

	fields := make([]zap.Field, 0, 8)
	add := func(key, value string) {
		if value != "" {
			fields = append(fields, zap.String(key, value))
		}
	}

	add("request_id", ctxutil.GetRequestID(ctx))
	add("client_ip", ctxutil.GetClientIP(ctx))
	add("user_agent", ctxutil.GetUserAgent(ctx))
	add("module", ctxutil.GetModule(ctx))
	add("function", ctxutil.GetFunction(ctx))
	add("user_email", ctxutil.GetUserEmail(ctx))

	switch v := ctxutil.GetUserID(ctx).(type) {
	case nil:
	case uint:
		fields = append(fields, zap.Uint("user_id", v))
	case string:
		fields = append(fields, zap.String("user_id", v))
	default:
		fields = append(fields, zap.Any("user_id", v))
	}

	if elapsed := ctxutil.GetDuration(ctx); elapsed > 0 {
		fields = append(fields, zap.Duration("elapsed", elapsed))
	}

	return fields
}

func (e *Entry) add(f zap.Field) *Entry {
	if e.enabled {
		e.fields = append(e.fields, f)
	}
	return e
}

func (e *Entry) String(key, value string) *Entry { return e.add(zap.String(key, value)) }

func (e *Entry) Int(key string, value int) *Entry { return e.add(zap.Int(key, value)) }

func (e *Entry) Uint(key string, value uint) *Entry { return e.add(zap.Uint(key, value)) }

func (e *Entry) Bool(key string, value bool) *Entry { return e.add(zap.Bool(key, value)) }

func (e *Entry) Any(key string, value interface{}) *Entry { return e.add(zap.Any(key, value)) }

// Duration records how long the logged operation took
func (e *Entry) Duration(value time.Duration) *Entry { return e.add(zap.Duration("duration", value)) }

func (e *Entry) Method(method string) *Entry { return e.add(zap.String("method", method)) }

func (e *Entry) Path(path string) *Entry { return e.add(zap.String("path", path)) }

func (e *Entry) StatusCode(code int) *Entry { return e.add(zap.Int("status_code", code)) }

// Err attaches err; nil is ignored
func (e *Entry) Err(err error) *Entry {
	if err == nil {
		return e
	}
	return e.add(zap.Error(err))
}

// Log writes the entry. A cancelled context is still logged since timeouts
// are usually what the line is about.
func (e *Entry) Log() {
	if !e.enabled {
		return
	}
	if ce := e.logger.logger.Check(e.level, e.message); ce != nil {
		ce.Write(e.fields...)
	}
}

func InfoWithContext(ctx context.Context, message string) *Entry {
	return GetOptimizedLogger().entry(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *Entry {
	return GetOptimizedLogger().entry(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *Entry {
	return GetOptimizedLogger().entry(ctx, zapcore.ErrorLevel, message)
}

func DebugWithContext(ctx context.Context, message string) *Entry {
	return GetOptimizedLogger().entry(ctx, zapcore.DebugLevel, message)
}
