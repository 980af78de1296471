package ctxutil

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey = constants.CtxKeyRequestID
	UserIDKey    = constants.CtxKeyUserID
	ClientIPKey  = constants.CtxKeyClientIP
	UserAgentKey = constants.CtxKeyUserAgent
	StartTimeKey = constants.CtxKeyStartTime
	ModuleKey    = constants.CtxKeyModule
	FunctionKey  = constants.CtxKeyFunction
	UserEmailKey = constants.CtxKeyUserEmail
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID interface{}) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithUserEmail adds the authenticated email to context
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, UserEmailKey, email)
}

// WithOperation tags the context with the layer and function that is
// currently running. Every log line written with the context carries both.
func WithOperation(ctx context.Context, module, function string) context.Context {
	ctx = context.WithValue(ctx, ModuleKey, module)
	return context.WithValue(ctx, FunctionKey, function)
}

// WithRequestInfo stores the per-request tracking values
func WithRequestInfo(ctx context.Context, requestID, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	ctx = context.WithValue(ctx, ClientIPKey, clientIP)
	ctx = context.WithValue(ctx, UserAgentKey, userAgent)
	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}
	return ctx
}

// WithTimeout creates context with timeout
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func value[T any](ctx context.Context, key ContextKey) T {
	v, _ := ctx.Value(key).(T)
	return v
}

func GetRequestID(ctx context.Context) string { return value[string](ctx, RequestIDKey) }

func GetClientIP(ctx context.Context) string { return value[string](ctx, ClientIPKey) }

func GetUserAgent(ctx context.Context) string { return value[string](ctx, UserAgentKey) }

// GetUserID returns whatever the auth middleware stored, usually a uint
func GetUserID(ctx context.Context) interface{} { return ctx.Value(UserIDKey) }

func GetUserEmail(ctx context.Context) string { return value[string](ctx, UserEmailKey) }

func GetStartTime(ctx context.Context) time.Time { return value[time.Time](ctx, StartTimeKey) }

func GetModule(ctx context.Context) string { return value[string](ctx, ModuleKey) }

func GetFunction(ctx context.Context) string { return value[string](ctx, FunctionKey) }

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// NewContextWithRequest creates the handler-level context. Request tracking
// values already placed by the request middleware are kept; when a handler
// runs without that middleware (tests, internal calls) the client values are
// taken from req.
func NewContextWithRequest(ctx context.Context, req *http.Request, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = WithOperation(ctx, module, function)

	if req != nil && GetUserAgent(ctx) == "" {
		ctx = context.WithValue(ctx, UserAgentKey, req.UserAgent())
	}

	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}

	return ctx
}
