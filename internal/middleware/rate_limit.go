package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. maxRequest tokens refill
// evenly over duration.
type RateLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	limit      rate.Limit
	maxRequest int
	duration   time.Duration
	now        func() time.Time
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors:   make(map[string]*visitor),
		limit:      rate.Every(duration / time.Duration(maxRequest)),
		maxRequest: maxRequest,
		duration:   duration,
		now:        time.Now,
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.maxRequest)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// cleanup forgets clients idle for longer than a full refill window; their
// bucket would be full again anyway.
func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.duration {
			delete(rl.visitors, ip)
		}
	}
}

// RateLimit rejects a client with 429 once it has spent maxRequest requests
// within duration. A non-positive maxRequest disables the limiter.
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	if maxRequest <= 0 || duration <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.allow(ip) {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.Header("Retry-After", strconv.Itoa(int(duration.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, constants.BuildErrorResponse(constants.MsgTooManyRequests, nil))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequest))
		c.Next()
	}
}
