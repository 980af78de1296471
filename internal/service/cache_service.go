package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/pkg/circuit"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
)

// CacheBackend is satisfied by pkg/redis.Client and pkg/cache.Cache
type CacheBackend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// CacheService is the advisory cache in front of the contact store. Backend
// failures are logged and never returned.
type CacheService struct {
	backend CacheBackend
	breaker *circuit.Breaker
	ttl     time.Duration
}

func NewCacheService(backend CacheBackend, breaker *circuit.Breaker, ttl time.Duration) *CacheService {
	return &CacheService{backend: backend, breaker: breaker, ttl: ttl}
}

func (s *CacheService) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Do(ctx, fn)
}

func (s *CacheService) get(ctx context.Context, key string) ([]byte, bool) {
	var data []byte
	var hit bool
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		data, hit, err = s.backend.Get(ctx, key)
		return err
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Cache read failed, falling back to store").
			String("key", key).
			Err(err).
			Log()
		return nil, false
	}
	return data, hit
}

func (s *CacheService) set(ctx context.Context, key string, data []byte) {
	err := s.call(ctx, func(ctx context.Context) error {
		return s.backend.Set(ctx, key, data, s.ttl)
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Cache write failed").
			String("key", key).
			Err(err).
			Log()
	}
}

// Invalidate removes keys. A failure is logged and the entries live until
// their TTL.
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || len(keys) == 0 {
		return
	}
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "CacheInvalidate")

	err := s.call(ctx, func(ctx context.Context) error {
		return s.backend.Delete(ctx, keys...)
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Cache invalidation failed").
			Any("keys", keys).
			Err(err).
			Log()
	}
}

// Ping checks the backend directly, bypassing the breaker
func (s *CacheService) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// ReadThrough returns the cached value for key when present. Otherwise it
// calls load and stores the result with the service TTL. fromCache reports
// which path served the value. A nil cache always loads.
func ReadThrough[T any](ctx context.Context, cache *CacheService, key string, load func(ctx context.Context) (T, error)) (value T, fromCache bool, err error) {
	if cache != nil {
		if data, hit := cache.get(ctx, key); hit {
			decodeErr := json.Unmarshal(data, &value)
			if decodeErr == nil {
				logger.DebugWithContext(ctx, "Cache hit").String("key", key).Log()
				return value, true, nil
			}
			logger.WarnWithContext(ctx, "Discarding undecodable cache entry").
				String("key", key).
				Err(decodeErr).
				Log()
		}
	}

	value, err = load(ctx)
	if err != nil {
		return value, false, err
	}

	if cache != nil {
		if data, err := json.Marshal(value); err == nil {
			cache.set(ctx, key, data)
		}
	}
	return value, false, nil
}
