package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/model"
	"github.com/Payphone-Digital/addressbook/internal/repository"
)

type fakeUserStore struct {
	mu     sync.Mutex
	users  []*model.User
	nextID uint
	err    error
}

func newFakeUserStore() *fakeUserStore { return &fakeUserStore{nextID: 1} }

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserStore) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range f.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.find(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUserStore) GetByResetToken(_ context.Context, digest string, now time.Time) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(func(u *model.User) bool {
		return u.ResetTokenHash != nil && *u.ResetTokenHash == digest && u.HasPendingReset(now)
	})
}

func (f *fakeUserStore) byID(id uint) *model.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, userID uint, digest string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID(userID)
	if u == nil {
		return repository.ErrNotFound
	}
	u.ResetTokenHash = &digest
	u.ResetTokenExpiry = &expiry
	return nil
}

func (f *fakeUserStore) ClearResetToken(_ context.Context, userID uint, digest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.byID(userID); u != nil && u.ResetTokenHash != nil && *u.ResetTokenHash == digest {
		u.ResetTokenHash = nil
		u.ResetTokenExpiry = nil
	}
	return nil
}

func (f *fakeUserStore) ResetPassword(_ context.Context, userID uint, digest, passwordHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID(userID)
	if u == nil || u.ResetTokenHash == nil || *u.ResetTokenHash != digest || !u.HasPendingReset(now) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	return true, nil
}

func (f *fakeUserStore) get(email string) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	err    error
	onSend func()
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onSend != nil {
		f.onSend()
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

type published struct {
	queue string
	event interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, queue string, event interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{queue, event})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.events...)
}

// countingRepo wraps the memory store and counts reads
type countingRepo struct {
	*repository.MemoryContactRepository
	mu       sync.Mutex
	getAll   int
	getByID  int
	failRead bool
}

func (r *countingRepo) GetAll(ctx context.Context) ([]model.Contact, error) {
	r.mu.Lock()
	r.getAll++
	fail := r.failRead
	r.mu.Unlock()
	if fail {
		return nil, errors.New("db down")
	}
	return r.MemoryContactRepository.GetAll(ctx)
}

func (r *countingRepo) GetByID(ctx context.Context, id uint) (*model.Contact, error) {
	r.mu.Lock()
	r.getByID++
	r.mu.Unlock()
	return r.MemoryContactRepository.GetByID(ctx, id)
}

// clockCache is a TTL cache with a controllable clock
type clockCache struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]clockEntry
	err     error
	sets    int
}

type clockEntry struct {
	data    []byte
	expires time.Time
}

func newClockCache() *clockCache {
	return &clockCache{now: time.Unix(1700000000, 0), entries: map[string]clockEntry{}}
}

func (c *clockCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *clockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	e, ok := c.entries[key]
	if !ok || !c.now.Before(e.expires) {
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *clockCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sets++
	c.entries[key] = clockEntry{data: value, expires: c.now.Add(ttl)}
	return nil
}

func (c *clockCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *clockCache) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *clockCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
