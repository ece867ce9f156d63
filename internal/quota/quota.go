// Package quota enforces the free daily generation limit per user.
package quota

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/db"
)

// DefaultDailyLimit is the number of free generations per user per UTC day
const DefaultDailyLimit = 3

// Decision is the outcome of one quota check
type Decision struct {
	Allowed   bool      `json:"allowed"`
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Checker consumes one unit of a user's daily allowance if any remains
type Checker interface {
	CheckAndConsume(ctx context.Context, userID string) (Decision, error)
	// Release returns a unit consumed today, e.g. after the generation failed
	Release(ctx context.Context, userID string) error
	Remaining(ctx context.Context, userID string) (Decision, error)
}

// Store persists per-user daily counters
type Store interface {
	// Consume increments the counter for day unless it already reached limit
	Consume(ctx context.Context, userID string, day time.Time, limit int) (count int, consumed bool, err error)
	// Release decrements the counter for day, never below zero
	Release(ctx context.Context, userID string, day time.Time) error
	// Count returns the counter for day
	Count(ctx context.Context, userID string, day time.Time) (int, error)
}

// Limiter implements Checker on top of a Store
type Limiter struct {
	store Store
	limit int
	now   func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a Limiter; a non-positive limit selects DefaultDailyLimit
func NewLimiter(store Store, limit int, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	l := &Limiter{store: store, limit: limit, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the daily limit
func (l *Limiter) Limit() int {
	return l.limit
}

// CheckAndConsume consumes one generation for userID when the daily limit allows it
func (l *Limiter) CheckAndConsume(ctx context.Context, userID string) (Decision, error) {
	if userID == "" {
		return Decision{}, fmt.Errorf("user id is required")
	}
	now := l.now()
	count, consumed, err := l.store.Consume(ctx, userID, now, l.limit)
	if err != nil {
		return Decision{}, fmt.Errorf("quota check failed: %w", err)
	}
	if !consumed {
		log.Printf("[quota] daily limit reached for %s (%d/%d)", userID, count, l.limit)
	}
	return l.decision(consumed, count, now), nil
}

// Release gives back one generation consumed today by userID
func (l *Limiter) Release(ctx context.Context, userID string) error {
	if err := l.store.Release(ctx, userID, l.now()); err != nil {
		return fmt.Errorf("quota release failed: %w", err)
	}
	return nil
}

// Remaining reports the allowance left for userID without consuming any
func (l *Limiter) Remaining(ctx context.Context, userID string) (Decision, error) {
	now := l.now()
	count, err := l.store.Count(ctx, userID, now)
	if err != nil {
		return Decision{}, fmt.Errorf("quota lookup failed: %w", err)
	}
	return l.decision(count < l.limit, count, now), nil
}

func (l *Limiter) decision(allowed bool, count int, now time.Time) Decision {
	return Decision{
		Allowed:   allowed,
		Used:      count,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		ResetAt:   db.UTCDay(now).Add(24 * time.Hour),
	}
}

// MemoryStore keeps counters in process memory. Counters of earlier days are
// dropped the first time a later day is consumed.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
	latest string // most recent day key seen by Consume
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func memoryKey(userID string, day time.Time) string {
	return db.DayKey(day) + "|" + userID
}

// Consume implements Store
func (s *MemoryStore) Consume(_ context.Context, userID string, day time.Time, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dayKey := db.DayKey(day); dayKey > s.latest {
		s.latest = dayKey
		s.pruneLocked(dayKey)
	}

	key := memoryKey(userID, day)
	count := s.counts[key]
	if count >= limit {
		return count, false, nil
	}
	count++
	s.counts[key] = count
	return count, true, nil
}

// Release implements Store
func (s *MemoryStore) Release(_ context.Context, userID string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(userID, day)
	if s.counts[key] > 0 {
		s.counts[key]--
	}
	return nil
}

// Count implements Store
func (s *MemoryStore) Count(_ context.Context, userID string, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[memoryKey(userID, day)], nil
}

// Prune drops counters for days before day
func (s *MemoryStore) Prune(day time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked(db.DayKey(day))
}

func (s *MemoryStore) pruneLocked(cutoff string) int {
	removed := 0
	for key := range s.counts {
		if key[:len(cutoff)] < cutoff {
			delete(s.counts, key)
			removed++
		}
	}
	return removed
}

// PostgresStore keeps counters in the usage_counters table
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by database
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// Consume implements Store
func (s *PostgresStore) Consume(ctx context.Context, userID string, day time.Time, limit int) (int, bool, error) {
	return s.db.ConsumeUsage(ctx, userID, day, limit)
}

// Release implements Store
func (s *PostgresStore) Release(ctx context.Context, userID string, day time.Time) error {
	return s.db.ReleaseUsage(ctx, userID, day)
}

// Count implements Store
func (s *PostgresStore) Count(ctx context.Context, userID string, day time.Time) (int, error) {
	return s.db.GetUsage(ctx, userID, day)
}
