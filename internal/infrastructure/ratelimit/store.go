package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor tracks the token bucket of a single client
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// StoreConfig holds configuration for the visitor store
type StoreConfig struct {
	RequestsPerMinute int
	// Burst defaults to RequestsPerMinute
	Burst int
	// IdleTTL is how long an unused visitor is kept, default 10 minutes
	IdleTTL time.Duration
	// CleanupInterval defaults to one minute
	CleanupInterval time.Duration
}

// Store is a thread-safe set of per-client token buckets with idle eviction
type Store struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewStore creates a new visitor store and starts its cleanup loop
func NewStore(config StoreConfig) *Store {
	burst := config.Burst
	if burst <= 0 {
		burst = config.RequestsPerMinute
	}
	idleTTL := config.IdleTTL
	if idleTTL == 0 {
		idleTTL = 10 * time.Minute
	}
	interval := config.CleanupInterval
	if interval == 0 {
		interval = time.Minute
	}

	store := &Store{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(config.RequestsPerMinute) / 60.0),
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go store.cleanupLoop(interval)

	return store
}

// Allow reports whether the client identified by key may make a request now
func (s *Store) Allow(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	v, exists := s.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = s.now()

	return v.limiter.AllowN(v.lastSeen, 1)
}

// Size returns the number of tracked clients
func (s *Store) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.visitors)
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// cleanupLoop evicts idle visitors periodically until Close is called
func (s *Store) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.done:
			return
		}
	}
}

func (s *Store) evictIdle() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	for key, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, key)
		}
	}
}
