package infra

import (
	"context"
	"sync"
	"time"

	"faucet-gateway/faucet/domain"

	"golang.org/x/time/rate"
)

// ThrottleStore é um token bucket (x/time/rate) por cliente que limita a emissão
// de desafios. Sem ele, um cliente pode encher o ChallengeStore durante os 5 minutos
// de validade. Chaves ociosas são limpas pelo janitor.
type ThrottleStore struct {
	mu           sync.Mutex
	entries      map[domain.Key]*throttleEntry
	clock        domain.Clock
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type throttleEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ThrottleOption func(*ThrottleStore)

func WithIdleTTL(d time.Duration) ThrottleOption {
	return func(s *ThrottleStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) ThrottleOption {
	return func(s *ThrottleStore) { s.cleanupEvery = d }
}

func WithThrottleClock(c domain.Clock) ThrottleOption {
	return func(s *ThrottleStore) { s.clock = c }
}

func NewThrottleStore(rps float64, burst int, opts ...ThrottleOption) *ThrottleStore {
	s := &ThrottleStore{
		entries:      make(map[domain.Key]*throttleEntry),
		clock:        SystemClock{},
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ThrottleStore) RPS() float64 { return float64(s.rps) }
func (s *ThrottleStore) Burst() int   { return s.burst }

// Get implementa domain.LimiterStore.
func (s *ThrottleStore) Get(key domain.Key) domain.Limiter {
	return s.limiter(key)
}

func (s *ThrottleStore) limiter(key domain.Key) *rate.Limiter {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &throttleEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup remove limiters sem uso há mais de idleTTL.
func (s *ThrottleStore) Cleanup() {
	cutoff := s.clock.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

func (s *ThrottleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *ThrottleStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
