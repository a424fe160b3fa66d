package infra

import (
	"sync"
	"time"

	"faucet-gateway/faucet/domain"
)

const DefaultRateWindow = 24 * time.Hour

// RateLimitStore guarda o último grant por chave (destinatário + pista do cliente).
//
// Um único mutex serializa o check-and-update, o que torna TryAcquire linearizável
// por chave. Ausência de registro e registro mais velho que a janela são estados
// equivalentes, então o Sweep nunca muda o resultado de um pedido.
type RateLimitStore struct {
	mu      sync.Mutex
	entries map[domain.Key]time.Time

	clock  domain.Clock
	window time.Duration
}

type RateLimitOption func(*RateLimitStore)

func WithRateWindow(d time.Duration) RateLimitOption {
	return func(s *RateLimitStore) { s.window = d }
}

func WithRateClock(c domain.Clock) RateLimitOption {
	return func(s *RateLimitStore) { s.clock = c }
}

func NewRateLimitStore(opts ...RateLimitOption) *RateLimitStore {
	s := &RateLimitStore{
		entries: make(map[domain.Key]time.Time),
		clock:   SystemClock{},
		window:  DefaultRateWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RateLimitStore) Window() time.Duration { return s.window }

// Decide implementa domain.RateLimiter. Quando permite, grava now como último grant.
// Quando bloqueia, o registro fica intacto e RetryAfter diz quanto falta.
func (s *RateLimitStore) Decide(key domain.Key) domain.Decision {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.entries[key]
	if ok {
		if elapsed := now.Sub(last); elapsed < s.window {
			return domain.Decision{Allowed: false, RetryAfter: s.window - elapsed}
		}
	}
	s.entries[key] = now
	return domain.Decision{Allowed: true}
}

// TryAcquire implementa domain.RateLimiter.
func (s *RateLimitStore) TryAcquire(key domain.Key) bool {
	return s.Decide(key).Allowed
}

// Sweep remove registros com último grant há mais que a janela.
func (s *RateLimitStore) Sweep() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, last := range s.entries {
		if now.Sub(last) > s.window {
			delete(s.entries, k)
		}
	}
}

func (s *RateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
