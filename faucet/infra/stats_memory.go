package infra

import (
	"context"
	"sync"

	"faucet-gateway/faucet/domain"
)

// MemoryStatsStore conta resultados em memória. É o padrão quando o Redis
// não está configurado e alimenta o GET /stats.
//
// Não faz expiração: zera a cada restart, como o resto do estado do faucet.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     map[domain.Outcome]int64
	byKey     map[domain.Key]map[domain.Outcome]int64
	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total: make(map[domain.Outcome]int64),
		byKey: make(map[domain.Key]map[domain.Outcome]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Outcome]++
	if s.trackKeys && ev.Key != "" {
		k := s.byKey[ev.Key]
		if k == nil {
			k = make(map[domain.Outcome]int64)
			s.byKey[ev.Key] = k
		}
		k[ev.Outcome]++
	}
	return nil
}

// Totals devolve uma cópia com todos os resultados, inclusive os zerados.
func (s *MemoryStatsStore) Totals() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(domain.Outcomes()))
	for _, o := range domain.Outcomes() {
		out[o.String()] = s.total[o]
	}
	return out
}

func (s *MemoryStatsStore) ByKey(key domain.Key) map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64)
	for o, n := range s.byKey[key] {
		out[o.String()] = n
	}
	return out
}
