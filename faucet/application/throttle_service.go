package application

import (
	"time"

	"faucet-gateway/faucet/domain"
)

// ThrottleService concentra a regra de throttle da emissão de desafios.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type ThrottleService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s ThrottleService) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	challengesThrottled.Inc()
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
