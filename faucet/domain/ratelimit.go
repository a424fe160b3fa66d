package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"strings"
	"time"
)

type Key string

// UnknownClient é a pista usada quando o cliente não manda X-Forwarded-For.
// Todos os clientes sem pista compartilham o mesmo bucket (por destinatário).
const UnknownClient = "unknown"

// RateLimitKey monta a chave composta destinatário + ":" + pista do cliente.
func RateLimitKey(recipient Address, clientHint string) Key {
	hint := strings.TrimSpace(clientHint)
	if hint == "" {
		hint = UnknownClient
	}
	return Key(string(recipient) + ":" + hint)
}

// RateLimiter guarda o último grant por chave e impõe um intervalo mínimo.
//
// TryAcquire é um check-and-update atômico: dois chamadores concorrentes com a
// mesma chave nunca recebem true na mesma janela.
type RateLimiter interface {
	TryAcquire(key Key) bool
	Decide(key Key) Decision
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}

// Limiter representa algo que pode decidir se uma ação é permitida agora.
// Usado pelo throttle de emissão de desafios (token bucket).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave de cliente.
type LimiterStore interface {
	Get(Key) Limiter
}
