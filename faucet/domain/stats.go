package domain

import (
	"context"
	"time"
)

// StatsEvent representa o resultado terminal de um pedido de grant.
//
// Observação: cuidado com cardinalidade. Key carrega destinatário + IP e só deve
// ser persistida por chave quando o operador pedir explicitamente.
type StatsEvent struct {
	Key     Key
	Outcome Outcome

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de resultados.
//
// Implementações podem armazenar em Redis, memória, etc.
// O pipeline trata erro como best-effort (não derruba o pedido).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
