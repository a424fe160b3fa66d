package infra

import (
	"context"

	"faucet-gateway/faucet/domain"
)

// SlotPool limita quantos pedidos de airdrop ficam em voo ao mesmo tempo,
// cada um segurando uma vaga enquanto espera o ledger.
type SlotPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*SlotPool)(nil)

// NewSlotPool cria um pool simples baseado em channel com capacidade `max`.
func NewSlotPool(max int) *SlotPool {
	return &SlotPool{sem: make(chan struct{}, max)}
}

func (p *SlotPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *SlotPool) InUse() int { return len(p.sem) }
func (p *SlotPool) Cap() int   { return cap(p.sem) }
