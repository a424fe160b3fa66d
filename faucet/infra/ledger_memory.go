package infra

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"faucet-gateway/faucet/domain"

	"github.com/gagliardetto/solana-go"
)

// MemoryTransferFee é a taxa cobrada do pagador em cada transferência simulada.
const MemoryTransferFee = 5_000

// MemoryLedger simula um cluster em memória: saldos por endereço, blockhash e
// assinaturas aleatórias. Usado pelo servidor de desenvolvimento (cmd/faucet-dev).
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[domain.Address]uint64
}

var _ domain.Ledger = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[domain.Address]uint64)}
}

// Fund credita lamports num endereço.
func (l *MemoryLedger) Fund(addr domain.Address, lamports uint64) {
	l.mu.Lock()
	l.balances[addr] += lamports
	l.mu.Unlock()
}

// ParseAddress aplica a mesma validação base58 do SolanaLedger.
func (l *MemoryLedger) ParseAddress(s string) (domain.Address, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadAddress, err)
	}
	return domain.Address(pk.String()), nil
}

func (l *MemoryLedger) RecentAnchor(ctx context.Context) (domain.Anchor, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var h solana.Hash
	_, _ = rand.Read(h[:])
	return domain.Anchor(h.String()), nil
}

func (l *MemoryLedger) Balance(ctx context.Context, addr domain.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr], nil
}

func (l *MemoryLedger) SubmitTransfer(ctx context.Context, from, to domain.Address, amount uint64, anchor domain.Anchor) (domain.Signature, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if anchor == "" {
		return "", fmt.Errorf("%w: missing recent blockhash", ErrTransactionFailed)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount+MemoryTransferFee {
		return "", fmt.Errorf("%w: insufficient lamports", ErrTransactionFailed)
	}
	l.balances[from] -= amount + MemoryTransferFee
	l.balances[to] += amount

	var sig solana.Signature
	_, _ = rand.Read(sig[:])
	return domain.Signature(sig.String()), nil
}
