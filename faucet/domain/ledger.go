package domain

import "context"

// Address é uma identidade do ledger já validada (base58 no caso Solana).
type Address string

// Anchor é a âncora de execução recente exigida para assinar uma transação (blockhash).
type Anchor string

// Signature identifica uma transação submetida.
type Signature string

// Ledger é o colaborador externo (TransferGateway). Todas as chamadas podem bloquear
// por segundos; nenhum lock dos stores em memória pode estar preso enquanto isso.
type Ledger interface {
	// ParseAddress valida a sintaxe de endereço do ledger, sem I/O.
	ParseAddress(s string) (Address, error)

	RecentAnchor(ctx context.Context) (Anchor, error)
	Balance(ctx context.Context, addr Address) (uint64, error)

	// SubmitTransfer assina, envia e espera confirmação de uma transferência única.
	SubmitTransfer(ctx context.Context, from, to Address, amount uint64, anchor Anchor) (Signature, error)
}
