package infra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"faucet-gateway/faucet/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sony/gobreaker"
)

var (
	ErrBadAddress        = errors.New("ledger: invalid address")
	ErrWrongSigner       = errors.New("ledger: from address is not the faucet signer")
	ErrTransactionFailed = errors.New("ledger: transaction failed")
)

// DefaultKeypairPath é onde o solana-keygen grava a chave por padrão.
const DefaultKeypairPath = "~/.config/solana/id.json"

// SolanaLedger implementa domain.Ledger sobre o JSON-RPC de um cluster Solana (ou compatível, ex: X1).
type SolanaLedger struct {
	rpc         *rpc.Client
	signer      solana.PrivateKey
	commitment  rpc.CommitmentType
	confirmPoll time.Duration
	breaker     *gobreaker.CircuitBreaker
}

var _ domain.Ledger = (*SolanaLedger)(nil)

type LedgerOption func(*SolanaLedger)

func WithCommitment(c rpc.CommitmentType) LedgerOption {
	return func(l *SolanaLedger) { l.commitment = c }
}

func WithConfirmPoll(d time.Duration) LedgerOption {
	return func(l *SolanaLedger) { l.confirmPoll = d }
}

// WithBreaker abre o circuito após `failures` erros consecutivos de RPC e tenta de
// novo depois de `timeout`. failures == 0 desliga.
func WithBreaker(failures uint32, timeout time.Duration) LedgerOption {
	return func(l *SolanaLedger) {
		if failures == 0 {
			l.breaker = nil
			return
		}
		l.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "solana-rpc",
			Timeout: timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
		})
	}
}

func NewSolanaLedger(endpoint string, signer solana.PrivateKey, opts ...LedgerOption) *SolanaLedger {
	l := &SolanaLedger{
		rpc:         rpc.New(endpoint),
		signer:      signer,
		commitment:  rpc.CommitmentConfirmed,
		confirmPoll: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadKeypair lê um arquivo JSON do solana-keygen (array de 64 bytes). Aceita "~/".
func LoadKeypair(path string) (solana.PrivateKey, error) {
	if path == "" {
		path = DefaultKeypairPath
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("unable to determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("keypair file not found at %s, run 'solana-keygen new' to generate one: %w", path, err)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keypair from %s failed: %w", path, err)
	}
	return key, nil
}

// Address é o endereço do faucet (pagador e origem das transferências).
func (l *SolanaLedger) Address() domain.Address {
	return domain.Address(l.signer.PublicKey().String())
}

func (l *SolanaLedger) ParseAddress(s string) (domain.Address, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadAddress, err)
	}
	return domain.Address(pk.String()), nil
}

func (l *SolanaLedger) Health(ctx context.Context) error {
	_, err := guarded(l, func() (string, error) { return l.rpc.GetHealth(ctx) })
	return err
}

func (l *SolanaLedger) RecentAnchor(ctx context.Context) (domain.Anchor, error) {
	out, err := guarded(l, func() (*rpc.GetLatestBlockhashResult, error) {
		return l.rpc.GetLatestBlockhash(ctx, l.commitment)
	})
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", errors.New("empty latest blockhash response")
	}
	return domain.Anchor(out.Value.Blockhash.String()), nil
}

func (l *SolanaLedger) Balance(ctx context.Context, addr domain.Address) (uint64, error) {
	pk, err := solana.PublicKeyFromBase58(string(addr))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadAddress, err)
	}
	out, err := guarded(l, func() (*rpc.GetBalanceResult, error) {
		return l.rpc.GetBalance(ctx, pk, l.commitment)
	})
	if err != nil {
		return 0, err
	}
	if out == nil {
		return 0, errors.New("empty balance response")
	}
	return out.Value, nil
}

// SubmitTransfer monta uma transferência de sistema com uma única instrução,
// assina com a chave do faucet, envia e espera o commitment configurado.
func (l *SolanaLedger) SubmitTransfer(ctx context.Context, from, to domain.Address, amount uint64, anchor domain.Anchor) (domain.Signature, error) {
	fromKey, err := solana.PublicKeyFromBase58(string(from))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadAddress, err)
	}
	if !fromKey.Equals(l.signer.PublicKey()) {
		return "", ErrWrongSigner
	}
	toKey, err := solana.PublicKeyFromBase58(string(to))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadAddress, err)
	}
	blockhash, err := solana.HashFromBase58(string(anchor))
	if err != nil {
		return "", fmt.Errorf("invalid blockhash %q: %w", anchor, err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(amount, fromKey, toKey).Build()},
		blockhash,
		solana.TransactionPayer(fromKey),
	)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(fromKey) {
			return &l.signer
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := guarded(l, func() (solana.Signature, error) {
		return l.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			PreflightCommitment: l.commitment,
		})
	})
	if err != nil {
		return "", err
	}

	if err := l.awaitConfirmation(ctx, sig); err != nil {
		return "", err
	}
	return domain.Signature(sig.String()), nil
}

func (l *SolanaLedger) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	t := time.NewTicker(l.confirmPoll)
	defer t.Stop()

	for {
		out, err := guarded(l, func() (*rpc.GetSignatureStatusesResult, error) {
			return l.rpc.GetSignatureStatuses(ctx, false, sig)
		})
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("waiting confirmation of %s: %w", sig, ctx.Err())
			}
			return fmt.Errorf("signature status %s: %w", sig, err)
		}
		if out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			st := out.Value[0]
			if st.Err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, st.Err)
			}
			if reached(st.ConfirmationStatus, l.commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting confirmation of %s: %w", sig, ctx.Err())
		case <-t.C:
		}
	}
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch want {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status != ""
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}

// guarded passa a chamada pelo circuit breaker quando configurado.
func guarded[T any](l *SolanaLedger, fn func() (T, error)) (T, error) {
	if l.breaker == nil {
		return fn()
	}
	out, err := l.breaker.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}
