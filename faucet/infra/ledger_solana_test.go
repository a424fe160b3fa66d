package infra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"faucet-gateway/faucet/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

// fakeRPC responde JSON-RPC com handlers por método e guarda a ordem das chamadas.
type fakeRPC struct {
	mu       sync.Mutex
	calls    []string
	handlers map[string]func(n int) (result any, rpcErr map[string]any)
	counts   map[string]int
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{
		handlers: make(map[string]func(int) (any, map[string]any)),
		counts:   make(map[string]int),
	}
}

func (f *fakeRPC) on(method string, h func(n int) (any, map[string]any)) {
	f.handlers[method] = h
}

func (f *fakeRPC) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRPC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls = append(f.calls, req.Method)
	n := f.counts[req.Method]
	f.counts[req.Method] = n + 1
	h := f.handlers[req.Method]
	f.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if h == nil {
		resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
	} else if result, rpcErr := h(n); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func ok(v any) func(int) (any, map[string]any) {
	return func(int) (any, map[string]any) { return v, nil }
}

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 42}, "value": value}
}

func statusOf(confirmation string, txErr any) map[string]any {
	return withContext([]any{map[string]any{
		"slot":               42,
		"confirmations":      nil,
		"err":                txErr,
		"confirmationStatus": confirmation,
	}})
}

func newTestLedger(t *testing.T, rpc *fakeRPC, opts ...LedgerOption) (*SolanaLedger, solana.PrivateKey) {
	t.Helper()
	srv := httptest.NewServer(rpc)
	t.Cleanup(srv.Close)

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	opts = append([]LedgerOption{WithConfirmPoll(5 * time.Millisecond)}, opts...)
	return NewSolanaLedger(srv.URL, key, opts...), key
}

func TestSolanaLedger_ParseAddress(t *testing.T) {
	l, key := newTestLedger(t, newFakeRPC())

	addr, err := l.ParseAddress(key.PublicKey().String())
	require.NoError(t, err)
	require.Equal(t, domain.Address(key.PublicKey().String()), addr)
	require.Equal(t, addr, l.Address())

	for _, bad := range []string{"", "not-base58-0OIl", "abc", key.PublicKey().String() + "x"} {
		_, err := l.ParseAddress(bad)
		require.ErrorIs(t, err, ErrBadAddress, "input %q", bad)
	}
}

func TestSolanaLedger_BalanceAndAnchor(t *testing.T) {
	rpc := newFakeRPC()
	hash := solana.Hash{1, 2, 3, 4}
	rpc.on("getBalance", ok(withContext(7_000_000_000)))
	rpc.on("getLatestBlockhash", ok(withContext(map[string]any{
		"blockhash":            hash.String(),
		"lastValidBlockHeight": 100,
	})))
	rpc.on("getHealth", ok("ok"))
	l, _ := newTestLedger(t, rpc)

	bal, err := l.Balance(context.Background(), l.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(7_000_000_000), bal)

	anchor, err := l.RecentAnchor(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Anchor(hash.String()), anchor)

	require.NoError(t, l.Health(context.Background()))
}

func TestSolanaLedger_SubmitTransferPollsUntilConfirmed(t *testing.T) {
	rpc := newFakeRPC()
	sig := solana.Signature{9, 9, 9}
	rpc.on("sendTransaction", ok(sig.String()))
	rpc.on("getSignatureStatuses", func(n int) (any, map[string]any) {
		if n == 0 {
			return withContext([]any{nil}), nil
		}
		if n == 1 {
			return statusOf("processed", nil), nil
		}
		return statusOf("confirmed", nil), nil
	})
	l, _ := newTestLedger(t, rpc)

	recipient, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	got, err := l.SubmitTransfer(context.Background(), l.Address(),
		domain.Address(recipient.PublicKey().String()), 1_000_000_000, domain.Anchor(solana.Hash{7}.String()))
	require.NoError(t, err)
	require.Equal(t, domain.Signature(sig.String()), got)
	require.Equal(t, []string{"sendTransaction", "getSignatureStatuses", "getSignatureStatuses", "getSignatureStatuses"}, rpc.methods())
}

func TestSolanaLedger_SubmitTransferReportsOnChainFailure(t *testing.T) {
	rpc := newFakeRPC()
	rpc.on("sendTransaction", ok(solana.Signature{1}.String()))
	rpc.on("getSignatureStatuses", ok(statusOf("confirmed", map[string]any{"InstructionError": []any{0, "Custom"}})))
	l, _ := newTestLedger(t, rpc)

	_, err := l.SubmitTransfer(context.Background(), l.Address(), l.Address(), 1, domain.Anchor(solana.Hash{7}.String()))
	require.ErrorIs(t, err, ErrTransactionFailed)
}

func TestSolanaLedger_SubmitTransferHonorsDeadline(t *testing.T) {
	rpc := newFakeRPC()
	rpc.on("sendTransaction", ok(solana.Signature{1}.String()))
	rpc.on("getSignatureStatuses", ok(withContext([]any{nil})))
	l, _ := newTestLedger(t, rpc)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	_, err := l.SubmitTransfer(ctx, l.Address(), l.Address(), 1, domain.Anchor(solana.Hash{7}.String()))
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSolanaLedger_SubmitTransferRejectsForeignSigner(t *testing.T) {
	l, _ := newTestLedger(t, newFakeRPC())
	other, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	_, err = l.SubmitTransfer(context.Background(), domain.Address(other.PublicKey().String()), l.Address(), 1, domain.Anchor(solana.Hash{7}.String()))
	require.ErrorIs(t, err, ErrWrongSigner)
}

func TestSolanaLedger_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	rpc := newFakeRPC()
	rpc.on("getBalance", func(int) (any, map[string]any) {
		return nil, map[string]any{"code": -32000, "message": "node is behind"}
	})
	l, _ := newTestLedger(t, rpc, WithBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := l.Balance(context.Background(), l.Address())
		require.Error(t, err)
	}
	_, err := l.Balance(context.Background(), l.Address())
	require.True(t, errors.Is(err, gobreaker.ErrOpenState), "expected open breaker, got %v", err)
	require.Len(t, rpc.methods(), 2)
}

func TestLoadKeypair_ReadsSolanaKeygenFile(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	loaded, err := LoadKeypair(path)
	require.NoError(t, err)
	require.True(t, loaded.PublicKey().Equals(key.PublicKey()))

	_, err = LoadKeypair(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "solana-keygen new")
}
