package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"faucet-gateway/faucet"
	"faucet-gateway/faucet/application"
	"faucet-gateway/faucet/domain"
	"faucet-gateway/faucet/infra"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Exemplo: faucet completo sem cluster, com um ledger em memória.
	// Útil para desenvolver o frontend (STATIC_DIR) sem gastar tokens de testnet.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	signer := solana.NewWallet().PrivateKey
	faucetAddr := domain.Address(signer.PublicKey().String())

	ledger := infra.NewMemoryLedger()
	ledger.Fund(faucetAddr, 100*faucet.LamportsPerToken)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// janela curta para testar o 429 sem esperar um dia
	state := infra.NewGatingState(infra.SystemClock{}, infra.DefaultChallengeTTL, time.Minute)
	if err := (&application.Sweeper{Target: state, Interval: time.Minute}).Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start sweeper")
	}

	throttle := infra.NewThrottleStore(5, 10)
	throttle.StartJanitor(ctx)

	stats := infra.NewMemoryStatsStore(infra.WithTrackKeys(true))
	h := faucet.NewRouter(faucet.RouterOptions{
		Handlers: &faucet.Handlers{
			Challenges: application.ChallengeService{Store: state.Challenges},
			Grants: &application.Pipeline{
				Challenges:      state.Challenges,
				Limiter:         state.Limits,
				Ledger:          ledger,
				Stats:           stats,
				Faucet:          faucetAddr,
				Amount:          faucet.LamportsPerToken,
				FeeReserve:      infra.MemoryTransferFee,
				TransferTimeout: 5 * time.Second,
			},
			Stats:       stats,
			TokenSymbol: "XNT",
		},
		Throttle:    faucet.ThrottleOptions{Store: throttle, TrustXForwardedFor: true},
		Concurrency: faucet.ConcurrencyOptions{Max: 8},
		StaticDir:   os.Getenv("STATIC_DIR"),
	})

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Str("faucet", string(faucetAddr)).Msg("dev faucet listening (in-memory ledger)")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
