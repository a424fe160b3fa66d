package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"faucet-gateway/faucet"
	"faucet-gateway/faucet/application"
	"faucet-gateway/faucet/domain"
	"faucet-gateway/faucet/infra"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	setupLogging(cfg.logLevel, cfg.logFormat)

	key, err := infra.LoadKeypair(cfg.keypairPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load faucet keypair")
	}

	ledger := infra.NewSolanaLedger(
		cfg.rpcURL,
		key,
		infra.WithConfirmPoll(cfg.confirmPoll),
		infra.WithBreaker(cfg.breakerFailures, cfg.breakerTimeout),
	)
	log.Info().Str("address", string(ledger.Address())).Str("rpc", cfg.rpcURL).Msg("faucet wallet loaded")

	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ledger.Health(probeCtx); err != nil {
		cancelProbe()
		log.Fatal().Err(err).Str("rpc", cfg.rpcURL).Msg("failed to connect to Solana RPC")
	}
	if balance, err := ledger.Balance(probeCtx, ledger.Address()); err != nil {
		log.Warn().Err(err).Msg("could not read faucet balance")
	} else {
		ev := log.Info()
		if balance < cfg.airdropLamports+cfg.feeReserveLamports {
			ev = log.Warn()
		}
		ev.Uint64("lamports", balance).Msg("faucet balance")
	}
	cancelProbe()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	state := infra.NewGatingState(infra.SystemClock{}, cfg.challengeTTL, cfg.rateWindow)
	sweeper := &application.Sweeper{Target: state, Interval: cfg.sweepInterval}
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start sweeper")
	}

	var statsStore domain.StatsStore
	var statsReader faucet.StatsReader
	if cfg.rateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.rateStatsRedisAddr,
			Password: cfg.rateStatsRedisPassword,
			DB:       cfg.rateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			log.Fatal().Err(err).Msg("redis stats ping error")
		}

		statsStore = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		)
	} else {
		mem := infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.rateStatsTrackKeys))
		statsStore, statsReader = mem, mem
	}

	pipeline := &application.Pipeline{
		Challenges:      state.Challenges,
		Limiter:         state.Limits,
		Ledger:          ledger,
		Stats:           statsStore,
		Clock:           infra.SystemClock{},
		Faucet:          ledger.Address(),
		Amount:          cfg.airdropLamports,
		FeeReserve:      cfg.feeReserveLamports,
		TransferTimeout: cfg.transferTimeout,
	}

	throttle := faucet.ThrottleOptions{
		KeyHeader:          cfg.rateKeyHeader,
		TrustXForwardedFor: cfg.trustXFF,
	}
	if cfg.challengeRateEnabled {
		store := infra.NewThrottleStore(cfg.challengeRPS, cfg.challengeBurst)
		store.StartJanitor(ctx)
		throttle.Store = store
	}

	h := faucet.NewRouter(faucet.RouterOptions{
		Handlers: &faucet.Handlers{
			Challenges:  application.ChallengeService{Store: state.Challenges},
			Grants:      pipeline,
			Stats:       statsReader,
			TokenSymbol: cfg.tokenSymbol,
		},
		Throttle: throttle,
		Concurrency: faucet.ConcurrencyOptions{
			Max:            cfg.concurrencyMax,
			AcquireTimeout: cfg.concurrencyTimeout,
		},
		StaticDir: cfg.staticDir,
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// a confirmação da transferência pode levar até TRANSFER_TIMEOUT
		WriteTimeout: cfg.transferTimeout + 30*time.Second,
		IdleTimeout:  90 * time.Second,
	}

	metricsSrv := startMetrics(cfg.metricsBind)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
	}()

	log.Info().Str("addr", cfg.listenAddr).Str("static_dir", cfg.staticDir).Msg("faucet listening")
	log.Info().
		Uint64("airdrop_lamports", cfg.airdropLamports).
		Dur("rate_window", cfg.rateWindow).
		Dur("challenge_ttl", cfg.challengeTTL).
		Dur("sweep_interval", cfg.sweepInterval).
		Msg("gating")
	log.Info().
		Bool("enabled", cfg.challengeRateEnabled).
		Float64("rps", cfg.challengeRPS).
		Int("burst", cfg.challengeBurst).
		Str("key_header", cfg.rateKeyHeader).
		Bool("trust_xff", cfg.trustXFF).
		Msg("challenge throttle")
	log.Info().
		Bool("redis", cfg.rateStatsEnabled).
		Str("redis_addr", cfg.rateStatsRedisAddr).
		Str("bucket", cfg.rateStatsBucket).
		Dur("ttl", cfg.rateStatsTTL).
		Msg("outcome stats")
	log.Info().Int("max", cfg.concurrencyMax).Dur("acquire_timeout", cfg.concurrencyTimeout).Msg("concurrency")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}

func setupLogging(level, format string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if strings.EqualFold(format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("invalid LOG_LEVEL, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// startMetrics sobe o /metrics do Prometheus num listener separado. bind vazio desliga.
func startMetrics(bind string) *http.Server {
	if bind == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", bind).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()
	return srv
}
