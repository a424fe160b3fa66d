package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"faucet-gateway/faucet/infra"
)

type config struct {
	listenAddr  string
	metricsBind string
	logLevel    string
	logFormat   string
	staticDir   string

	rpcURL             string
	keypairPath        string
	airdropLamports    uint64
	feeReserveLamports uint64
	tokenSymbol        string
	transferTimeout    time.Duration
	confirmPoll        time.Duration
	breakerFailures    uint32
	breakerTimeout     time.Duration

	challengeTTL  time.Duration
	rateWindow    time.Duration
	sweepInterval time.Duration

	challengeRateEnabled bool
	challengeRPS         float64
	challengeBurst       int
	rateKeyHeader        string
	trustXFF             bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
	rateStatsTrackKeys     bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":80")
	cfg.metricsBind = getenvDefault("METRICS_BIND", ":9090")
	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logFormat = getenvDefault("LOG_FORMAT", "json")
	cfg.staticDir = os.Getenv("STATIC_DIR")

	cfg.rpcURL = getenvDefault("SOLANA_RPC_URL", "https://rpc.testnet.x1.xyz")
	cfg.keypairPath = getenvDefault("FAUCET_KEYPAIR_PATH", infra.DefaultKeypairPath)
	cfg.airdropLamports = getenvUint64Default("AIRDROP_LAMPORTS", 1_000_000_000)
	cfg.feeReserveLamports = getenvUint64Default("FEE_RESERVE_LAMPORTS", 5_000)
	cfg.tokenSymbol = getenvDefault("TOKEN_SYMBOL", "XNT")
	cfg.transferTimeout = getenvDurationDefault("TRANSFER_TIMEOUT", 60*time.Second)
	cfg.confirmPoll = getenvDurationDefault("CONFIRM_POLL", 500*time.Millisecond)
	cfg.breakerFailures = uint32(getenvIntDefault("LEDGER_BREAKER_FAILURES", 0))
	cfg.breakerTimeout = getenvDurationDefault("LEDGER_BREAKER_TIMEOUT", 30*time.Second)

	cfg.challengeTTL = getenvDurationDefault("CHALLENGE_TTL", infra.DefaultChallengeTTL)
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", infra.DefaultRateWindow)
	cfg.sweepInterval = getenvDurationDefault("SWEEP_INTERVAL", time.Hour)

	cfg.challengeRateEnabled = getenvBoolDefault("CHALLENGE_RATE_ENABLED", true)
	cfg.challengeRPS = getenvFloatDefault("CHALLENGE_RPS", 1)
	cfg.challengeBurst = getenvIntDefault("CHALLENGE_BURST", 10)
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", true)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 32)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 5*time.Second)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "faucet:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if strings.TrimSpace(cfg.rpcURL) == "" {
		return config{}, errors.New("SOLANA_RPC_URL is required")
	}
	if cfg.airdropLamports == 0 {
		return config{}, errors.New("AIRDROP_LAMPORTS must be > 0")
	}
	if cfg.challengeTTL <= 0 {
		return config{}, errors.New("CHALLENGE_TTL must be > 0")
	}
	if cfg.rateWindow <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.sweepInterval < time.Second {
		return config{}, errors.New("SWEEP_INTERVAL must be >= 1s")
	}
	if cfg.transferTimeout <= 0 {
		return config{}, errors.New("TRANSFER_TIMEOUT must be > 0")
	}
	if cfg.challengeRateEnabled && cfg.challengeRPS <= 0 {
		return config{}, errors.New("CHALLENGE_RPS must be > 0")
	}
	if cfg.challengeRateEnabled && cfg.challengeBurst <= 0 {
		return config{}, errors.New("CHALLENGE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvUint64Default(k string, def uint64) uint64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return u
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
