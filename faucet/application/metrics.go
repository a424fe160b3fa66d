package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_challenges_issued_total",
		Help: "The total number of math challenges issued",
	})

	challengesThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_challenges_throttled_total",
		Help: "Challenge requests rejected by the per-client issuance throttle",
	})

	grantOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faucet_grant_outcomes_total",
		Help: "Terminal outcomes of airdrop requests by gate",
	}, []string{"outcome"})

	transferDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "faucet_transfer_duration_seconds",
		Help:    "Time spent fetching a blockhash, submitting and confirming a transfer",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	})

	concurrencyRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_concurrency_rejected_total",
		Help: "Airdrop requests rejected because no in-flight slot was free in time",
	})

	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_sweeps_total",
		Help: "Number of expiry sweeps run",
	})

	challengeStoreSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "faucet_challenge_store_size",
		Help: "Live challenges after the last sweep",
	})

	rateLimitStoreSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "faucet_rate_limit_store_size",
		Help: "Rate-limit records after the last sweep",
	})
)
