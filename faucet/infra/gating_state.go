package infra

import (
	"time"

	"faucet-gateway/faucet/domain"
)

// GatingState é o dono dos dois stores de abuso. Criado uma vez no início do
// processo e compartilhado pelo pipeline e pelo sweeper; some junto com o processo.
type GatingState struct {
	Challenges *ChallengeStore
	Limits     *RateLimitStore
}

func NewGatingState(clock domain.Clock, challengeTTL, rateWindow time.Duration) *GatingState {
	if clock == nil {
		clock = SystemClock{}
	}
	if challengeTTL <= 0 {
		challengeTTL = DefaultChallengeTTL
	}
	if rateWindow <= 0 {
		rateWindow = DefaultRateWindow
	}
	return &GatingState{
		Challenges: NewChallengeStore(WithChallengeClock(clock), WithChallengeTTL(challengeTTL)),
		Limits:     NewRateLimitStore(WithRateClock(clock), WithRateWindow(rateWindow)),
	}
}

// Sweep implementa domain.Sweeper. A ordem é irrelevante: os stores são independentes.
func (g *GatingState) Sweep() {
	g.Limits.Sweep()
	g.Challenges.Sweep()
}

// Sizes devolve (desafios, registros de rate limit) vivos no momento.
func (g *GatingState) Sizes() (challenges, limits int) {
	return g.Challenges.Len(), g.Limits.Len()
}
