package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faucet-gateway/faucet/domain"

	"github.com/robfig/cron"
	"github.com/rs/zerolog/log"
)

const DefaultSweepInterval = time.Hour

type storeSizer interface {
	Sizes() (challenges, limits int)
}

// Sweeper roda Target.Sweep num intervalo fixo, sem jitter e sem recuperar ticks
// perdidos. Conversa com os stores apenas pelas operações sincronizadas deles.
type Sweeper struct {
	Target   domain.Sweeper
	Interval time.Duration
}

// Tick executa uma varredura e atualiza os gauges de tamanho quando o alvo expõe Sizes.
func (s *Sweeper) Tick() {
	s.Target.Sweep()
	sweepsTotal.Inc()

	if sz, ok := s.Target.(storeSizer); ok {
		challenges, limits := sz.Sizes()
		challengeStoreSize.Set(float64(challenges))
		rateLimitStoreSize.Set(float64(limits))
		log.Info().Int("challenges", challenges).Int("rate_limits", limits).
			Msg("cleaned up expired rate limit and math challenge records")
		return
	}
	log.Info().Msg("cleaned up expired records")
}

// Start agenda Tick com robfig/cron ("@every <interval>"). Pare cancelando o contexto.
// O cron recupera panics do job, então o loop nunca morre por causa de uma varredura.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.Target == nil {
		return errors.New("sweeper: nil target")
	}
	interval := s.Interval
	if interval == 0 {
		interval = DefaultSweepInterval
	}
	if interval < time.Second {
		return fmt.Errorf("sweeper: interval %s below cron resolution", interval)
	}

	c := cron.New()
	if err := c.AddFunc("@every "+interval.String(), s.Tick); err != nil {
		return fmt.Errorf("sweeper: schedule: %w", err)
	}
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return nil
}
