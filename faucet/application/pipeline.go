package application

import (
	"context"
	"errors"
	"time"

	"faucet-gateway/faucet/domain"

	"github.com/rs/zerolog"
)

// Pipeline executa os gates de um pedido de airdrop em ordem estrita:
//
//  1. desafio (consome em caso de acerto)
//  2. sintaxe do endereço do destinatário
//  3. rate limit (consome a janela da chave)
//  4. saldo do faucet >= Amount + FeeReserve
//  5. blockhash + assinatura + envio + confirmação, limitado por TransferTimeout
//
// O primeiro gate que falha decide o resultado. Não há retry em nenhum gate.
// A janela do gate 3 já está gasta quando os gates 4 e 5 rodam: saldo baixo,
// erro de rede ou timeout não devolvem a tentativa.
type Pipeline struct {
	Challenges domain.ChallengeStore
	Limiter    domain.RateLimiter
	Ledger     domain.Ledger
	Stats      domain.StatsStore
	Clock      domain.Clock

	Faucet          domain.Address
	Amount          uint64
	FeeReserve      uint64
	TransferTimeout time.Duration
}

// Grant roda o pipeline. Em falha o erro é sempre um *domain.GrantError.
func (p *Pipeline) Grant(ctx context.Context, req domain.GrantRequest) (domain.Grant, error) {
	grant, key, err := p.run(ctx, req)

	outcome := domain.OutcomeGranted
	var gerr *domain.GrantError
	if errors.As(err, &gerr) {
		outcome = gerr.Outcome
	}
	grantOutcomes.WithLabelValues(outcome.String()).Inc()
	p.record(ctx, key, outcome)

	return grant, err
}

func (p *Pipeline) run(ctx context.Context, req domain.GrantRequest) (domain.Grant, domain.Key, error) {
	logger := zerolog.Ctx(ctx)

	if !p.Challenges.Verify(req.SessionID, req.Answer) {
		logger.Warn().Str("session_id", req.SessionID).Msg("math challenge verification failed")
		return domain.Grant{}, "", domain.NewGrantError(domain.OutcomeChallengeFailed, nil)
	}

	recipient, err := p.Ledger.ParseAddress(req.Recipient)
	if err != nil {
		logger.Warn().Str("public_key", req.Recipient).Msg("invalid public key format")
		return domain.Grant{}, "", domain.NewGrantError(domain.OutcomeInvalidRecipient, err)
	}

	key := domain.RateLimitKey(recipient, req.ClientHint)
	if dec := p.Limiter.Decide(key); !dec.Allowed {
		logger.Warn().Str("key", string(key)).Dur("retry_after", dec.RetryAfter).Msg("rate limit triggered")
		return domain.Grant{}, key, &domain.GrantError{Outcome: domain.OutcomeRateLimited, RetryAfter: dec.RetryAfter}
	}

	balance, err := p.Ledger.Balance(ctx, p.Faucet)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get faucet balance")
		return domain.Grant{}, key, domain.NewUpstreamError(err)
	}
	if balance < p.Amount+p.FeeReserve {
		logger.Error().Uint64("balance", balance).Msg("insufficient faucet balance")
		return domain.Grant{}, key, domain.NewGrantError(domain.OutcomeInsufficientFunds, nil)
	}

	sig, err := p.transfer(ctx, recipient)
	if err != nil {
		logger.Error().Err(err).Str("recipient", string(recipient)).Msg("failed to send transaction")
		return domain.Grant{}, key, domain.NewUpstreamError(err)
	}

	logger.Info().Str("signature", string(sig)).Str("recipient", string(recipient)).Msg("airdrop successful")
	return domain.Grant{Signature: sig, Recipient: recipient, Amount: p.Amount}, key, nil
}

func (p *Pipeline) transfer(ctx context.Context, recipient domain.Address) (domain.Signature, error) {
	if p.TransferTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.TransferTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { transferDuration.Observe(time.Since(start).Seconds()) }()

	anchor, err := p.Ledger.RecentAnchor(ctx)
	if err != nil {
		return "", err
	}
	return p.Ledger.SubmitTransfer(ctx, p.Faucet, recipient, p.Amount, anchor)
}

func (p *Pipeline) record(ctx context.Context, key domain.Key, outcome domain.Outcome) {
	if p.Stats == nil {
		return
	}
	at := time.Now()
	if p.Clock != nil {
		at = p.Clock.Now()
	}
	if err := p.Stats.Record(ctx, domain.StatsEvent{Key: key, Outcome: outcome, At: at}); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("stats record failed")
	}
}
