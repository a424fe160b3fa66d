package domain

import (
	"fmt"
	"time"
)

// Outcome é o resultado terminal de um pedido de grant.
type Outcome int

const (
	OutcomeGranted Outcome = iota
	OutcomeChallengeFailed
	OutcomeInvalidRecipient
	OutcomeRateLimited
	OutcomeInsufficientFunds
	OutcomeUpstreamError
)

var outcomeNames = map[Outcome]string{
	OutcomeGranted:           "granted",
	OutcomeChallengeFailed:   "challenge_failed",
	OutcomeInvalidRecipient:  "invalid_recipient",
	OutcomeRateLimited:       "rate_limited",
	OutcomeInsufficientFunds: "insufficient_funds",
	OutcomeUpstreamError:     "upstream_error",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Outcomes lista todos os resultados, na ordem dos gates.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeGranted,
		OutcomeChallengeFailed,
		OutcomeInvalidRecipient,
		OutcomeRateLimited,
		OutcomeInsufficientFunds,
		OutcomeUpstreamError,
	}
}

// GrantError é a falha de um gate. Error() devolve a mensagem pública.
type GrantError struct {
	Outcome Outcome
	// Detail só é preenchido em OutcomeUpstreamError.
	Detail string
	// RetryAfter só é preenchido em OutcomeRateLimited.
	RetryAfter time.Duration
	Err        error
}

func NewGrantError(o Outcome, err error) *GrantError {
	return &GrantError{Outcome: o, Err: err}
}

func NewUpstreamError(err error) *GrantError {
	return &GrantError{Outcome: OutcomeUpstreamError, Detail: err.Error(), Err: err}
}

func (e *GrantError) Error() string {
	switch e.Outcome {
	case OutcomeChallengeFailed:
		return "Math challenge verification failed"
	case OutcomeInvalidRecipient:
		return "Invalid public key format"
	case OutcomeRateLimited:
		return "Too many requests, please try again in 24 hours"
	case OutcomeInsufficientFunds:
		return "Insufficient funds"
	case OutcomeUpstreamError:
		return "Solana network error: " + e.Detail
	default:
		return e.Outcome.String()
	}
}

func (e *GrantError) Unwrap() error {
	return e.Err
}
