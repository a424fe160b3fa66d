package faucet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"faucet-gateway/faucet/domain"

	"github.com/rs/zerolog"
)

// LamportsPerToken converte o valor do airdrop na mensagem de sucesso.
const LamportsPerToken = 1_000_000_000

const maxBodyBytes = 4 << 10

type Granter interface {
	Grant(ctx context.Context, req domain.GrantRequest) (domain.Grant, error)
}

type ChallengeIssuer interface {
	Issue() domain.IssuedChallenge
}

// StatsReader expõe os totais por resultado (MemoryStatsStore).
type StatsReader interface {
	Totals() map[string]int64
}

type Handlers struct {
	Challenges ChallengeIssuer
	Grants     Granter
	// Stats nil faz GET /stats responder 404 (ex.: quando o sink é o Redis).
	Stats       StatsReader
	TokenSymbol string
	Clock       domain.Clock
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type airdropRequest struct {
	PublicKey     string `json:"public_key"`
	MathSessionID string `json:"math_session_id"`
	MathAnswer    *int   `json:"math_answer"`
}

type airdropResponse struct {
	Signature string `json:"signature"`
	Message   string `json:"message"`
}

type statsResponse struct {
	Outcomes map[string]int64 `json:"outcomes"`
}

func (h *Handlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock.Now()
	}
	return time.Now()
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Challenge(w http.ResponseWriter, r *http.Request) {
	ch := h.Challenges.Issue()
	zerolog.Ctx(r.Context()).Debug().Str("session_id", ch.SessionID).Msg("math challenge issued")
	respondJSON(w, http.StatusOK, ch)
}

func (h *Handlers) Airdrop(w http.ResponseWriter, r *http.Request) {
	var body airdropRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil || body.MathAnswer == nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	grant, err := h.Grants.Grant(r.Context(), domain.GrantRequest{
		Recipient:  body.PublicKey,
		SessionID:  body.MathSessionID,
		Answer:     *body.MathAnswer,
		ClientHint: ClientHint(r),
	})
	if err != nil {
		var gerr *domain.GrantError
		if !errors.As(err, &gerr) {
			gerr = domain.NewUpstreamError(err)
		}
		if gerr.Outcome == domain.OutcomeRateLimited {
			w.Header().Set("Retry-After", retryAfterSeconds(gerr.RetryAfter))
		}
		respondError(w, StatusFor(gerr.Outcome), gerr.Error())
		return
	}

	symbol := h.TokenSymbol
	if symbol == "" {
		symbol = "XNT"
	}
	respondJSON(w, http.StatusOK, airdropResponse{
		Signature: string(grant.Signature),
		Message: "Successfully airdropped " + formatTokens(grant.Amount, LamportsPerToken) + " " +
			symbol + " to " + string(grant.Recipient),
	})
}

func (h *Handlers) StatsTotals(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		respondError(w, http.StatusNotFound, "Stats are not available")
		return
	}
	respondJSON(w, http.StatusOK, statsResponse{Outcomes: h.Stats.Totals()})
}
