package faucet

import (
	"encoding/json"
	"net/http"

	"faucet-gateway/faucet/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// StatusFor traduz o resultado de um gate em status HTTP.
func StatusFor(o domain.Outcome) int {
	switch o {
	case domain.OutcomeGranted:
		return http.StatusOK
	case domain.OutcomeChallengeFailed, domain.OutcomeInvalidRecipient:
		return http.StatusBadRequest
	case domain.OutcomeRateLimited:
		return http.StatusTooManyRequests
	case domain.OutcomeInsufficientFunds:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
