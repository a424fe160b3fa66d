package domain

import "time"

// Challenge é o registro guardado no servidor. ExpectedAnswer nunca sai daqui.
type Challenge struct {
	SessionID      string
	ExpectedAnswer int
	ExpiresAt      time.Time
}

// IssuedChallenge é o que volta para o cliente: a pergunta, a sessão e a validade.
type IssuedChallenge struct {
	Question  string    `json:"question"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChallengeStore emite e verifica desafios de vida curta.
//
// Verify consome o desafio em caso de acerto ou de expiração.
// Uma resposta errada NÃO consome: o cliente pode tentar de novo dentro da validade.
type ChallengeStore interface {
	Issue() IssuedChallenge
	Verify(sessionID string, answer int) bool
}

// Sweeper remove entradas vencidas de um store. Idempotente e sem retorno.
type Sweeper interface {
	Sweep()
}
