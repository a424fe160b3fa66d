package application

import "faucet-gateway/faucet/domain"

// ChallengeService emite desafios e conta quantos foram emitidos.
type ChallengeService struct {
	Store domain.ChallengeStore
}

func (s ChallengeService) Issue() domain.IssuedChallenge {
	ch := s.Store.Issue()
	challengesIssued.Inc()
	return ch
}
