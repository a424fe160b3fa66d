package infra

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"faucet-gateway/faucet/domain"

	"github.com/google/uuid"
)

const (
	DefaultChallengeTTL = 5 * time.Minute
	maxOperand          = 20
)

// ChallengeStore guarda desafios "a + b = ?" por sessão.
// Todas as operações seguram o mutex apenas pelo tempo do check-and-update.
type ChallengeStore struct {
	mu      sync.Mutex
	entries map[string]domain.Challenge

	clock   domain.Clock
	ttl     time.Duration
	operand func() int
}

type ChallengeOption func(*ChallengeStore)

func WithChallengeTTL(d time.Duration) ChallengeOption {
	return func(s *ChallengeStore) { s.ttl = d }
}

func WithChallengeClock(c domain.Clock) ChallengeOption {
	return func(s *ChallengeStore) { s.clock = c }
}

// WithOperands troca a fonte dos operandos. Cada chamada deve devolver um valor em [1,20].
func WithOperands(next func() int) ChallengeOption {
	return func(s *ChallengeStore) { s.operand = next }
}

func NewChallengeStore(opts ...ChallengeOption) *ChallengeStore {
	s := &ChallengeStore{
		entries: make(map[string]domain.Challenge),
		clock:   SystemClock{},
		ttl:     DefaultChallengeTTL,
		operand: func() int { return rand.IntN(maxOperand) + 1 },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue implementa domain.ChallengeStore.
func (s *ChallengeStore) Issue() domain.IssuedChallenge {
	a, b := s.operand(), s.operand()
	ch := domain.Challenge{
		SessionID:      uuid.NewString(),
		ExpectedAnswer: a + b,
		ExpiresAt:      s.clock.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[ch.SessionID] = ch
	s.mu.Unlock()

	return domain.IssuedChallenge{
		Question:  fmt.Sprintf("%d + %d = ?", a, b),
		SessionID: ch.SessionID,
		ExpiresAt: ch.ExpiresAt,
	}
}

// Verify implementa domain.ChallengeStore.
//
// Expirado: remove e falha. Resposta certa: remove e passa.
// Resposta errada: falha e mantém o registro.
func (s *ChallengeStore) Verify(sessionID string, answer int) bool {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.entries[sessionID]
	if !ok {
		return false
	}
	if now.After(ch.ExpiresAt) {
		delete(s.entries, sessionID)
		return false
	}
	if ch.ExpectedAnswer != answer {
		return false
	}
	delete(s.entries, sessionID)
	return true
}

// Sweep remove todo desafio com ExpiresAt estritamente no passado.
func (s *ChallengeStore) Sweep() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.entries {
		if ch.ExpiresAt.Before(now) {
			delete(s.entries, id)
		}
	}
}

func (s *ChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
