// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - ChallengeStore / RateLimitStore: mapas em memória com mutex, donos do próprio estado
//   - GatingState: agrupa os dois stores com ciclo de vida do processo
//   - ThrottleStore: token bucket por cliente usando golang.org/x/time/rate
//   - SlotPool: semáforo simples para limite de concorrência
//   - SolanaLedger: cliente RPC Solana (github.com/gagliardetto/solana-go)
//   - MemoryLedger: cluster simulado para desenvolvimento
//   - MemoryStatsStore / RedisStatsStore: estatísticas de resultados
package infra
