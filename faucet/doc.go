// Package faucet é o adapter HTTP (net/http + gorilla/mux) do faucet.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (desafio, rate limit, ledger, resultados), sem net/http
//   - application: pipeline de gates, sweeper, throttle e concorrência, sem net/http
//   - infra: stores em memória, token bucket, semáforo, stats (memória/Redis) e ledger Solana
//   - faucet (este pacote): rotas, extração de chave, middlewares e tradução resultado -> status
//
// Fluxo de um POST /airdrop:
//
//   1) Request log atribui um request id e um logger ao contexto
//   2) Concorrência: sem vaga dentro do timeout, responde 503
//   3) Decodifica o corpo e extrai a pista do cliente (primeiro X-Forwarded-For)
//   4) Pipeline.Grant roda os gates; o primeiro que falha decide o status
//
// O binário cmd/faucet lê a configuração de variáveis de ambiente
// (LISTEN_ADDR, SOLANA_RPC_URL, RATE_WINDOW, CONCURRENCY_MAX, ...).
package faucet
