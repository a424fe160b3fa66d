// Package domain define contratos e tipos de domínio do faucet: desafio matemático,
// rate limit por identidade, ledger externo e a taxonomia de resultados de um pedido.
//
// Este pacote não depende de net/http nem de implementações concretas (Solana, Redis).
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
