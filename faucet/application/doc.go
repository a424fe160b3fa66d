// Package application contém os casos de uso do faucet: o pipeline de gates de um
// pedido de airdrop, o sweeper periódico, a emissão de desafios e os serviços de
// throttle e concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Pipeline.Grant(ctx, req) retorna um Grant ou um *domain.GrantError.
package application
