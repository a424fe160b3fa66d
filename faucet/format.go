// utilitário pequeno para formatação de valores numéricos em headers e mensagens.

package faucet

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	// sem notação científica para valores comuns
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// retryAfterSeconds arredonda para cima e nunca devolve 0.
func retryAfterSeconds(d time.Duration) string {
	if d <= 0 {
		return "1"
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return formatInt(secs)
}

// formatTokens converte lamports em tokens inteiros/decimais ("1", "0.5").
func formatTokens(lamports, perToken uint64) string {
	if perToken == 0 {
		return strconv.FormatUint(lamports, 10)
	}
	return formatFloat(float64(lamports) / float64(perToken))
}
