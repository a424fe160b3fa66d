package faucet

import (
	"net"
	"net/http"
	"strings"

	"faucet-gateway/faucet/domain"
)

type KeyFunc func(r *http.Request) string

// DefaultKeyFunc identifica o cliente para o throttle de GET /challenge:
// header configurado, depois primeiro IP do X-Forwarded-For (se confiável),
// depois o host de RemoteAddr.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if ip := firstForwarded(r); ip != "" {
				return ip
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return domain.UnknownClient
	}
}

// ClientHint devolve a pista do cliente usada na chave de rate limit do airdrop:
// o primeiro item de X-Forwarded-For, ou "unknown". O valor não é validado e é
// trivialmente forjável; serve só para separar buckets.
func ClientHint(r *http.Request) string {
	if ip := firstForwarded(r); ip != "" {
		return ip
	}
	return domain.UnknownClient
}

func firstForwarded(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}
