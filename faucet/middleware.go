package faucet

import (
	"net/http"
	"time"

	"faucet-gateway/faucet/application"
	"faucet-gateway/faucet/domain"
	"faucet-gateway/faucet/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ThrottleOptions struct {
	Store              domain.LimiterStore
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	RetryAfter         time.Duration
}

// ThrottleMiddleware limita a emissão de desafios por cliente (token bucket).
// Store nil desliga o throttle.
func ThrottleMiddleware(opts ThrottleOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.ThrottleService{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec := svc.Decide(domain.Key(key))
			if !dec.Allowed {
				zerolog.Ctx(r.Context()).Warn().Str("key", key).Msg("challenge throttle triggered")
				w.Header().Set("Retry-After", retryAfterSeconds(dec.RetryAfter))
				respondError(w, http.StatusTooManyRequests, "Too many challenge requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type ConcurrencyOptions struct {
	Max            int
	AcquireTimeout time.Duration
	// Pool substitui o semáforo padrão (infra.NewSlotPool(Max)).
	Pool domain.SlotPool
}

// ConcurrencyMiddleware limita os POST /airdrop em voo. A rejeição acontece antes
// de qualquer gate, então não consome desafio nem janela.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil && opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.Pool == nil {
		opts.Pool = infra.NewSlotPool(opts.Max)
	}

	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				zerolog.Ctx(r.Context()).Warn().Msg("no in-flight slot available")
				respondError(w, http.StatusServiceUnavailable, "Server busy, please retry")
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger atribui um request id (X-Request-ID), pendura um logger filho no
// contexto e registra método, rota, status e duração.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()[:8]
		w.Header().Set("X-Request-ID", id)

		logger := log.With().Str("request_id", id).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// CORS libera qualquer origem; preflight responde 204 sem chegar nas rotas.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Expose-Headers", "Retry-After, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
