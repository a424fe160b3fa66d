package faucet

import (
	"net/http"

	"github.com/gorilla/mux"
)

type RouterOptions struct {
	Handlers    *Handlers
	Throttle    ThrottleOptions
	Concurrency ConcurrencyOptions
	// StaticDir, quando definido, serve o frontend em "/".
	StaticDir string
}

// NewRouter monta as rotas do faucet com CORS e request log em volta de tudo.
func NewRouter(opts RouterOptions) http.Handler {
	h := opts.Handlers
	throttle := ThrottleMiddleware(opts.Throttle)
	concurrency := ConcurrencyMiddleware(opts.Concurrency)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/challenge", throttle(http.HandlerFunc(h.Challenge))).Methods(http.MethodGet)
	r.Handle("/airdrop", concurrency(http.HandlerFunc(h.Airdrop))).Methods(http.MethodPost)
	r.HandleFunc("/stats", h.StatsTotals).Methods(http.MethodGet)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}

	return RequestLogger(CORS(r))
}
