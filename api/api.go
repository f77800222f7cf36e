// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/accounts"
	"github.com/vechain/devshare/api/calls"
	"github.com/vechain/devshare/api/devices"
	"github.com/vechain/devshare/api/doc"
	"github.com/vechain/devshare/api/ledgerinfo"
	"github.com/vechain/devshare/api/middleware"
	"github.com/vechain/devshare/api/providers"
	"github.com/vechain/devshare/api/requestors"
	"github.com/vechain/devshare/api/requests"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/log"
)

var logger = log.WithContext("pkg", "api")

const (
	HeaderGenesisID  = "x-genesis-id"
	HeaderAPIVersion = "x-devshare-ver"
)

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// New return api router
func New(l *ledger.Ledger, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	// to serve the openapi document
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/devshare.yaml", http.StatusTemporaryRedirect)
		})

	devices.New(l).
		Mount(router, "/devices")
	requests.New(l).
		Mount(router, "/requests")
	requestors.New(l).
		Mount(router, "/requestors")
	providers.New(l).
		Mount(router, "/providers")
	accounts.New(l).
		Mount(router, "/accounts")
	ledgerinfo.New(l).
		Mount(router, "/ledger")
	calls.New(l).
		Mount(router, "/calls")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(headersMiddleware(l.ID().String()))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"content-type", HeaderGenesisID}),
		handlers.ExposedHeaders([]string{HeaderGenesisID, HeaderAPIVersion}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP
}

// headersMiddleware stamps every response with the ledger identity. A request carrying a
// different genesis id is rejected, so clients never act on another ledger by mistake.
func headersMiddleware(genesisID string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderGenesisID, genesisID)
			w.Header().Set(HeaderAPIVersion, doc.Version())

			if expected := r.Header.Get(HeaderGenesisID); expected != "" && !strings.EqualFold(expected, genesisID) {
				http.Error(w, "genesis id mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
