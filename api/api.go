// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/lockpool/lockpool/api/assets"
	"github.com/lockpool/lockpool/api/events"
	"github.com/lockpool/lockpool/api/middleware"
	"github.com/lockpool/lockpool/api/pool"
	"github.com/lockpool/lockpool/api/subscriptions"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	EnableMetrics        bool
	SkipLogs             bool
	LogsLimit            uint64
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
}

// New return api router, with a func closing the subscriptions.
func New(ledger *ledger.Ledger, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pool.New(ledger).
		Mount(router, "/pool")
	assets.New(ledger).
		Mount(router, "/assets")
	closeSubs := func() {}
	if !opts.SkipLogs {
		events.New(ledger, opts.LogsLimit).
			Mount(router, "/logs/events")
		subs := subscriptions.New(ledger, origins)
		subs.Mount(router, "/subscriptions")
		closeSubs = subs.Close
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, closeSubs
}
