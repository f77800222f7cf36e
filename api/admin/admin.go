// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/admin/apilogs"
	"github.com/vechain/devshare/api/admin/loglevel"
	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/health"

	clockAPI "github.com/vechain/devshare/api/admin/clock"
	healthAPI "github.com/vechain/devshare/api/admin/health"
)

// NewHTTPHandler builds the admin router. The clock routes are mounted only
// when manualClock is non-nil.
func NewHTTPHandler(
	logLevel *slog.LevelVar,
	health *health.Health,
	apiLogsToggle *atomic.Bool,
	manualClock *clock.Manual,
) http.HandlerFunc {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(subRouter, "/loglevel")
	healthAPI.New(health).Mount(subRouter, "/health")
	apilogs.New(apiLogsToggle).Mount(subRouter, "/apilogs")
	if manualClock != nil {
		clockAPI.New(manualClock).Mount(subRouter, "/clock")
	}

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
