// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/health"
	"github.com/vechain/devshare/test/testledger"
)

func TestNewHTTPHandler(t *testing.T) {
	tl := testledger.New(t)
	var (
		logLevel slog.LevelVar
		apiLogs  atomic.Bool
	)

	tests := []struct {
		name        string
		manualClock *clock.Manual
		path        string
		status      int
	}{
		{"loglevel", nil, "/admin/loglevel", http.StatusOK},
		{"health", nil, "/admin/health", http.StatusOK},
		{"apilogs", nil, "/admin/apilogs", http.StatusOK},
		{"clock missing", nil, "/admin/clock", http.StatusNotFound},
		{"clock", tl.Clock, "/admin/clock", http.StatusOK},
		{"unknown", nil, "/admin/peers", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(NewHTTPHandler(&logLevel, health.New(tl.Ledger), &apiLogs, tt.manualClock))
			defer ts.Close()

			assert.Equal(t, tt.status, testledger.HTTPGet(t, ts.URL+tt.path, nil))
		})
	}
}
