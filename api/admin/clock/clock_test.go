// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	ledgerclock "github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/test/testledger"
)

func TestClock(t *testing.T) {
	clk := ledgerclock.NewManual(1000)

	router := mux.NewRouter()
	New(clk).Mount(router, "/admin/clock")
	ts := httptest.NewServer(router)
	defer ts.Close()
	url := ts.URL + "/admin/clock"

	var res Response
	assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, url, &res))
	assert.Equal(t, uint64(1000), res.Now)

	assert.Equal(t, http.StatusOK, testledger.HTTPPost(t, url, map[string]any{"advance": "1h"}, &res))
	assert.Equal(t, uint64(4600), res.Now)

	assert.Equal(t, http.StatusOK, testledger.HTTPPost(t, url, map[string]any{"set": 5000}, &res))
	assert.Equal(t, uint64(5000), res.Now)
	assert.Equal(t, uint64(5000), clk.Now())

	tests := []struct {
		name string
		body any
	}{
		{"empty", map[string]any{}},
		{"both", map[string]any{"advance": "1s", "set": 1}},
		{"bad duration", map[string]any{"advance": "soon"}},
		{"negative", map[string]any{"advance": "-1h"}},
		{"unknown field", map[string]any{"rewind": "1h"}},
		{"set past year 9999", map[string]any{"set": uint64(math.MaxUint64) - 100}},
		{"set just past max", map[string]any{"set": ledgerclock.MaxTime + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, testledger.HTTPPost(t, url, tt.body, nil))
		})
	}
	assert.Equal(t, uint64(5000), clk.Now())

	assert.Equal(t, http.StatusOK, testledger.HTTPPost(t, url, map[string]any{"set": ledgerclock.MaxTime - 10}, &res))
	assert.Equal(t, http.StatusBadRequest, testledger.HTTPPost(t, url, map[string]any{"advance": "1m"}, nil))
	assert.Equal(t, ledgerclock.MaxTime-10, clk.Now())
}
