// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/api/doc"
	"github.com/vechain/devshare/test/testledger"
)

func TestAPI(t *testing.T) {
	tl := testledger.New(t)
	var reqLogs atomic.Bool

	ts := httptest.NewServer(New(tl.Ledger, Options{
		AllowedOrigins:  "*",
		EnableReqLogger: &reqLogs,
		EnableMetrics:   true,
	}))
	defer ts.Close()

	for _, path := range []string{"/devices", "/ledger", "/calls/methods", "/doc/devshare.yaml"} {
		t.Run(path, func(t *testing.T) {
			res, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, http.StatusOK, res.StatusCode)
		})
	}

	t.Run("identity headers", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/ledger")
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, tl.ID().String(), res.Header.Get(HeaderGenesisID))
		assert.Equal(t, doc.Version(), res.Header.Get(HeaderAPIVersion))
	})

	t.Run("genesis mismatch", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/ledger", nil)
		require.NoError(t, err)
		req.Header.Set(HeaderGenesisID, "0x01")

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("root redirects to doc", func(t *testing.T) {
		client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}}
		res, err := client.Get(ts.URL + "/")
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusTemporaryRedirect, res.StatusCode)
		assert.Equal(t, "/doc/devshare.yaml", res.Header.Get("Location"))
	})
}
