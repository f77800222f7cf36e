// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package providers

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/test/testledger"
)

func TestProviders(t *testing.T) {
	tl := testledger.New(t)
	deviceID := tl.ListedDevice("Device1", 10, 4, 24)
	tl.AcceptedRequest(deviceID, 4)

	router := mux.NewRouter()
	New(tl.Ledger).Mount(router, "/providers")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var book Provider
	assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/providers/"+testledger.Provider.Address.String(), &book))
	assert.Equal(t, share.DefaultFixedStake, (*big.Int)(book.Stake))
	assert.True(t, book.Verified)
	assert.Equal(t, uint32(1), book.Devices)
	assert.Equal(t, uint32(1), book.ListedDevices)
	assert.Equal(t, uint32(1), book.OpenRequests)
	assert.Equal(t, 0, (*big.Int)(book.Payable).Sign())

	assert.Equal(t, http.StatusBadRequest, testledger.HTTPGet(t, ts.URL+"/providers/zz", nil))
}
