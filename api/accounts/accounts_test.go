// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/test/testledger"
)

func TestAccounts(t *testing.T) {
	tl := testledger.New(t)
	tl.Invoke(testledger.Requestor.Address, ledger.MethodApprove, &ledger.TokenArgs{
		To:     builtin.DeviceShare.Address,
		Amount: testledger.Amount(big.NewInt(500)),
	})

	router := mux.NewRouter()
	New(tl.Ledger).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var acc Account
	assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/accounts/"+testledger.Requestor.Address.String(), &acc))
	assert.Equal(t, genesis.DevBalance, (*big.Int)(acc.Balance))
	assert.Equal(t, big.NewInt(500), (*big.Int)(acc.Allowance))
	assert.Equal(t, uint64(0), acc.Nonce)

	assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/accounts/"+builtin.DeviceShare.Address.String(), &acc))
	assert.Equal(t, 0, (*big.Int)(acc.Balance).Sign())

	assert.Equal(t, http.StatusBadRequest, testledger.HTTPGet(t, ts.URL+"/accounts/0xabc", nil))
}
