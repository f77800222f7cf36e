// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/test/testledger"
)

type receipt struct {
	CallID share.Bytes32 `json:"callId"`
	Origin share.Address `json:"origin"`
	Method string        `json:"method"`
	Output struct {
		ID uint64 `json:"id"`
	} `json:"output"`
}

func TestSendCall(t *testing.T) {
	tl := testledger.New(t)

	router := mux.NewRouter()
	New(tl.Ledger).Mount(router, "/calls")
	ts := httptest.NewServer(router)
	defer ts.Close()

	sign := func(acc genesis.DevAccount, method string, args any, nonce uint64) *call.Call {
		c, err := call.New(method, args, nonce)
		require.NoError(t, err)
		c, err = c.Sign(tl.ID(), acc.PrivateKey)
		require.NoError(t, err)
		return c
	}
	addDevice := &ledger.AddDeviceArgs{
		Name:           "Device1",
		HourlyRate:     testledger.Amount(big.NewInt(10)),
		MinHours:       4,
		URI:            "URI1",
		AvailableHours: 24,
		Category:       1,
	}

	c := sign(testledger.Provider, ledger.MethodAddDevice, addDevice, 1)
	var r receipt
	require.Equal(t, http.StatusOK, testledger.HTTPPost(t, ts.URL+"/calls", c, &r))
	assert.Equal(t, c.ID(), r.CallID)
	assert.Equal(t, testledger.Provider.Address, r.Origin)
	assert.Equal(t, ledger.MethodAddDevice, r.Method)
	assert.Equal(t, uint64(1), r.Output.ID)

	t.Run("replay", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, testledger.HTTPPost(t, ts.URL+"/calls", c, nil))
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := sign(testledger.Requestor, ledger.MethodVerifyProvider, &ledger.DeviceArgs{DeviceID: 1}, 1)
		assert.Equal(t, http.StatusForbidden, testledger.HTTPPost(t, ts.URL+"/calls", c, nil))
	})

	t.Run("not found", func(t *testing.T) {
		c := sign(testledger.Admin, ledger.MethodVerifyProvider, &ledger.DeviceArgs{DeviceID: 9}, 1)
		assert.Equal(t, http.StatusNotFound, testledger.HTTPPost(t, ts.URL+"/calls", c, nil))
	})

	t.Run("invalid body", func(t *testing.T) {
		res, err := http.Post(ts.URL+"/calls", "application/json", strings.NewReader(`{"method":"x","extra":1}`))
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("methods", func(t *testing.T) {
		var methods []string
		assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/calls/methods", &methods))
		assert.Equal(t, ledger.Methods(), methods)
	})
}

func TestCallWireFormat(t *testing.T) {
	c, err := call.New(ledger.MethodCancelRequest, &ledger.RequestArgs{RequestID: 3}, 2)
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"cancelRequest","args":{"requestId":3},"nonce":2,"signature":"0x"}`, string(data))
}
