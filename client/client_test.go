// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/api"
	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/client/httpclient"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/test/testledger"
)

func newTestClient(t *testing.T) (*Client, *testledger.Ledger) {
	tl := testledger.New(t)
	ts := httptest.NewServer(api.New(tl.Ledger, api.Options{AllowedOrigins: "*"}))
	t.Cleanup(ts.Close)
	return New(ts.URL), tl
}

func TestRentalFlow(t *testing.T) {
	c, tl := newTestClient(t)
	admin, provider, requestor := testledger.Admin, testledger.Provider, testledger.Requestor

	id, err := c.LedgerID()
	require.NoError(t, err)
	assert.Equal(t, tl.ID(), id)

	_, err = c.Send(provider.PrivateKey, ledger.MethodApprove, &ledger.TokenArgs{
		To:     builtin.DeviceShare.Address,
		Amount: testledger.Amount(share.DefaultFixedStake),
	})
	require.NoError(t, err)

	deviceID, err := c.SendForID(provider.PrivateKey, ledger.MethodAddDevice, &ledger.AddDeviceArgs{
		Name:           "Device1",
		HourlyRate:     testledger.Amount(big.NewInt(10)),
		MinHours:       4,
		URI:            "URI1",
		AvailableHours: 24,
		Category:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), deviceID)

	_, err = c.Send(admin.PrivateKey, ledger.MethodVerifyProvider, &ledger.DeviceArgs{DeviceID: deviceID})
	require.NoError(t, err)
	_, err = c.Send(provider.PrivateKey, ledger.MethodListDevice, &ledger.DeviceArgs{DeviceID: deviceID})
	require.NoError(t, err)

	list, err := c.Devices()
	require.NoError(t, err)
	assert.Equal(t, []string{"Device1"}, list.Names)

	_, err = c.Send(requestor.PrivateKey, ledger.MethodApprove, &ledger.TokenArgs{
		To:     builtin.DeviceShare.Address,
		Amount: testledger.Amount(big.NewInt(120)),
	})
	require.NoError(t, err)
	requestID, err := c.SendForID(requestor.PrivateKey, ledger.MethodRequestDeviceUse, &ledger.RequestDeviceUseArgs{
		DeviceID: deviceID,
		Hours:    12,
	})
	require.NoError(t, err)
	_, err = c.Send(provider.PrivateKey, ledger.MethodAcceptRequest, &ledger.RequestArgs{RequestID: requestID})
	require.NoError(t, err)

	req, err := c.Request(requestID)
	require.NoError(t, err)
	assert.Equal(t, "Accepted", req.Status)
	assert.Equal(t, big.NewInt(120), (*big.Int)(req.AmountEscrowed))

	_, err = tl.Clock.Advance(time.Hour)
	require.NoError(t, err)
	_, err = c.Send(requestor.PrivateKey, ledger.MethodCancelRequest, &ledger.RequestArgs{RequestID: requestID})
	require.NoError(t, err)

	_, err = c.Send(requestor.PrivateKey, ledger.MethodTransferTokenToRequestor, &ledger.RequestArgs{RequestID: requestID})
	require.NoError(t, err)

	req, err = c.Request(requestID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", req.Status)
	assert.True(t, req.Settled)
	assert.Equal(t, big.NewInt(110), (*big.Int)(req.RefundAmount))

	r, err := c.Requestor(requestor.Address)
	require.NoError(t, err)
	assert.Equal(t, 0, (*big.Int)(r.PaidTokensTotal).Sign())

	p, err := c.Provider(provider.Address)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), (*big.Int)(p.Payable))

	receipt, err := c.Send(provider.PrivateKey, ledger.MethodWithdrawEarnings, nil)
	require.NoError(t, err)
	var earned ledger.AmountOutput
	require.NoError(t, json.Unmarshal(receipt.Output, &earned))
	assert.Equal(t, big.NewInt(10), (*big.Int)(earned.Amount))

	acc, err := c.Account(requestor.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), acc.Nonce)

	info, err := c.Ledger()
	require.NoError(t, err)
	assert.True(t, info.Audit.Balanced)
}

func TestErrors(t *testing.T) {
	c, tl := newTestClient(t)

	_, err := c.Device(42)
	assert.ErrorIs(t, err, httpclient.ErrNotFound)

	// admin only
	_, err = c.Send(testledger.Provider.PrivateKey, ledger.MethodMint, &ledger.TokenArgs{
		To:     testledger.Provider.Address,
		Amount: testledger.Amount(big.NewInt(1)),
	})
	assert.ErrorIs(t, err, httpclient.ErrNot200Status)

	// replayed call
	sc, err := call.New(ledger.MethodApprove, &ledger.TokenArgs{
		To:     builtin.DeviceShare.Address,
		Amount: testledger.Amount(big.NewInt(1)),
	}, 1)
	require.NoError(t, err)
	sc, err = sc.Sign(tl.ID(), testledger.Requestor.PrivateKey)
	require.NoError(t, err)

	_, err = c.RawClient().SendCall(sc)
	require.NoError(t, err)
	_, code, err := c.RawClient().RawHTTPPost("/calls", sc)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, code)

	methods, err := c.Methods()
	require.NoError(t, err)
	assert.Equal(t, ledger.Methods(), methods)
}
