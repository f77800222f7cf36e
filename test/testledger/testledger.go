// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds an in-memory devnet ledger for package tests.
package testledger

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

// Dev accounts by role.
var (
	Admin     = genesis.DevAccounts()[0]
	Provider  = genesis.DevAccounts()[1]
	Requestor = genesis.DevAccounts()[2]
)

// Ledger is a devnet ledger driven by a manual clock.
type Ledger struct {
	*ledger.Ledger
	Clock   *clock.Manual
	Genesis *genesis.Genesis

	t *testing.T
}

// New creates a ledger on an in-memory database.
func New(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gene := genesis.NewDevnet()
	clk := clock.NewManual(gene.LaunchTime() + 3600)
	l, err := ledger.New(state.NewStater(db, 64), gene, clk)
	require.NoError(t, err)

	return &Ledger{Ledger: l, Clock: clk, Genesis: gene, t: t}
}

// Amount converts v into the wire amount type.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

// Invoke calls a method and fails the test on error.
func (l *Ledger) Invoke(origin share.Address, method string, args any) *ledger.Receipt {
	receipt, err := l.Ledger.Invoke(origin, method, args)
	require.NoError(l.t, err, method)
	return receipt
}

// ListedDevice registers a device for Provider, verifies it and lists it.
func (l *Ledger) ListedDevice(name string, rate int64, minHours, availableHours uint32) uint64 {
	l.Invoke(Provider.Address, ledger.MethodApprove, &ledger.TokenArgs{
		To:     builtin.DeviceShare.Address,
		Amount: Amount(share.DefaultFixedStake),
	})
	r := l.Invoke(Provider.Address, ledger.MethodAddDevice, &ledger.AddDeviceArgs{
		Name:           name,
		HourlyRate:     Amount(big.NewInt(rate)),
		MinHours:       minHours,
		URI:            "URI-" + name,
		AvailableHours: availableHours,
		Category:       1,
	})
	id := r.Output.(*ledger.IDOutput).ID
	l.Invoke(Admin.Address, ledger.MethodVerifyProvider, &ledger.DeviceArgs{DeviceID: id})
	l.Invoke(Provider.Address, ledger.MethodListDevice, &ledger.DeviceArgs{DeviceID: id})
	return id
}

// AcceptedRequest books deviceID for Requestor and has Provider accept it.
func (l *Ledger) AcceptedRequest(deviceID uint64, hours uint32) uint64 {
	l.Invoke(Requestor.Address, ledger.MethodApprove, &ledger.TokenArgs{
		To:     builtin.DeviceShare.Address,
		Amount: Amount(genesis.DevBalance),
	})
	r := l.Invoke(Requestor.Address, ledger.MethodRequestDeviceUse, &ledger.RequestDeviceUseArgs{
		DeviceID: deviceID,
		Hours:    hours,
	})
	id := r.Output.(*ledger.IDOutput).ID
	l.Invoke(Provider.Address, ledger.MethodAcceptRequest, &ledger.RequestArgs{RequestID: id})
	return id
}

// HTTPGet gets url and decodes a 200 response into v. It returns the status code.
func HTTPGet(t *testing.T, url string, v any) int {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	}
	return res.StatusCode
}

// HTTPPost posts v as JSON to url and decodes a 200 response into out. It returns the status code.
func HTTPPost(t *testing.T, url string, v any, out any) int {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK && out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}
