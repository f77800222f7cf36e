// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package devices

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/test/testledger"
)

func TestDevices(t *testing.T) {
	tl := testledger.New(t)
	listed := tl.ListedDevice("Device1", 10, 4, 24)
	// registered but never verified
	tl.Invoke(testledger.Provider.Address, ledger.MethodAddDevice, &ledger.AddDeviceArgs{
		Name:           "Device2",
		HourlyRate:     testledger.Amount(big.NewInt(8)),
		MinHours:       2,
		AvailableHours: 12,
	})

	router := mux.NewRouter()
	New(tl.Ledger).Mount(router, "/devices")
	ts := httptest.NewServer(router)
	defer ts.Close()

	t.Run("listing", func(t *testing.T) {
		var list DeviceList
		assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/devices", &list))
		assert.Equal(t, []string{"Device1"}, list.Names)
		require.Len(t, list.Devices, 1)
		assert.Equal(t, listed, list.Devices[0].ID)
		assert.True(t, list.Devices[0].Verified && list.Devices[0].Listed)
	})

	t.Run("device", func(t *testing.T) {
		var dev Device
		assert.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/devices/2", &dev))
		assert.Equal(t, "Device2", dev.Name)
		assert.Equal(t, big.NewInt(8), (*big.Int)(dev.HourlyRate))
		assert.Equal(t, testledger.Provider.Address, dev.Provider)
		assert.False(t, dev.Verified)
	})

	t.Run("not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, testledger.HTTPGet(t, ts.URL+"/devices/3", nil))
	})

	t.Run("bad id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, testledger.HTTPGet(t, ts.URL+"/devices/abc", nil))
	})
}

func TestEmptyListing(t *testing.T) {
	tl := testledger.New(t)
	router := mux.NewRouter()
	New(tl.Ledger).Mount(router, "/devices")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var raw map[string]json.RawMessage
	require.Equal(t, http.StatusOK, testledger.HTTPGet(t, ts.URL+"/devices", &raw))
	assert.JSONEq(t, `[]`, string(raw["names"]))
}
