// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deviceshare

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/token"
	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
	"github.com/vechain/devshare/test/datagen"
)

const hour = uint64(3600)

var (
	fixedStake = big.NewInt(5e17)
	funding    = new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	t0         = uint64(1_700_000_000)
)

func M(a ...any) []any {
	return a
}

type testEnv struct {
	t     *testing.T
	ds    *DeviceShare
	token *token.Token

	admin     share.Address
	provider  share.Address
	requestor share.Address
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st, err := state.NewStater(db, 0).NewState()
	require.NoError(t, err)

	admin := datagen.RandAddress()
	tok := token.New(share.BytesToAddress([]byte("token")), st)
	ds := New(share.BytesToAddress([]byte("deviceshare")), st, tok, SingleAdmin(admin))
	require.NoError(t, ds.Initialize(&Params{Token: tok.Address(), FixedStake: fixedStake, Admin: admin}))

	env := &testEnv{
		t:         t,
		ds:        ds,
		token:     tok,
		admin:     admin,
		provider:  datagen.RandAddress(),
		requestor: datagen.RandAddress(),
	}
	env.fund(env.provider)
	env.fund(env.requestor)
	return env
}

// fund mints tokens to addr and approves the ledger to pull them.
func (e *testEnv) fund(addr share.Address) {
	require.NoError(e.t, e.token.Mint(addr, funding))
	require.NoError(e.t, e.token.Approve(addr, e.ds.Address(), funding))
}

func (e *testEnv) balance(addr share.Address) *big.Int {
	bal, err := e.token.BalanceOf(addr)
	require.NoError(e.t, err)
	return bal
}

// addListedDevice registers a device for provider, verifies it and lists it.
func (e *testEnv) addListedDevice(provider share.Address, name string, rate int64, minHours, availableHours uint32) uint64 {
	id, err := e.ds.AddDevice(provider, name, big.NewInt(rate), minHours, "ipfs://"+name, availableHours, 1)
	require.NoError(e.t, err)
	require.NoError(e.t, e.ds.VerifyProvider(e.admin, id))
	require.NoError(e.t, e.ds.ListDevice(e.admin, id))
	return id
}

func (e *testEnv) assertAudit() {
	report, err := e.ds.Audit()
	require.NoError(e.t, err)
	assert.True(e.t, report.Balanced(), "escrow %v != pools %v", report.Balance, report.Totals.Sum())
}

func assertRevert(t *testing.T, kind reverts.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	got, ok := reverts.KindOf(err)
	require.True(t, ok, "not a revert: %v", err)
	assert.Equal(t, kind, got, err.Error())
}
