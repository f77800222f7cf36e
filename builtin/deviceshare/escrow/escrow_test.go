// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/builtin/token"
	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
	"github.com/vechain/devshare/test/datagen"
)

func M(a ...any) []any {
	return a
}

func setup(t *testing.T) (*Service, *token.Token) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st, err := state.NewStater(db, 0).NewState()
	require.NoError(t, err)
	tok := token.New(share.BytesToAddress([]byte("token")), st)
	return New(solidity.NewContext(share.BytesToAddress([]byte("ledger")), st), tok), tok
}

func TestLockAndSettle(t *testing.T) {
	svc, tok := setup(t)
	requestor, provider := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, tok.Mint(requestor, big.NewInt(200)))

	err := svc.Lock(requestor, big.NewInt(120))
	assert.True(t, reverts.IsKind(err, reverts.InsufficientFunds), "no allowance")

	require.NoError(t, tok.Approve(requestor, svc.Account(), big.NewInt(120)))
	require.NoError(t, svc.Lock(requestor, big.NewInt(120)))
	assert.Equal(t, M(big.NewInt(120), nil), M(svc.Balance()))

	require.NoError(t, svc.Settle(requestor, big.NewInt(10), big.NewInt(110)))
	assert.Equal(t, M(big.NewInt(190), nil), M(tok.BalanceOf(requestor)))

	totals, err := svc.Totals()
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Locked.Sign())
	assert.Equal(t, big.NewInt(10), totals.Payable)
	assert.Equal(t, M(totals.Sum(), nil), M(svc.Balance()))

	require.NoError(t, svc.PayOut(provider, big.NewInt(10)))
	assert.Equal(t, M(big.NewInt(10), nil), M(tok.BalanceOf(provider)))
	assert.Error(t, svc.PayOut(provider, big.NewInt(1)), "payable pool drained")
}

func TestStakePool(t *testing.T) {
	svc, tok := setup(t)
	provider, treasury := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, tok.Mint(provider, big.NewInt(50)))
	require.NoError(t, tok.Approve(provider, svc.Account(), big.NewInt(100)))

	err := svc.PostStake(provider, big.NewInt(100))
	assert.True(t, reverts.IsKind(err, reverts.InsufficientFunds), "short balance")

	require.NoError(t, svc.PostStake(provider, big.NewInt(50)))
	require.NoError(t, svc.ReleaseStake(treasury, big.NewInt(50)))
	assert.Equal(t, M(big.NewInt(50), nil), M(tok.BalanceOf(treasury)))

	totals, _ := svc.Totals()
	assert.Equal(t, 0, totals.Sum().Sign())
}

type brokenToken struct {
	Token
	err error
}

func (b *brokenToken) TransferFrom(_, _, _ share.Address, _ *big.Int) error {
	return b.err
}

func TestClassify(t *testing.T) {
	svc, tok := setup(t)

	svc.token = &brokenToken{Token: tok, err: token.ErrInvalidRecipient}
	err := svc.Lock(datagen.RandAddress(), big.NewInt(1))
	assert.True(t, reverts.IsKind(err, reverts.TransferFailed))

	svc.token = &brokenToken{Token: tok, err: errors.Wrap(&state.Error{}, "io")}
	err = svc.Lock(datagen.RandAddress(), big.NewInt(1))
	assert.False(t, reverts.IsRevertErr(err))

	assert.NoError(t, svc.Lock(datagen.RandAddress(), big.NewInt(0)), "zero amounts skip the token")
}
