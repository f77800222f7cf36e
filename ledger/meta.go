// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

// MetaAddress holds the executor's own bookkeeping.
var MetaAddress = share.BytesToAddress([]byte("Ledger"))

var (
	slotGenesisID = share.BytesToBytes32([]byte("genesis-id"))
	slotLastTime  = share.BytesToBytes32([]byte("last-time"))
	slotCallCount = share.BytesToBytes32([]byte("call-count"))
	slotNonces    = share.BytesToBytes32([]byte("nonces"))
)

type meta struct {
	genesisID *solidity.Raw[share.Bytes32]
	lastTime  *solidity.Raw[uint64]
	callCount *solidity.Raw[uint64]
	nonces    *solidity.Mapping[share.Address, uint64]
}

func newMeta(st *state.State) *meta {
	sctx := solidity.NewContext(MetaAddress, st)
	return &meta{
		genesisID: solidity.NewRaw[share.Bytes32](sctx, slotGenesisID),
		lastTime:  solidity.NewRaw[uint64](sctx, slotLastTime),
		callCount: solidity.NewRaw[uint64](sctx, slotCallCount),
		nonces:    solidity.NewMapping[share.Address, uint64](sctx, slotNonces),
	}
}

// clamp returns now, or the last accepted time if now is behind it.
func (m *meta) clamp(now uint64) (uint64, error) {
	last, err := m.lastTime.Get()
	if err != nil {
		return 0, err
	}
	return max(now, last), nil
}

func (m *meta) incCallCount() error {
	n, err := m.callCount.Get()
	if err != nil {
		return err
	}
	return m.callCount.Set(n + 1)
}
