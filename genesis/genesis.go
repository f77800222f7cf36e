// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/builtin/deviceshare"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

// Genesis describes the initial ledger state.
type Genesis struct {
	builder *Builder
	id      share.Bytes32
	name    string
	params  deviceshare.Params
	launch  uint64
}

// Alloc is an initial token allocation.
type Alloc struct {
	Address share.Address
	Balance *big.Int
}

func newGenesis(name string, launchTime uint64, extra [28]byte, params deviceshare.Params, allocs []Alloc) (*Genesis, error) {
	params.Token = builtin.Token.Address

	builder := new(Builder).
		Timestamp(launchTime).
		ExtraData(extra).
		State(func(st *state.State) error {
			ds := builtin.DeviceShare.WithState(st, deviceshare.SingleAdmin(params.Admin))
			p := params
			return ds.Initialize(&p)
		}).
		State(func(st *state.State) error {
			token := builtin.Token.WithState(st)
			for _, a := range allocs {
				if a.Balance == nil || a.Balance.Sign() < 1 {
					return errors.Errorf("%v: balance must be a positive integer", a.Address)
				}
				if err := token.Mint(a.Address, a.Balance); err != nil {
					return err
				}
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{
		builder: builder,
		id:      id,
		name:    name,
		params:  params,
		launch:  launchTime,
	}, nil
}

// Build writes the genesis state into stater and returns the genesis ID.
func (g *Genesis) Build(stater *state.Stater) (share.Bytes32, error) {
	return g.builder.Build(stater)
}

// ID returns the genesis ID, which identifies the ledger. Calls are signed against it.
func (g *Genesis) ID() share.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the genesis timestamp.
func (g *Genesis) LaunchTime() uint64 {
	return g.launch
}

// Params returns the construction parameters.
func (g *Genesis) Params() deviceshare.Params {
	p := g.params
	p.FixedStake = new(big.Int).Set(g.params.FixedStake)
	return p
}

// Authorizer returns the administrator policy of this genesis.
func (g *Genesis) Authorizer() deviceshare.Authorizer {
	return deviceshare.SingleAdmin(g.params.Admin)
}
