// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

// Context binds storage helpers to a contract address on a state.
type Context struct {
	address share.Address
	state   *state.State
}

func NewContext(address share.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() share.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
