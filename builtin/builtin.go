// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/devshare/builtin/deviceshare"
	"github.com/vechain/devshare/builtin/token"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

// Builtin contracts binding.
var (
	Token       = &tokenContract{newContract("Token")}
	DeviceShare = &deviceShareContract{newContract("DeviceShare")}
)

type contract struct {
	name    string
	Address share.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		share.BytesToAddress([]byte(name)),
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}

type (
	tokenContract       struct{ *contract }
	deviceShareContract struct{ *contract }
)

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

// WithState binds the marketplace to state, escrowing through the builtin token.
func (d *deviceShareContract) WithState(state *state.State, auth deviceshare.Authorizer) *deviceshare.DeviceShare {
	return deviceshare.New(d.Address, state, Token.WithState(state), auth)
}
