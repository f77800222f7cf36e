// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deviceshare

import (
	"math/big"

	"github.com/vechain/devshare/share"
)

// Params are the construction parameters, written once.
type Params struct {
	Token      share.Address
	FixedStake *big.Int
	Admin      share.Address
}

// Authorizer decides who holds the administrator capability.
type Authorizer interface {
	IsAdministrator(addr share.Address) bool
	// Treasury receives forfeited stakes.
	Treasury() share.Address
}

// SingleAdmin grants the administrator capability to one address, which is also the treasury.
type SingleAdmin share.Address

func (a SingleAdmin) IsAdministrator(addr share.Address) bool {
	return share.Address(a) == addr
}

func (a SingleAdmin) Treasury() share.Address {
	return share.Address(a)
}
