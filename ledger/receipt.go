// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/vechain/devshare/share"
)

// Receipt describes an applied call.
type Receipt struct {
	CallID    share.Bytes32 `json:"callId"`
	Origin    share.Address `json:"origin"`
	Method    string        `json:"method"`
	Time      uint64        `json:"time"`
	Output    any           `json:"output,omitempty"`
	StateRoot share.Bytes32 `json:"stateRoot"`
}
