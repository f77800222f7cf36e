// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/devshare/share"
)

func RandomHash() share.Bytes32 {
	var b32 share.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() (addr share.Address) {
	rand.Read(addr[:])
	return
}
