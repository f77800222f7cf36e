// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandTokens returns a random amount in [1, n] whole tokens expressed in wei.
func RandTokens(n int) *big.Int {
	v := big.NewInt(int64(RandIntN(n) + 1))
	return v.Mul(v, big.NewInt(1e18))
}
