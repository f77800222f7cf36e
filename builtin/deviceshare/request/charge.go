// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"math/big"

	"github.com/vechain/devshare/share"
)

var secondsPerHour = new(big.Int).SetUint64(share.SecondsPerHour)

// Charge splits the escrow of an accepted request cancelled at now.
// Usage is billed per elapsed second, rounded down, and capped by the booked window.
// earned + refund always equals the escrowed amount.
func Charge(rate *big.Int, escrowed *big.Int, hours uint32, start, now uint64) (earned, refund *big.Int) {
	var elapsed uint64
	if now > start {
		elapsed = now - start
	}
	if window := share.HoursToSeconds(hours); elapsed > window {
		elapsed = window
	}

	earned = new(big.Int).Mul(rate, new(big.Int).SetUint64(elapsed))
	earned.Quo(earned, secondsPerHour)
	if earned.Cmp(escrowed) > 0 {
		earned.Set(escrowed)
	}
	refund = new(big.Int).Sub(escrowed, earned)
	return earned, refund
}
