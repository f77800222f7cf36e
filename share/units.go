// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package share

import "math/big"

// SecondsPerHour is the billing unit. Device rates are quoted per hour,
// elapsed usage is measured in seconds and prorated.
const SecondsPerHour uint64 = 3600

var (
	// TokenUnit is one whole token in its smallest unit (18 decimals).
	TokenUnit = big.NewInt(1e18)

	// DefaultFixedStake is the stake a provider posts before listing, 0.5 token.
	DefaultFixedStake = new(big.Int).Div(TokenUnit, big.NewInt(2))
)

// HoursToSeconds converts a whole number of hours into seconds.
func HoursToSeconds(hours uint32) uint64 {
	return uint64(hours) * SecondsPerHour
}
