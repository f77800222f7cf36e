// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package device

import (
	"math/big"

	"github.com/vechain/devshare/share"
)

// Device is a rentable device registered by a provider.
type Device struct {
	ID             uint64
	Name           string
	HourlyRate     *big.Int // token units per hour
	MinHours       uint32   // shortest bookable request
	URI            string
	AvailableHours uint32 // longest bookable request
	Category       uint32
	Provider       share.Address
	Verified       bool
	Listed         bool
}

// Visible reports whether the device shows up in the public listing.
func (d *Device) Visible() bool {
	return d.Verified && d.Listed
}

// Bookable reports whether hours is within the device's duration bounds.
func (d *Device) Bookable(hours uint32) bool {
	return hours >= d.MinHours && hours <= d.AvailableHours
}

// Quote returns the price of renting the device for the given hours.
func (d *Device) Quote(hours uint32) *big.Int {
	return new(big.Int).Mul(d.HourlyRate, new(big.Int).SetUint64(uint64(hours)))
}
