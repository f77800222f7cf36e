// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package devices

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/devshare/builtin/deviceshare/device"
	"github.com/vechain/devshare/share"
)

type Device struct {
	ID             uint64                `json:"id"`
	Name           string                `json:"name"`
	HourlyRate     *math.HexOrDecimal256 `json:"hourlyRate"`
	MinHours       uint32                `json:"minHours"`
	URI            string                `json:"uri"`
	AvailableHours uint32                `json:"availableHours"`
	Category       uint32                `json:"category"`
	Provider       share.Address         `json:"provider"`
	Verified       bool                  `json:"verified"`
	Listed         bool                  `json:"listed"`
}

// DeviceList is the marketplace listing. Names mirror Devices one to one.
type DeviceList struct {
	Names   []string  `json:"names"`
	Devices []*Device `json:"devices"`
}

func convertDevice(dev *device.Device) *Device {
	return &Device{
		ID:             dev.ID,
		Name:           dev.Name,
		HourlyRate:     (*math.HexOrDecimal256)(dev.HourlyRate),
		MinHours:       dev.MinHours,
		URI:            dev.URI,
		AvailableHours: dev.AvailableHours,
		Category:       dev.Category,
		Provider:       dev.Provider,
		Verified:       dev.Verified,
		Listed:         dev.Listed,
	}
}
