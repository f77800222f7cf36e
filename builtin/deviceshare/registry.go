// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deviceshare

import (
	"math/big"

	"github.com/vechain/devshare/builtin/deviceshare/device"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/deviceshare/stakes"
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
)

// AddDevice registers a device owned by caller. It starts unverified and unlisted.
func (d *DeviceShare) AddDevice(
	caller share.Address,
	name string,
	hourlyRate *big.Int,
	minHours uint32,
	uri string,
	availableHours uint32,
	category uint32,
) (uint64, error) {
	switch {
	case name == "":
		return 0, reverts.New(reverts.InvalidParameters, "empty name")
	case hourlyRate == nil || hourlyRate.Sign() <= 0:
		return 0, reverts.New(reverts.InvalidParameters, "hourly rate must be positive")
	case minHours == 0:
		return 0, reverts.New(reverts.InvalidParameters, "min hours must be positive")
	case availableHours == 0:
		return 0, reverts.New(reverts.InvalidParameters, "available hours must be positive")
	case minHours > availableHours:
		return 0, reverts.Newf(reverts.InvalidParameters, "min hours %d exceed available hours %d", minHours, availableHours)
	case !solidity.FitsUint256(new(big.Int).Mul(hourlyRate, new(big.Int).SetUint64(uint64(availableHours)))):
		return 0, reverts.New(reverts.InvalidParameters, "hourly rate too large for the available hours")
	}

	id, err := d.deviceService.Add(&device.Device{
		Name:           name,
		HourlyRate:     new(big.Int).Set(hourlyRate),
		MinHours:       minHours,
		URI:            uri,
		AvailableHours: availableHours,
		Category:       category,
		Provider:       caller,
	})
	if err != nil {
		return 0, err
	}
	if _, err := d.stakeService.Update(caller, func(p *stakes.Provider) error {
		p.Devices++
		return nil
	}); err != nil {
		return 0, err
	}
	logger.Debug("device added", "id", id, "provider", caller, "rate", hourlyRate)
	return id, nil
}

// VerifyProvider marks the device, and its provider, verified. Administrator only.
func (d *DeviceShare) VerifyProvider(caller share.Address, deviceID uint64) error {
	if err := d.requireAdmin(caller); err != nil {
		return err
	}
	dev, err := d.deviceService.GetExisting(deviceID)
	if err != nil {
		return err
	}
	if dev.Verified {
		return nil
	}
	dev.Verified = true
	if err := d.deviceService.Set(dev); err != nil {
		return err
	}
	if _, err := d.stakeService.Update(dev.Provider, func(p *stakes.Provider) error {
		p.Verified = true
		return nil
	}); err != nil {
		return err
	}
	logger.Debug("provider verified", "device", deviceID, "provider", dev.Provider)
	return nil
}

func (d *DeviceShare) requireAdminOrProvider(caller share.Address, dev *device.Device) error {
	if caller == dev.Provider || d.auth.IsAdministrator(caller) {
		return nil
	}
	return reverts.Newf(reverts.Unauthorized, "%v is neither the administrator nor the provider of device %d", caller, dev.ID)
}

// ListDevice makes a verified device visible. The provider's stake is posted with the first listing.
func (d *DeviceShare) ListDevice(caller share.Address, deviceID uint64) error {
	dev, err := d.deviceService.GetExisting(deviceID)
	if err != nil {
		return err
	}
	if err := d.requireAdminOrProvider(caller, dev); err != nil {
		return err
	}
	if !dev.Verified {
		return reverts.Newf(reverts.NotVerified, "device %d is not verified", deviceID)
	}
	if dev.Listed {
		return nil
	}

	params, err := d.Params()
	if err != nil {
		return err
	}
	if _, err := d.stakeService.Update(dev.Provider, func(p *stakes.Provider) error {
		if !p.IsStaked() && params.FixedStake.Sign() > 0 {
			if err := d.escrowService.PostStake(dev.Provider, params.FixedStake); err != nil {
				return err
			}
			p.Stake = new(big.Int).Set(params.FixedStake)
			logger.Debug("stake posted", "provider", dev.Provider, "amount", params.FixedStake)
		}
		p.ListedDevices++
		return nil
	}); err != nil {
		return err
	}
	if _, err := d.deviceService.List(dev); err != nil {
		return err
	}
	logger.Debug("device listed", "id", deviceID)
	return nil
}

// DelistDevice hides a device from the listing.
func (d *DeviceShare) DelistDevice(caller share.Address, deviceID uint64) error {
	dev, err := d.deviceService.GetExisting(deviceID)
	if err != nil {
		return err
	}
	if err := d.requireAdminOrProvider(caller, dev); err != nil {
		return err
	}
	return d.delist(dev)
}

func (d *DeviceShare) delist(dev *device.Device) error {
	changed, err := d.deviceService.Delist(dev)
	if err != nil || !changed {
		return err
	}
	if _, err := d.stakeService.Update(dev.Provider, func(p *stakes.Provider) error {
		p.ListedDevices--
		return nil
	}); err != nil {
		return err
	}
	logger.Debug("device delisted", "id", dev.ID)
	return nil
}
