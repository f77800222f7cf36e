// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package device

import (
	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
)

var (
	slotDevices       = share.BytesToBytes32([]byte("devices"))
	slotDeviceCounter = share.BytesToBytes32([]byte("devices-counter"))
	slotListedHead    = share.BytesToBytes32([]byte("listed-head"))
	slotListedTail    = share.BytesToBytes32([]byte("listed-tail"))
	slotListedCount   = share.BytesToBytes32([]byte("listed-count"))
)

// Service owns device records and the ordered index of listed devices.
type Service struct {
	devices   *solidity.Mapping[solidity.Uint64Key, *Device]
	idCounter *solidity.Raw[uint64]
	listed    *index
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		devices:   solidity.NewMapping[solidity.Uint64Key, *Device](sctx, slotDevices),
		idCounter: solidity.NewRaw[uint64](sctx, slotDeviceCounter),
		listed:    newIndex(sctx, slotListedHead, slotListedTail, slotListedCount),
	}
}

// Count returns the number of registered devices, which is also the latest id.
func (s *Service) Count() (uint64, error) {
	return s.idCounter.Get()
}

// Add assigns the next id to dev and stores it.
func (s *Service) Add(dev *Device) (uint64, error) {
	id, err := s.idCounter.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get device counter")
	}
	id++
	if err := s.idCounter.Set(id); err != nil {
		return 0, errors.Wrap(err, "failed to set device counter")
	}
	dev.ID = id
	if err := s.Set(dev); err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns the device, or nil if unknown.
func (s *Service) Get(id uint64) (*Device, error) {
	dev, err := s.devices.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get device")
	}
	return dev, nil
}

// GetExisting returns the device, or a NotFound revert.
func (s *Service) GetExisting(id uint64) (*Device, error) {
	dev, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, reverts.Newf(reverts.NotFound, "device %d not found", id)
	}
	return dev, nil
}

func (s *Service) Set(dev *Device) error {
	if err := s.devices.Set(solidity.Uint64Key(dev.ID), dev); err != nil {
		return errors.Wrap(err, "failed to set device")
	}
	return nil
}

// List marks dev listed and indexes it. It returns false if it was listed already.
func (s *Service) List(dev *Device) (bool, error) {
	if dev.Listed {
		return false, nil
	}
	dev.Listed = true
	if err := s.listed.Insert(dev.ID); err != nil {
		return false, errors.Wrap(err, "failed to index device")
	}
	return true, s.Set(dev)
}

// Delist is the reverse of List.
func (s *Service) Delist(dev *Device) (bool, error) {
	if !dev.Listed {
		return false, nil
	}
	dev.Listed = false
	if err := s.listed.Remove(dev.ID); err != nil {
		return false, errors.Wrap(err, "failed to unindex device")
	}
	return true, s.Set(dev)
}

// ListedCount returns the size of the listed index.
func (s *Service) ListedCount() (uint64, error) {
	return s.listed.Len()
}

// IterListed visits listed devices in ascending id order.
func (s *Service) IterListed(callback func(dev *Device) error) error {
	return s.listed.Iter(func(id uint64) error {
		dev, err := s.GetExisting(id)
		if err != nil {
			return err
		}
		return callback(dev)
	})
}
