// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deviceshare

import (
	"math/big"

	"github.com/vechain/devshare/builtin/deviceshare/device"
	"github.com/vechain/devshare/builtin/deviceshare/request"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/deviceshare/stakes"
	"github.com/vechain/devshare/share"
)

// TransferTokenToRequestor settles a cancelled or completed request: the refund goes back
// to the requestor and the earnings are credited to the provider's payable balance.
// An accepted request whose window elapsed is completed first. Settling twice fails with AlreadySettled.
func (d *DeviceShare) TransferTokenToRequestor(caller share.Address, requestID uint64, now uint64) error {
	req, err := d.requestService.GetExisting(requestID)
	if err != nil {
		return err
	}
	dev, err := d.deviceService.GetExisting(req.DeviceID)
	if err != nil {
		return err
	}
	if caller != req.Requestor && caller != dev.Provider && !d.auth.IsAdministrator(caller) {
		return reverts.Newf(reverts.Unauthorized, "%v may not settle request %d", caller, requestID)
	}
	if req.Settled {
		return reverts.Newf(reverts.AlreadySettled, "request %d", requestID)
	}
	if req.Elapsed(now) {
		if err := d.complete(req, now); err != nil {
			return err
		}
	}
	if !req.Terminal() {
		return reverts.Newf(reverts.InvalidState, "request %d is %v", requestID, req.Status)
	}
	if !req.Locked {
		// cancelled before acceptance, no funds to move
		req.Settled = true
		return d.requestService.Set(req)
	}

	if err := d.escrowService.Settle(req.Requestor, req.EarnedAmount, req.RefundAmount); err != nil {
		return err
	}
	req.Settled = true
	if err := d.requestService.Set(req); err != nil {
		return err
	}
	if _, err := d.requestService.UpdateRequestor(req.Requestor, func(r *request.Requestor) {
		r.PaidTokensTotal.Sub(r.PaidTokensTotal, req.AmountEscrowed)
	}); err != nil {
		return err
	}
	if _, err := d.stakeService.Update(dev.Provider, func(p *stakes.Provider) error {
		p.OpenRequests--
		p.Payable.Add(p.Payable, req.EarnedAmount)
		return nil
	}); err != nil {
		return err
	}
	logger.Debug("request settled", "request", requestID, "earned", req.EarnedAmount, "refund", req.RefundAmount)
	return nil
}

// WithdrawEarnings pays the caller's payable balance out and returns the amount.
func (d *DeviceShare) WithdrawEarnings(caller share.Address) (*big.Int, error) {
	p, err := d.stakeService.Get(caller)
	if err != nil {
		return nil, err
	}
	if p.Payable.Sign() == 0 {
		return new(big.Int), nil
	}

	var amount *big.Int
	if _, err := d.stakeService.Update(caller, func(p *stakes.Provider) error {
		amount = new(big.Int).Set(p.Payable)
		p.Payable.SetUint64(0)
		return d.escrowService.PayOut(caller, amount)
	}); err != nil {
		return nil, err
	}
	logger.Debug("earnings withdrawn", "provider", caller, "amount", amount)
	return amount, nil
}

// WithdrawStake returns the caller's stake once no device is listed and no request is open.
func (d *DeviceShare) WithdrawStake(caller share.Address) (*big.Int, error) {
	var amount *big.Int
	if _, err := d.stakeService.Update(caller, func(p *stakes.Provider) error {
		switch {
		case !p.IsStaked():
			return reverts.Newf(reverts.InvalidState, "%v holds no stake", caller)
		case p.ListedDevices > 0:
			return reverts.Newf(reverts.InvalidState, "%v has %d listed devices", caller, p.ListedDevices)
		case p.OpenRequests > 0:
			return reverts.Newf(reverts.InvalidState, "%v has %d open requests", caller, p.OpenRequests)
		}
		amount, p.Stake = p.Stake, new(big.Int)
		return d.escrowService.ReleaseStake(caller, amount)
	}); err != nil {
		return nil, err
	}
	logger.Debug("stake withdrawn", "provider", caller, "amount", amount)
	return amount, nil
}

// ForfeitStake moves a provider's stake to the treasury and delists all its devices. Administrator only.
func (d *DeviceShare) ForfeitStake(caller share.Address, provider share.Address) (*big.Int, error) {
	if err := d.requireAdmin(caller); err != nil {
		return nil, err
	}
	p, err := d.stakeService.Get(provider)
	if err != nil {
		return nil, err
	}
	if !p.IsStaked() {
		return nil, reverts.Newf(reverts.InvalidState, "%v holds no stake", provider)
	}

	// collect first, delisting mutates the index being walked
	var ids []uint64
	if err := d.deviceService.IterListed(func(dev *device.Device) error {
		if dev.Provider == provider {
			ids = append(ids, dev.ID)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	for _, id := range ids {
		dev, err := d.deviceService.GetExisting(id)
		if err != nil {
			return nil, err
		}
		if err := d.delist(dev); err != nil {
			return nil, err
		}
	}

	var amount *big.Int
	if _, err := d.stakeService.Update(provider, func(p *stakes.Provider) error {
		amount, p.Stake = p.Stake, new(big.Int)
		return d.escrowService.ReleaseStake(d.auth.Treasury(), amount)
	}); err != nil {
		return nil, err
	}
	logger.Info("stake forfeited", "provider", provider, "amount", amount, "delisted", len(ids))
	return amount, nil
}
