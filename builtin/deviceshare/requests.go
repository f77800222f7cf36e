// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deviceshare

import (
	"math/big"

	"github.com/vechain/devshare/builtin/deviceshare/request"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/deviceshare/stakes"
	"github.com/vechain/devshare/share"
)

// RequestDeviceUse opens a request to rent a listed device for hours. Nothing is transferred yet.
func (d *DeviceShare) RequestDeviceUse(caller share.Address, deviceID uint64, hours uint32, now uint64) (uint64, error) {
	dev, err := d.deviceService.GetExisting(deviceID)
	if err != nil {
		return 0, err
	}
	if !dev.Visible() {
		return 0, reverts.Newf(reverts.DeviceUnavailable, "device %d is not listed", deviceID)
	}
	if !dev.Bookable(hours) {
		return 0, reverts.Newf(reverts.InvalidDuration, "%d hours out of [%d, %d]", hours, dev.MinHours, dev.AvailableHours)
	}

	id, err := d.requestService.Add(&request.Request{
		DeviceID:       deviceID,
		Requestor:      caller,
		RequestedHours: hours,
		Status:         request.StatusRequested,
		CreatedTime:    now,
		AmountEscrowed: dev.Quote(hours),
		EarnedAmount:   new(big.Int),
		RefundAmount:   new(big.Int),
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("device requested", "request", id, "device", deviceID, "requestor", caller, "hours", hours)
	return id, nil
}

// AcceptDeviceRequestByProvider starts the rental and locks its escrow. Only the device's provider may accept.
func (d *DeviceShare) AcceptDeviceRequestByProvider(caller share.Address, requestID uint64, now uint64) error {
	req, err := d.requestService.GetExisting(requestID)
	if err != nil {
		return err
	}
	dev, err := d.deviceService.GetExisting(req.DeviceID)
	if err != nil {
		return err
	}
	if caller != dev.Provider {
		return reverts.Newf(reverts.Unauthorized, "%v is not the provider of device %d", caller, dev.ID)
	}
	if req.Status != request.StatusRequested {
		return reverts.Newf(reverts.InvalidState, "request %d is %v", requestID, req.Status)
	}

	if err := d.escrowService.Lock(req.Requestor, req.AmountEscrowed); err != nil {
		return err
	}
	req.Status = request.StatusAccepted
	req.StartTime = now
	req.Locked = true
	if err := d.requestService.Set(req); err != nil {
		return err
	}
	if _, err := d.requestService.UpdateRequestor(req.Requestor, func(r *request.Requestor) {
		r.PaidTokensTotal.Add(r.PaidTokensTotal, req.AmountEscrowed)
	}); err != nil {
		return err
	}
	if _, err := d.stakeService.Update(dev.Provider, func(p *stakes.Provider) error {
		p.OpenRequests++
		return nil
	}); err != nil {
		return err
	}
	logger.Debug("request accepted", "request", requestID, "escrow", req.AmountEscrowed)
	return nil
}

// CancelRequest cancels a pending or running request. The requestor or the provider may cancel.
// Cancelling a running request fixes its charge, funds move on settlement.
func (d *DeviceShare) CancelRequest(caller share.Address, requestID uint64, now uint64) error {
	req, err := d.requestService.GetExisting(requestID)
	if err != nil {
		return err
	}
	dev, err := d.deviceService.GetExisting(req.DeviceID)
	if err != nil {
		return err
	}
	if caller != req.Requestor && caller != dev.Provider {
		return reverts.Newf(reverts.Unauthorized, "%v may not cancel request %d", caller, requestID)
	}

	switch req.Status {
	case request.StatusRequested:
		// the quote stays on record, nothing was locked
		req.EarnedAmount, req.RefundAmount = new(big.Int), new(big.Int)
	case request.StatusAccepted:
		req.EarnedAmount, req.RefundAmount = request.Charge(dev.HourlyRate, req.AmountEscrowed, req.RequestedHours, req.StartTime, now)
	default:
		return reverts.Newf(reverts.InvalidState, "request %d is %v", requestID, req.Status)
	}
	req.Status = request.StatusCancelled
	req.CancelRequest = true
	req.EndTime = now
	if err := d.requestService.Set(req); err != nil {
		return err
	}
	logger.Debug("request cancelled", "request", requestID, "by", caller, "earned", req.EarnedAmount, "refund", req.RefundAmount)
	return nil
}

// CompleteRequest closes an accepted request whose booked window has elapsed. Anyone may complete.
func (d *DeviceShare) CompleteRequest(_ share.Address, requestID uint64, now uint64) error {
	req, err := d.requestService.GetExisting(requestID)
	if err != nil {
		return err
	}
	if err := d.complete(req, now); err != nil {
		return err
	}
	return d.requestService.Set(req)
}

func (d *DeviceShare) complete(req *request.Request, now uint64) error {
	if req.Status != request.StatusAccepted {
		return reverts.Newf(reverts.InvalidState, "request %d is %v", req.ID, req.Status)
	}
	if !req.Elapsed(now) {
		return reverts.Newf(reverts.InvalidState, "request %d runs until %d", req.ID, req.Deadline())
	}
	req.Status = request.StatusCompleted
	req.EndTime = req.Deadline()
	req.EarnedAmount = new(big.Int).Set(req.AmountEscrowed)
	req.RefundAmount = new(big.Int)
	logger.Debug("request completed", "request", req.ID)
	return nil
}
