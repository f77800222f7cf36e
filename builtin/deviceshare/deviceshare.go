// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deviceshare

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/deviceshare/device"
	"github.com/vechain/devshare/builtin/deviceshare/escrow"
	"github.com/vechain/devshare/builtin/deviceshare/request"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/deviceshare/stakes"
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/log"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

var (
	logger = log.WithContext("pkg", "deviceshare")

	slotParams = share.BytesToBytes32([]byte("params"))
	slotOwner  = share.BytesToBytes32([]byte("owner"))
)

// Token is the fungible token collaborator.
type Token = escrow.Token

// DeviceShare implements the device marketplace: stake ledger, device registry,
// request ledger and settlement, all stored under one contract address.
type DeviceShare struct {
	addr   share.Address
	auth   Authorizer
	params *solidity.Raw[*Params]
	owner  *solidity.Address

	stakeService   *stakes.Service
	deviceService  *device.Service
	requestService *request.Service
	escrowService  *escrow.Service
}

// New create a new instance. Tokens are escrowed by addr.
func New(addr share.Address, state *state.State, token Token, auth Authorizer) *DeviceShare {
	sctx := solidity.NewContext(addr, state)
	return &DeviceShare{
		addr:   addr,
		auth:   auth,
		params: solidity.NewRaw[*Params](sctx, slotParams),
		owner:  solidity.NewAddress(sctx, slotOwner),

		stakeService:   stakes.New(sctx),
		deviceService:  device.New(sctx),
		requestService: request.New(sctx),
		escrowService:  escrow.New(sctx, token),
	}
}

// Address returns the contract and escrow address.
func (d *DeviceShare) Address() share.Address {
	return d.addr
}

// Initialize stores the construction parameters. It fails once they are set.
func (d *DeviceShare) Initialize(params *Params) error {
	current, err := d.params.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get params")
	}
	if current != nil {
		return reverts.New(reverts.InvalidState, "already initialized")
	}
	if params.FixedStake == nil || params.FixedStake.Sign() < 0 {
		return reverts.New(reverts.InvalidParameters, "invalid fixed stake")
	}
	if params.Admin.IsZero() {
		return reverts.New(reverts.InvalidParameters, "zero administrator")
	}
	if err := d.params.Set(params); err != nil {
		return err
	}
	d.owner.Set(params.Admin)
	return nil
}

// Params returns the construction parameters.
func (d *DeviceShare) Params() (*Params, error) {
	params, err := d.params.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get params")
	}
	if params == nil {
		return nil, reverts.New(reverts.InvalidState, "not initialized")
	}
	return params, nil
}

//
// Getters - no state change
//

// Device returns a device by id.
func (d *DeviceShare) Device(id uint64) (*device.Device, error) {
	return d.deviceService.GetExisting(id)
}

// DeviceCount returns the number of registered devices.
func (d *DeviceShare) DeviceCount() (uint64, error) {
	return d.deviceService.Count()
}

// GetAllDevices returns names and records of every verified and listed device, ascending by id.
func (d *DeviceShare) GetAllDevices() ([]string, []*device.Device, error) {
	var (
		names   []string
		devices []*device.Device
	)
	err := d.deviceService.IterListed(func(dev *device.Device) error {
		if dev.Visible() {
			names = append(names, dev.Name)
			devices = append(devices, dev)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return names, devices, nil
}

// Requests returns a request by id.
func (d *DeviceShare) Requests(id uint64) (*request.Request, error) {
	return d.requestService.GetExisting(id)
}

// RequestCount returns the number of requests ever made.
func (d *DeviceShare) RequestCount() (uint64, error) {
	return d.requestService.Count()
}

// Requestors returns the book of a requestor.
func (d *DeviceShare) Requestors(addr share.Address) (*request.Requestor, error) {
	return d.requestService.Requestor(addr)
}

// Provider returns the stake book of a provider.
func (d *DeviceShare) Provider(addr share.Address) (*stakes.Provider, error) {
	return d.stakeService.Get(addr)
}

// AuditReport compares the escrow account balance with the pools it backs.
type AuditReport struct {
	Balance *big.Int
	Totals  *escrow.Totals
}

// Balanced reports whether the account holds exactly what the pools sum to.
func (r *AuditReport) Balanced() bool {
	return r.Balance.Cmp(r.Totals.Sum()) == 0
}

// Audit returns the escrow audit report.
func (d *DeviceShare) Audit() (*AuditReport, error) {
	balance, err := d.escrowService.Balance()
	if err != nil {
		return nil, err
	}
	totals, err := d.escrowService.Totals()
	if err != nil {
		return nil, err
	}
	return &AuditReport{Balance: balance, Totals: totals}, nil
}

func (d *DeviceShare) requireAdmin(caller share.Address) error {
	if !d.auth.IsAdministrator(caller) {
		return reverts.Newf(reverts.Unauthorized, "%v is not the administrator", caller)
	}
	return nil
}

// Owner returns the administrator set at construction.
func (d *DeviceShare) Owner() (share.Address, error) {
	owner, err := d.owner.Get()
	if err != nil {
		return share.Address{}, errors.Wrap(err, "failed to get owner")
	}
	if owner.IsZero() {
		return share.Address{}, reverts.New(reverts.InvalidState, "not initialized")
	}
	return owner, nil
}
