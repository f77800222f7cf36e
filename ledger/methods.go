// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"
	"encoding/json"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/deviceshare"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/token"
	"github.com/vechain/devshare/share"
)

// Method names accepted by Apply and Invoke.
const (
	MethodAddDevice                = "addDevice"
	MethodVerifyProvider           = "verifyProvider"
	MethodListDevice               = "listDevice"
	MethodDelistDevice             = "delistDevice"
	MethodRequestDeviceUse         = "requestDeviceUse"
	MethodAcceptRequest            = "acceptDeviceRequestByProvider"
	MethodCancelRequest            = "cancelRequest"
	MethodCompleteRequest          = "completeRequest"
	MethodTransferTokenToRequestor = "transferTokenToRequestor"
	MethodWithdrawEarnings         = "withdrawEarnings"
	MethodWithdrawStake            = "withdrawStake"
	MethodForfeitStake             = "forfeitStake"
	MethodApprove                  = "approve"
	MethodTransfer                 = "transfer"
	MethodMint                     = "mint"
)

// AddDeviceArgs are the args of addDevice.
type AddDeviceArgs struct {
	Name           string                `json:"name"`
	HourlyRate     *math.HexOrDecimal256 `json:"hourlyRate"`
	MinHours       uint32                `json:"minHours"`
	URI            string                `json:"uri"`
	AvailableHours uint32                `json:"availableHours"`
	Category       uint32                `json:"category"`
}

// DeviceArgs address a device.
type DeviceArgs struct {
	DeviceID uint64 `json:"deviceId"`
}

// RequestDeviceUseArgs are the args of requestDeviceUse.
type RequestDeviceUseArgs struct {
	DeviceID uint64 `json:"deviceId"`
	Hours    uint32 `json:"hours"`
}

// RequestArgs address a request.
type RequestArgs struct {
	RequestID uint64 `json:"requestId"`
}

// ForfeitStakeArgs are the args of forfeitStake.
type ForfeitStakeArgs struct {
	Provider share.Address `json:"provider"`
}

// TokenArgs are the args of the token methods. To is the spender for approve.
type TokenArgs struct {
	To     share.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// IDOutput returns the ID of a created device or request.
type IDOutput struct {
	ID uint64 `json:"id"`
}

// AmountOutput returns a moved amount.
type AmountOutput struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type env struct {
	origin share.Address
	now    uint64
	auth   deviceshare.Authorizer
	ds     *deviceshare.DeviceShare
	token  *token.Token
}

type method struct {
	decode func(args json.RawMessage) (any, error)
	run    func(e *env, args any) (any, error)
}

func def[A any](run func(e *env, args *A) (any, error)) *method {
	return &method{
		decode: func(raw json.RawMessage) (any, error) {
			args := new(A)
			if len(raw) == 0 {
				return args, nil
			}
			decoder := json.NewDecoder(bytes.NewReader(raw))
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(args); err != nil {
				return nil, err
			}
			return args, nil
		},
		run: func(e *env, args any) (any, error) {
			return run(e, args.(*A))
		},
	}
}

type none struct{}

var methods = map[string]*method{
	MethodAddDevice: def(func(e *env, a *AddDeviceArgs) (any, error) {
		id, err := e.ds.AddDevice(e.origin, a.Name, amountOrZero(a.HourlyRate), a.MinHours, a.URI, a.AvailableHours, a.Category)
		if err != nil {
			return nil, err
		}
		return &IDOutput{id}, nil
	}),
	MethodVerifyProvider: def(func(e *env, a *DeviceArgs) (any, error) {
		return nil, e.ds.VerifyProvider(e.origin, a.DeviceID)
	}),
	MethodListDevice: def(func(e *env, a *DeviceArgs) (any, error) {
		return nil, e.ds.ListDevice(e.origin, a.DeviceID)
	}),
	MethodDelistDevice: def(func(e *env, a *DeviceArgs) (any, error) {
		return nil, e.ds.DelistDevice(e.origin, a.DeviceID)
	}),
	MethodRequestDeviceUse: def(func(e *env, a *RequestDeviceUseArgs) (any, error) {
		id, err := e.ds.RequestDeviceUse(e.origin, a.DeviceID, a.Hours, e.now)
		if err != nil {
			return nil, err
		}
		return &IDOutput{id}, nil
	}),
	MethodAcceptRequest: def(func(e *env, a *RequestArgs) (any, error) {
		return nil, e.ds.AcceptDeviceRequestByProvider(e.origin, a.RequestID, e.now)
	}),
	MethodCancelRequest: def(func(e *env, a *RequestArgs) (any, error) {
		return nil, e.ds.CancelRequest(e.origin, a.RequestID, e.now)
	}),
	MethodCompleteRequest: def(func(e *env, a *RequestArgs) (any, error) {
		return nil, e.ds.CompleteRequest(e.origin, a.RequestID, e.now)
	}),
	MethodTransferTokenToRequestor: def(func(e *env, a *RequestArgs) (any, error) {
		return nil, e.ds.TransferTokenToRequestor(e.origin, a.RequestID, e.now)
	}),
	MethodWithdrawEarnings: def(func(e *env, _ *none) (any, error) {
		return amountOutput(e.ds.WithdrawEarnings(e.origin))
	}),
	MethodWithdrawStake: def(func(e *env, _ *none) (any, error) {
		return amountOutput(e.ds.WithdrawStake(e.origin))
	}),
	MethodForfeitStake: def(func(e *env, a *ForfeitStakeArgs) (any, error) {
		return amountOutput(e.ds.ForfeitStake(e.origin, a.Provider))
	}),
	MethodApprove: def(func(e *env, a *TokenArgs) (any, error) {
		return nil, tokenRevert(e.token.Approve(e.origin, a.To, amountOrZero(a.Amount)))
	}),
	MethodTransfer: def(func(e *env, a *TokenArgs) (any, error) {
		return nil, tokenRevert(e.token.Transfer(e.origin, a.To, amountOrZero(a.Amount)))
	}),
	MethodMint: def(func(e *env, a *TokenArgs) (any, error) {
		if !e.auth.IsAdministrator(e.origin) {
			return nil, reverts.New(reverts.Unauthorized, "caller is not the administrator")
		}
		return nil, tokenRevert(e.token.Mint(a.To, amountOrZero(a.Amount)))
	}),
}

// Methods returns the sorted names of all methods.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func amountOrZero(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(v))
}

func amountOutput(amount *big.Int, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return &AmountOutput{(*math.HexOrDecimal256)(amount)}, nil
}

// tokenRevert turns token refusals into reverts so callers see one error taxonomy.
func tokenRevert(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrInsufficientBalance), errors.Is(err, token.ErrInsufficientAllowance):
		return reverts.New(reverts.InsufficientFunds, err.Error())
	case errors.Is(err, token.ErrInvalidRecipient), errors.Is(err, token.ErrInvalidAmount), errors.Is(err, token.ErrSupplyOverflow):
		return reverts.New(reverts.InvalidParameters, err.Error())
	default:
		return err
	}
}
