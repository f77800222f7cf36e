// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/share"
)

var (
	ErrOverflow  = errors.New("uint256 overflow")
	ErrUnderflow = errors.New("uint256 underflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// Values that do not fit into 256 bits are rejected with ErrOverflow, the stored value is left as is.
type Uint256 struct {
	context *Context
	pos     share.Bytes32
}

func NewUint256(context *Context, pos share.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage[:]), nil
}

func (u *Uint256) Set(value *big.Int) error {
	v, err := fromBig(value)
	if err != nil {
		return err
	}
	u.store(v)
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	delta, err := fromBig(value)
	if err != nil {
		return err
	}
	v, err := u.load()
	if err != nil {
		return err
	}
	if _, overflow := v.AddOverflow(v, delta); overflow {
		return ErrOverflow
	}
	u.store(v)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	delta, err := fromBig(value)
	if err != nil {
		return err
	}
	v, err := u.load()
	if err != nil {
		return err
	}
	if _, underflow := v.SubOverflow(v, delta); underflow {
		return ErrUnderflow
	}
	u.store(v)
	return nil
}

func (u *Uint256) load() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) store(v *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, share.Bytes32(v.Bytes32()))
}

func fromBig(value *big.Int) (*uint256.Int, error) {
	if value.Sign() < 0 {
		return nil, ErrUnderflow
	}
	v, overflow := uint256.FromBig(value)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}

// FitsUint256 reports whether value can be stored in an Uint256.
func FitsUint256(value *big.Int) bool {
	return value.Sign() >= 0 && value.BitLen() <= 256
}
