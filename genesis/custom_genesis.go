// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/deviceshare"
	"github.com/vechain/devshare/share"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	LaunchTime uint64    `json:"launchTime" yaml:"launchTime"`
	ExtraData  string    `json:"extraData" yaml:"extraData"`
	Accounts   []Account `json:"accounts" yaml:"accounts"`
	Params     Params    `json:"params" yaml:"params"`
}

// Account is an initial token holder.
type Account struct {
	Address share.Address    `json:"address" yaml:"address"`
	Balance *HexOrDecimal256 `json:"balance" yaml:"balance"`
}

// Params are the marketplace construction parameters.
type Params struct {
	FixedStake *HexOrDecimal256 `json:"fixedStake" yaml:"fixedStake"`
	Admin      share.Address    `json:"admin" yaml:"admin"`
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Params.Admin.IsZero() {
		return nil, errors.New("params.admin must be set")
	}
	fixedStake := share.DefaultFixedStake
	if gen.Params.FixedStake != nil {
		fixedStake = (*big.Int)(gen.Params.FixedStake)
		if fixedStake.Sign() < 0 {
			return nil, errors.New("params.fixedStake must not be negative")
		}
	}

	var extra [28]byte
	if gen.ExtraData != "" {
		data, err := hexutil.Decode(gen.ExtraData)
		if err != nil {
			// plain text is accepted as well
			data = []byte(gen.ExtraData)
		}
		if len(data) > len(extra) {
			return nil, errors.Errorf("extraData must be at most %d bytes", len(extra))
		}
		copy(extra[:], data)
	}

	allocs := make([]Alloc, 0, len(gen.Accounts))
	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%v: balance must be set", a.Address)
		}
		allocs = append(allocs, Alloc{a.Address, new(big.Int).Set((*big.Int)(a.Balance))})
	}

	return newGenesis("customnet", gen.LaunchTime, extra, deviceshare.Params{
		FixedStake: new(big.Int).Set(fixedStake),
		Admin:      gen.Params.Admin,
	}, allocs)
}

// HexOrDecimal256 marshals big.Int as hex or decimal, and also accepts plain JSON numbers.
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		return (*big.Int)(i).UnmarshalJSON(input)
	}
	return i.UnmarshalText([]byte(hex))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by yaml.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
