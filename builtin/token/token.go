// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token used for stakes and rental payments.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

var (
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	ErrInvalidRecipient      = errors.New("token: invalid recipient")
	ErrInvalidAmount         = errors.New("token: invalid amount")
	ErrSupplyOverflow        = errors.New("token: total supply overflow")
)

var (
	slotBalances    = share.BytesToBytes32([]byte("balances"))
	slotAllowances  = share.BytesToBytes32([]byte("allowances"))
	slotTotalSupply = share.BytesToBytes32([]byte("total-supply"))
)

// Token is an ERC20 like token living on the ledger state.
// Every method takes the acting account explicitly.
type Token struct {
	addr        share.Address
	balances    *solidity.Mapping[share.Address, *big.Int]
	allowances  *solidity.Mapping[share.Bytes32, *big.Int]
	totalSupply *solidity.Uint256
}

// New creates the token bound to the contract address on the given state.
func New(addr share.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		balances:    solidity.NewMapping[share.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[share.Bytes32, *big.Int](sctx, slotAllowances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

func allowanceKey(owner, spender share.Address) share.Bytes32 {
	return share.Blake2b(owner.Bytes(), spender.Bytes())
}

// Address returns the contract address of the token.
func (t *Token) Address() share.Address {
	return t.addr
}

// TotalSupply returns the amount minted so far.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr share.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// Allowance returns what spender may still move on behalf of owner.
func (t *Token) Allowance(owner, spender share.Address) (*big.Int, error) {
	v, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "get allowance")
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// Approve sets the allowance of spender over owner's tokens, replacing any previous one.
func (t *Token) Approve(owner, spender share.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if spender.IsZero() {
		return ErrInvalidRecipient
	}
	if amount.Sign() == 0 {
		t.allowances.Delete(allowanceKey(owner, spender))
		return nil
	}
	return t.allowances.Set(allowanceKey(owner, spender), new(big.Int).Set(amount))
}

// Mint creates amount new tokens for to. The total supply is capped at 2^256-1,
// which bounds every balance as well.
func (t *Token) Mint(to share.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrInvalidRecipient
	}
	if err := t.totalSupply.Add(amount); err != nil {
		if errors.Is(err, solidity.ErrOverflow) {
			return ErrSupplyOverflow
		}
		return err
	}
	return t.addBalance(to, amount)
}

// Transfer moves amount from the caller to recipient.
func (t *Token) Transfer(from, to share.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrInvalidRecipient
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	return t.addBalance(to, amount)
}

// TransferFrom moves amount from owner to recipient, consuming spender's allowance.
func (t *Token) TransferFrom(spender, from, to share.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.Approve(from, spender, allowance.Sub(allowance, amount))
}

func (t *Token) addBalance(addr share.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	return t.balances.Set(addr, bal.Add(bal, amount))
}

func (t *Token) subBalance(addr share.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, bal)
}
