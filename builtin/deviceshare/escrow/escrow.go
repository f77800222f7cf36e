// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow moves tokens between participants and the ledger's escrow account,
// and keeps the books of what the account holds on behalf of whom.
package escrow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/builtin/token"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

var (
	slotStaked  = share.BytesToBytes32([]byte("total-staked"))
	slotLocked  = share.BytesToBytes32([]byte("total-locked"))
	slotPayable = share.BytesToBytes32([]byte("total-payable"))
)

// Token is the fungible token collaborator.
type Token interface {
	BalanceOf(addr share.Address) (*big.Int, error)
	Transfer(from, to share.Address, amount *big.Int) error
	TransferFrom(spender, from, to share.Address, amount *big.Int) error
}

// Totals are the pools held by the escrow account.
type Totals struct {
	Staked  *big.Int // provider stakes
	Locked  *big.Int // escrow of accepted, unsettled requests
	Payable *big.Int // provider earnings not yet withdrawn
}

// Sum returns the amount the escrow account must hold.
func (t *Totals) Sum() *big.Int {
	sum := new(big.Int).Add(t.Staked, t.Locked)
	return sum.Add(sum, t.Payable)
}

type Service struct {
	account share.Address
	token   Token
	staked  *solidity.Uint256
	locked  *solidity.Uint256
	payable *solidity.Uint256
}

func New(sctx *solidity.Context, tok Token) *Service {
	return &Service{
		account: sctx.Address(),
		token:   tok,
		staked:  solidity.NewUint256(sctx, slotStaked),
		locked:  solidity.NewUint256(sctx, slotLocked),
		payable: solidity.NewUint256(sctx, slotPayable),
	}
}

// Account returns the address holding escrowed tokens.
func (s *Service) Account() share.Address {
	return s.account
}

// Balance returns the token balance of the escrow account.
func (s *Service) Balance() (*big.Int, error) {
	return s.token.BalanceOf(s.account)
}

func (s *Service) Totals() (*Totals, error) {
	staked, err := s.staked.Get()
	if err != nil {
		return nil, err
	}
	locked, err := s.locked.Get()
	if err != nil {
		return nil, err
	}
	payable, err := s.payable.Get()
	if err != nil {
		return nil, err
	}
	return &Totals{Staked: staked, Locked: locked, Payable: payable}, nil
}

// PostStake pulls a stake from provider.
func (s *Service) PostStake(provider share.Address, amount *big.Int) error {
	if err := s.pull(provider, amount); err != nil {
		return err
	}
	return s.staked.Add(amount)
}

// ReleaseStake pays a stake out of the pool to the given recipient.
func (s *Service) ReleaseStake(to share.Address, amount *big.Int) error {
	if err := s.staked.Sub(amount); err != nil {
		return errors.Wrap(err, "stake pool")
	}
	return s.push(to, amount)
}

// Lock pulls the escrow of an accepted request from requestor.
func (s *Service) Lock(requestor share.Address, amount *big.Int) error {
	if err := s.pull(requestor, amount); err != nil {
		return err
	}
	return s.locked.Add(amount)
}

// Settle releases a locked escrow: refund goes back to the requestor and
// earned moves to the payable pool.
func (s *Service) Settle(requestor share.Address, earned, refund *big.Int) error {
	if err := s.locked.Sub(new(big.Int).Add(earned, refund)); err != nil {
		return errors.Wrap(err, "locked pool")
	}
	if err := s.payable.Add(earned); err != nil {
		return err
	}
	return s.push(requestor, refund)
}

// PayOut transfers earnings from the payable pool.
func (s *Service) PayOut(to share.Address, amount *big.Int) error {
	if err := s.payable.Sub(amount); err != nil {
		return errors.Wrap(err, "payable pool")
	}
	return s.push(to, amount)
}

func (s *Service) pull(from share.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return classify(s.token.TransferFrom(s.account, from, s.account, amount), from, amount)
}

func (s *Service) push(to share.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return classify(s.token.Transfer(s.account, to, amount), to, amount)
}

// classify turns token rejections into reverts and passes infrastructure failures through.
func classify(err error, party share.Address, amount *big.Int) error {
	if err == nil {
		return nil
	}
	var stateErr *state.Error
	switch {
	case errors.As(err, &stateErr):
		return err
	case errors.Is(err, token.ErrInsufficientBalance), errors.Is(err, token.ErrInsufficientAllowance):
		return reverts.Newf(reverts.InsufficientFunds, "%v: %v of %v", err, amount, party)
	default:
		return reverts.Newf(reverts.TransferFailed, "%v: %v of %v", err, amount, party)
	}
}
