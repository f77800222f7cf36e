// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
)

var slotProviders = share.BytesToBytes32([]byte("providers"))

// Provider is the per provider book of the stake ledger.
type Provider struct {
	Stake         *big.Int // 0 or the fixed stake
	Verified      bool
	Devices       uint32 // registered devices
	ListedDevices uint32
	OpenRequests  uint32   // accepted and not yet settled
	Payable       *big.Int // earned and not yet withdrawn
}

// IsStaked returns whether the provider currently holds a stake.
func (p *Provider) IsStaked() bool {
	return p.Stake != nil && p.Stake.Sign() > 0
}

func (p *Provider) normalize() *Provider {
	if p.Stake == nil {
		p.Stake = new(big.Int)
	}
	if p.Payable == nil {
		p.Payable = new(big.Int)
	}
	return p
}

type Service struct {
	providers *solidity.Mapping[share.Address, *Provider]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		providers: solidity.NewMapping[share.Address, *Provider](sctx, slotProviders),
	}
}

// Get returns the provider book of addr. Unknown providers yield an empty book.
func (s *Service) Get(addr share.Address) (*Provider, error) {
	p, err := s.providers.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get provider")
	}
	if p == nil {
		p = &Provider{}
	}
	return p.normalize(), nil
}

func (s *Service) Set(addr share.Address, p *Provider) error {
	if err := s.providers.Set(addr, p); err != nil {
		return errors.Wrap(err, "failed to set provider")
	}
	return nil
}

// Update loads the provider book, applies fn and stores the result.
func (s *Service) Update(addr share.Address, fn func(p *Provider) error) (*Provider, error) {
	p, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.Set(addr, p); err != nil {
		return nil, err
	}
	return p, nil
}
