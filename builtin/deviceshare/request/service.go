// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
)

var (
	slotRequests       = share.BytesToBytes32([]byte("requests"))
	slotRequestCounter = share.BytesToBytes32([]byte("requests-counter"))
	slotRequestors     = share.BytesToBytes32([]byte("requestors"))
)

// Service owns request records and requestor books.
type Service struct {
	requests   *solidity.Mapping[solidity.Uint64Key, *Request]
	idCounter  *solidity.Raw[uint64]
	requestors *solidity.Mapping[share.Address, *Requestor]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		requests:   solidity.NewMapping[solidity.Uint64Key, *Request](sctx, slotRequests),
		idCounter:  solidity.NewRaw[uint64](sctx, slotRequestCounter),
		requestors: solidity.NewMapping[share.Address, *Requestor](sctx, slotRequestors),
	}
}

// Count returns the number of requests ever made.
func (s *Service) Count() (uint64, error) {
	return s.idCounter.Get()
}

// Add assigns the next id to req, stores it and counts it on the requestor book.
func (s *Service) Add(req *Request) (uint64, error) {
	id, err := s.idCounter.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get request counter")
	}
	id++
	if err := s.idCounter.Set(id); err != nil {
		return 0, errors.Wrap(err, "failed to set request counter")
	}
	req.ID = id
	if err := s.Set(req); err != nil {
		return 0, err
	}
	_, err = s.UpdateRequestor(req.Requestor, func(r *Requestor) {
		r.RequestCount++
	})
	return id, err
}

// Get returns the request, or nil if unknown.
func (s *Service) Get(id uint64) (*Request, error) {
	req, err := s.requests.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get request")
	}
	return req, nil
}

// GetExisting returns the request, or a NotFound revert.
func (s *Service) GetExisting(id uint64) (*Request, error) {
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, reverts.Newf(reverts.NotFound, "request %d not found", id)
	}
	return req, nil
}

func (s *Service) Set(req *Request) error {
	if err := s.requests.Set(solidity.Uint64Key(req.ID), req); err != nil {
		return errors.Wrap(err, "failed to set request")
	}
	return nil
}

// Requestor returns the book of addr. Unknown requestors yield an empty book.
func (s *Service) Requestor(addr share.Address) (*Requestor, error) {
	r, err := s.requestors.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get requestor")
	}
	if r == nil {
		r = &Requestor{}
	}
	if r.PaidTokensTotal == nil {
		r.PaidTokensTotal = new(big.Int)
	}
	return r, nil
}

// UpdateRequestor loads the book of addr, applies fn and stores it.
func (s *Service) UpdateRequestor(addr share.Address, fn func(r *Requestor)) (*Requestor, error) {
	r, err := s.Requestor(addr)
	if err != nil {
		return nil, err
	}
	fn(r)
	if err := s.requestors.Set(addr, r); err != nil {
		return nil, errors.Wrap(err, "failed to set requestor")
	}
	return r, nil
}
