// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/share"
)

type Commits struct {
	StateRoot           *share.Bytes32 `json:"stateRoot"`
	LastCommitTimestamp *time.Time     `json:"lastCommitTimestamp"`
	CallCount           uint64         `json:"callCount"`
}

type Status struct {
	Healthy bool     `json:"healthy"`
	Commits *Commits `json:"commits"`
	Error   string   `json:"error,omitempty"`
}

// Health tracks ledger commits. The ledger is healthy while committed state
// is readable and the escrow account covers its pools.
type Health struct {
	lock       sync.RWMutex
	ledger     *ledger.Ledger
	lastCommit *time.Time
}

func New(l *ledger.Ledger) *Health {
	return &Health{ledger: l}
}

// Run records commit times until ctx is done.
func (h *Health) Run(ctx context.Context) {
	for {
		waiter := h.ledger.NewCommitWaiter()
		select {
		case <-ctx.Done():
			return
		case <-waiter.C():
			h.NewCommit()
		}
	}
}

func (h *Health) NewCommit() {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	h.lastCommit = &now
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	lastCommit := h.lastCommit
	h.lock.RUnlock()

	status := &Status{
		Commits: &Commits{LastCommitTimestamp: lastCommit},
	}
	err := h.ledger.View(func(s *ledger.Snapshot) error {
		root := s.Root
		status.Commits.StateRoot = &root

		count, err := s.CallCount()
		if err != nil {
			return err
		}
		status.Commits.CallCount = count
		audit, err := s.DeviceShare.Audit()
		if err != nil {
			return err
		}
		if !audit.Balanced() {
			return errors.Errorf("escrow unbalanced: balance %v, pools %v", audit.Balance, audit.Totals.Sum())
		}
		return nil
	})
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Healthy = true
	return status
}
