// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/vechain/devshare/share"
)

// Status is the lifecycle state of a request.
type Status uint8

const (
	StatusRequested Status = iota
	StatusAccepted
	StatusCancelled
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusRequested:
		return "Requested"
	case StatusAccepted:
		return "Accepted"
	case StatusCancelled:
		return "Cancelled"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	for st := StatusRequested; st <= StatusCompleted; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// Request is a reservation of a device by a requestor.
type Request struct {
	ID             uint64
	DeviceID       uint64
	Requestor      share.Address
	RequestedHours uint32
	Status         Status
	CreatedTime    uint64
	StartTime      uint64 // set on acceptance
	EndTime        uint64 // set on cancellation or completion
	CancelRequest  bool
	AmountEscrowed *big.Int
	EarnedAmount   *big.Int
	RefundAmount   *big.Int
	Settled        bool
	Locked         bool // escrow was pulled on acceptance
}

// Terminal reports whether no more transitions are possible except settlement.
func (r *Request) Terminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusCompleted
}

// Deadline returns the time the booked window fully elapses, saturating at math.MaxUint64.
func (r *Request) Deadline() uint64 {
	end, carry := bits.Add64(r.StartTime, share.HoursToSeconds(r.RequestedHours), 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return end
}

// Elapsed reports whether the booked window of an accepted request has fully elapsed at now.
func (r *Request) Elapsed(now uint64) bool {
	return r.Status == StatusAccepted && now >= r.Deadline()
}

// Requestor is the per requestor book.
type Requestor struct {
	PaidTokensTotal *big.Int // escrow outstanding across accepted, unsettled requests
	RequestCount    uint64
}
