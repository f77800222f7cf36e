// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/devshare/builtin/deviceshare/request"
	"github.com/vechain/devshare/share"
)

type Request struct {
	ID             uint64                `json:"id"`
	DeviceID       uint64                `json:"deviceId"`
	Requestor      share.Address         `json:"requestor"`
	RequestedHours uint32                `json:"requestedHours"`
	Status         string                `json:"status"`
	CreatedTime    uint64                `json:"createdTime"`
	StartTime      uint64                `json:"startTime"`
	EndTime        uint64                `json:"endTime"`
	CancelRequest  bool                  `json:"cancelRequest"`
	AmountEscrowed *math.HexOrDecimal256 `json:"amountEscrowed"`
	EarnedAmount   *math.HexOrDecimal256 `json:"earnedAmount"`
	RefundAmount   *math.HexOrDecimal256 `json:"refundAmount"`
	Settled        bool                  `json:"settled"`
	Locked         bool                  `json:"locked"`
}

func convertRequest(req *request.Request) *Request {
	return &Request{
		ID:             req.ID,
		DeviceID:       req.DeviceID,
		Requestor:      req.Requestor,
		RequestedHours: req.RequestedHours,
		Status:         req.Status.String(),
		CreatedTime:    req.CreatedTime,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		CancelRequest:  req.CancelRequest,
		AmountEscrowed: (*math.HexOrDecimal256)(req.AmountEscrowed),
		EarnedAmount:   (*math.HexOrDecimal256)(req.EarnedAmount),
		RefundAmount:   (*math.HexOrDecimal256)(req.RefundAmount),
		Settled:        req.Settled,
		Locked:         req.Locked,
	}
}
