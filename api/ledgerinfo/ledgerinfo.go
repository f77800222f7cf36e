// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledgerinfo

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/share"
)

type Params struct {
	Token      share.Address         `json:"token"`
	FixedStake *math.HexOrDecimal256 `json:"fixedStake"`
	Admin      share.Address         `json:"admin"`
}

// Audit compares the escrow balance with the pools it backs.
type Audit struct {
	Balance  *math.HexOrDecimal256 `json:"balance"`
	Staked   *math.HexOrDecimal256 `json:"staked"`
	Locked   *math.HexOrDecimal256 `json:"locked"`
	Payable  *math.HexOrDecimal256 `json:"payable"`
	Balanced bool                  `json:"balanced"`
}

type Ledger struct {
	ID           share.Bytes32 `json:"id"`
	StateRoot    share.Bytes32 `json:"stateRoot"`
	LastTime     uint64        `json:"lastTime"`
	CallCount    uint64        `json:"callCount"`
	DeviceCount  uint64        `json:"deviceCount"`
	RequestCount uint64        `json:"requestCount"`
	Params       *Params       `json:"params"`
	Audit        *Audit        `json:"audit"`
}

type LedgerInfo struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *LedgerInfo {
	return &LedgerInfo{ledger}
}

func (li *LedgerInfo) handleGetLedger(w http.ResponseWriter, _ *http.Request) error {
	res := &Ledger{ID: li.ledger.ID()}
	err := li.ledger.View(func(s *ledger.Snapshot) (err error) {
		res.StateRoot = s.Root
		if res.LastTime, err = s.LastTime(); err != nil {
			return
		}
		if res.CallCount, err = s.CallCount(); err != nil {
			return
		}
		if res.DeviceCount, err = s.DeviceShare.DeviceCount(); err != nil {
			return
		}
		if res.RequestCount, err = s.DeviceShare.RequestCount(); err != nil {
			return
		}

		params, err := s.DeviceShare.Params()
		if err != nil {
			return err
		}
		owner, err := s.DeviceShare.Owner()
		if err != nil {
			return err
		}
		res.Params = &Params{
			Token:      params.Token,
			FixedStake: (*math.HexOrDecimal256)(params.FixedStake),
			Admin:      owner,
		}

		report, err := s.DeviceShare.Audit()
		if err != nil {
			return err
		}
		res.Audit = &Audit{
			Balance:  (*math.HexOrDecimal256)(report.Balance),
			Staked:   (*math.HexOrDecimal256)(report.Totals.Staked),
			Locked:   (*math.HexOrDecimal256)(report.Totals.Locked),
			Payable:  (*math.HexOrDecimal256)(report.Totals.Payable),
			Balanced: report.Balanced(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (li *LedgerInfo) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /ledger").
		HandlerFunc(utils.WrapHandlerFunc(li.handleGetLedger))
}
