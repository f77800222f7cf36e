// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requestors

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/ledger"
)

type Requestor struct {
	PaidTokensTotal *math.HexOrDecimal256 `json:"paidTokensTotal"`
	RequestCount    uint64                `json:"requestCount"`
}

type Requestors struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Requestors {
	return &Requestors{ledger}
}

func (r *Requestors) handleGetRequestor(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddressVar(req, "address")
	if err != nil {
		return err
	}
	var res *Requestor
	err = r.ledger.View(func(s *ledger.Snapshot) error {
		book, err := s.DeviceShare.Requestors(addr)
		if err != nil {
			return err
		}
		res = &Requestor{
			PaidTokensTotal: (*math.HexOrDecimal256)(book.PaidTokensTotal),
			RequestCount:    book.RequestCount,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (r *Requestors) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /requestors/{address}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRequestor))
}
