// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/ledger"
)

type Requests struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Requests {
	return &Requests{ledger}
}

func (r *Requests) handleGetRequest(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseIDVar(req, "id")
	if err != nil {
		return err
	}
	var res *Request
	err = r.ledger.View(func(s *ledger.Snapshot) error {
		found, err := s.DeviceShare.Requests(id)
		if err != nil {
			return err
		}
		res = convertRequest(found)
		return nil
	})
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, res)
}

func (r *Requests) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /requests/{id}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRequest))
}
