// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/log"
)

var logger = log.WithContext("pkg", "calls")

type Calls struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Calls {
	return &Calls{ledger}
}

func (c *Calls) handleSendCall(w http.ResponseWriter, req *http.Request) error {
	var sc call.Call
	if err := utils.ParseJSON(req.Body, &sc); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	receipt, err := c.ledger.Apply(&sc)
	if err != nil {
		if !reverts.IsRevertErr(err) && !ledger.IsBadCall(err) {
			logger.Error("failed to apply call", "method", sc.Method(), "err", err)
		}
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, receipt)
}

func (c *Calls) handleGetMethods(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, ledger.Methods())
}

func (c *Calls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /calls").
		HandlerFunc(utils.WrapHandlerFunc(c.handleSendCall))
	sub.Path("/methods").
		Methods(http.MethodGet).
		Name("GET /calls/methods").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetMethods))
}
