// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/ledger"
)

// Account is the token position of an address plus its call nonce.
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	// Allowance granted to the escrow account.
	Allowance *math.HexOrDecimal256 `json:"allowance"`
	Nonce     uint64                `json:"nonce"`
}

type Accounts struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Accounts {
	return &Accounts{ledger}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddressVar(req, "address")
	if err != nil {
		return err
	}
	acc := &Account{}
	err = a.ledger.View(func(s *ledger.Snapshot) error {
		balance, err := s.Token.BalanceOf(addr)
		if err != nil {
			return err
		}
		allowance, err := s.Token.Allowance(addr, builtin.DeviceShare.Address)
		if err != nil {
			return err
		}
		nonce, err := s.Nonce(addr)
		if err != nil {
			return err
		}
		acc.Balance = (*math.HexOrDecimal256)(balance)
		acc.Allowance = (*math.HexOrDecimal256)(allowance)
		acc.Nonce = nonce
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
