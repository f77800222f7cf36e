// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package providers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/ledger"
)

type Provider struct {
	Stake         *math.HexOrDecimal256 `json:"stake"`
	Verified      bool                  `json:"verified"`
	Devices       uint32                `json:"devices"`
	ListedDevices uint32                `json:"listedDevices"`
	OpenRequests  uint32                `json:"openRequests"`
	Payable       *math.HexOrDecimal256 `json:"payable"`
}

type Providers struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Providers {
	return &Providers{ledger}
}

func (p *Providers) handleGetProvider(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddressVar(req, "address")
	if err != nil {
		return err
	}
	var res *Provider
	err = p.ledger.View(func(s *ledger.Snapshot) error {
		book, err := s.DeviceShare.Provider(addr)
		if err != nil {
			return err
		}
		res = &Provider{
			Stake:         (*math.HexOrDecimal256)(book.Stake),
			Verified:      book.Verified,
			Devices:       book.Devices,
			ListedDevices: book.ListedDevices,
			OpenRequests:  book.OpenRequests,
			Payable:       (*math.HexOrDecimal256)(book.Payable),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (p *Providers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /providers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetProvider))
}
