// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package devices

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/devshare/api/utils"
	"github.com/vechain/devshare/ledger"
)

type Devices struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Devices {
	return &Devices{ledger}
}

func (d *Devices) handleGetDevices(w http.ResponseWriter, _ *http.Request) error {
	list := &DeviceList{
		Names:   []string{},
		Devices: []*Device{},
	}
	err := d.ledger.View(func(s *ledger.Snapshot) error {
		names, devices, err := s.DeviceShare.GetAllDevices()
		if err != nil {
			return err
		}
		list.Names = append(list.Names, names...)
		for _, dev := range devices {
			list.Devices = append(list.Devices, convertDevice(dev))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (d *Devices) handleGetDevice(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseIDVar(req, "id")
	if err != nil {
		return err
	}
	var dev *Device
	err = d.ledger.View(func(s *ledger.Snapshot) error {
		found, err := s.DeviceShare.Device(id)
		if err != nil {
			return err
		}
		dev = convertDevice(found)
		return nil
	})
	if err != nil {
		return utils.LedgerError(err)
	}
	return utils.WriteJSON(w, dev)
}

func (d *Devices) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /devices").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetDevices))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /devices/{id}").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetDevice))
}
