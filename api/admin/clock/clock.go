// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock exposes the solo manual clock so rental periods can be
// fast-forwarded without waiting on the wall clock.
package clock

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/api/utils"
	ledgerclock "github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/log"
)

// Request moves the clock. Exactly one of Advance and Set must be given.
type Request struct {
	Advance string  `json:"advance,omitempty"`
	Set     *uint64 `json:"set,omitempty"`
}

type Response struct {
	Now uint64 `json:"now"`
}

type Clock struct {
	clock *ledgerclock.Manual
}

func New(clk *ledgerclock.Manual) *Clock {
	return &Clock{clock: clk}
}

func (c *Clock) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("get-clock").
		HandlerFunc(utils.WrapHandlerFunc(c.getClock))

	sub.Path("").
		Methods(http.MethodPost).
		Name("post-clock").
		HandlerFunc(utils.WrapHandlerFunc(c.postClock))
}

func (c *Clock) getClock(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, Response{Now: c.clock.Now()})
}

func (c *Clock) postClock(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	switch {
	case req.Advance != "" && req.Set != nil:
		return utils.BadRequest(errors.New("advance and set are exclusive"))
	case req.Advance != "":
		d, err := time.ParseDuration(req.Advance)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "advance"))
		}
		if d < 0 {
			return utils.BadRequest(errors.New("advance: negative duration"))
		}
		if _, err := c.clock.Advance(d); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "advance"))
		}
	case req.Set != nil:
		if err := c.clock.Set(*req.Set); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "set"))
		}
	default:
		return utils.BadRequest(errors.New("advance or set required"))
	}

	now := c.clock.Now()
	log.Debug("clock moved", "pkg", "clock", "now", now)
	return utils.WriteJSON(w, Response{Now: now})
}
