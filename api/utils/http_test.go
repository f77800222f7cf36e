// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/builtin/deviceshare/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
		{"revert not found", LedgerError(reverts.New(reverts.NotFound, "device")), http.StatusNotFound},
		{"revert unauthorized", LedgerError(reverts.New(reverts.Unauthorized, "nope")), http.StatusForbidden},
		{"revert other", LedgerError(reverts.New(reverts.AlreadySettled, "twice")), http.StatusBadRequest},
		{"wrapped revert", LedgerError(errors.Wrap(reverts.New(reverts.InvalidState, "state"), "ctx")), http.StatusBadRequest},
		{"infrastructure", LedgerError(errors.New("disk")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestParseVars(t *testing.T) {
	router := mux.NewRouter()
	router.Path("/{id}/{address}").HandlerFunc(WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		if _, err := ParseIDVar(r, "id"); err != nil {
			return err
		}
		if _, err := ParseAddressVar(r, "address"); err != nil {
			return err
		}
		return WriteJSON(w, M{"ok": true})
	}))

	for _, tt := range []struct {
		path   string
		status int
	}{
		{"/1/0x0000000000000000000000000000000000000001", http.StatusOK},
		{"/0/0x0000000000000000000000000000000000000001", http.StatusBadRequest},
		{"/x/0x0000000000000000000000000000000000000001", http.StatusBadRequest},
		{"/1/0x01", http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
	}
}
