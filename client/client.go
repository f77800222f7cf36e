// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client signs and submits ledger calls and reads ledger state over the HTTP API.
package client

import (
	"crypto/ecdsa"
	"encoding/json"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/api/accounts"
	"github.com/vechain/devshare/api/devices"
	"github.com/vechain/devshare/api/ledgerinfo"
	"github.com/vechain/devshare/api/providers"
	"github.com/vechain/devshare/api/requestors"
	"github.com/vechain/devshare/api/requests"
	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/client/httpclient"
	"github.com/vechain/devshare/ledger"
	"github.com/vechain/devshare/share"
)

type Client struct {
	httpConn *httpclient.Client
	ledgerID atomic.Pointer[share.Bytes32]
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

// LedgerID returns the ledger identity. It is fetched once and cached.
func (c *Client) LedgerID() (share.Bytes32, error) {
	if id := c.ledgerID.Load(); id != nil {
		return *id, nil
	}
	info, err := c.httpConn.GetLedger()
	if err != nil {
		return share.Bytes32{}, err
	}
	c.ledgerID.Store(&info.ID)
	return info.ID, nil
}

func (c *Client) Ledger() (*ledgerinfo.Ledger, error) {
	return c.httpConn.GetLedger()
}

func (c *Client) Devices() (*devices.DeviceList, error) {
	return c.httpConn.GetDevices()
}

func (c *Client) Device(id uint64) (*devices.Device, error) {
	return c.httpConn.GetDevice(id)
}

func (c *Client) Request(id uint64) (*requests.Request, error) {
	return c.httpConn.GetRequest(id)
}

func (c *Client) Requestor(addr share.Address) (*requestors.Requestor, error) {
	return c.httpConn.GetRequestor(addr)
}

func (c *Client) Provider(addr share.Address) (*providers.Provider, error) {
	return c.httpConn.GetProvider(addr)
}

func (c *Client) Account(addr share.Address) (*accounts.Account, error) {
	return c.httpConn.GetAccount(addr)
}

func (c *Client) Methods() ([]string, error) {
	return c.httpConn.GetMethods()
}

// Send signs method with key using the next nonce of the key's address and submits it.
func (c *Client) Send(key *ecdsa.PrivateKey, method string, args any) (*httpclient.Receipt, error) {
	id, err := c.LedgerID()
	if err != nil {
		return nil, err
	}
	origin := share.Address(crypto.PubkeyToAddress(key.PublicKey))
	acc, err := c.httpConn.GetAccount(origin)
	if err != nil {
		return nil, err
	}

	sc, err := call.New(method, args, acc.Nonce+1)
	if err != nil {
		return nil, err
	}
	if sc, err = sc.Sign(id, key); err != nil {
		return nil, err
	}
	return c.httpConn.SendCall(sc)
}

// SendForID sends a call that creates a device or a request and returns the new ID.
func (c *Client) SendForID(key *ecdsa.PrivateKey, method string, args any) (uint64, error) {
	receipt, err := c.Send(key, method, args)
	if err != nil {
		return 0, err
	}
	var out ledger.IDOutput
	if err := json.Unmarshal(receipt.Output, &out); err != nil {
		return 0, errors.Wrapf(err, "decode %v output", method)
	}
	return out.ID, nil
}

// RawClient returns the underlying HTTP client.
func (c *Client) RawClient() *httpclient.Client {
	return c.httpConn
}
