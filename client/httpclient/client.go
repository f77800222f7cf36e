// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client for the device share ledger API.
// It maps every REST resource to a typed method.
package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/vechain/devshare/api/accounts"
	"github.com/vechain/devshare/api/devices"
	"github.com/vechain/devshare/api/ledgerinfo"
	"github.com/vechain/devshare/api/providers"
	"github.com/vechain/devshare/api/requestors"
	"github.com/vechain/devshare/api/requests"
	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/share"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// Receipt mirrors the receipt returned by POST /calls. Output is kept raw since its
// shape depends on the method.
type Receipt struct {
	CallID    share.Bytes32   `json:"callId"`
	Origin    share.Address   `json:"origin"`
	Method    string          `json:"method"`
	Time      uint64          `json:"time"`
	Output    json.RawMessage `json:"output,omitempty"`
	StateRoot share.Bytes32   `json:"stateRoot"`
}

// Client represents the HTTP client for interacting with the ledger API.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// GetLedger retrieves the ledger identity, parameters and audit.
func (c *Client) GetLedger() (*ledgerinfo.Ledger, error) {
	var res ledgerinfo.Ledger
	if err := c.getJSON("/ledger", &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve ledger - %w", err)
	}
	return &res, nil
}

// GetDevices retrieves the listed devices.
func (c *Client) GetDevices() (*devices.DeviceList, error) {
	var res devices.DeviceList
	if err := c.getJSON("/devices", &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve devices - %w", err)
	}
	return &res, nil
}

// GetDevice retrieves a device by ID, listed or not.
func (c *Client) GetDevice(id uint64) (*devices.Device, error) {
	var res devices.Device
	if err := c.getJSON("/devices/"+strconv.FormatUint(id, 10), &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve device - %w", err)
	}
	return &res, nil
}

// GetRequest retrieves a request by ID.
func (c *Client) GetRequest(id uint64) (*requests.Request, error) {
	var res requests.Request
	if err := c.getJSON("/requests/"+strconv.FormatUint(id, 10), &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve request - %w", err)
	}
	return &res, nil
}

// GetRequestor retrieves the settlement totals of a requestor.
func (c *Client) GetRequestor(addr share.Address) (*requestors.Requestor, error) {
	var res requestors.Requestor
	if err := c.getJSON("/requestors/"+addr.String(), &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve requestor - %w", err)
	}
	return &res, nil
}

// GetProvider retrieves the stake and earnings of a provider.
func (c *Client) GetProvider(addr share.Address) (*providers.Provider, error) {
	var res providers.Provider
	if err := c.getJSON("/providers/"+addr.String(), &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve provider - %w", err)
	}
	return &res, nil
}

// GetAccount retrieves the token balance, escrow allowance and nonce of an address.
func (c *Client) GetAccount(addr share.Address) (*accounts.Account, error) {
	var res accounts.Account
	if err := c.getJSON("/accounts/"+addr.String(), &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}
	return &res, nil
}

// GetMethods retrieves the names of the callable methods.
func (c *Client) GetMethods() ([]string, error) {
	var res []string
	if err := c.getJSON("/calls/methods", &res); err != nil {
		return nil, fmt.Errorf("unable to retrieve methods - %w", err)
	}
	return res, nil
}

// SendCall submits a signed call.
func (c *Client) SendCall(sc *call.Call) (*Receipt, error) {
	body, err := c.httpPOST(c.url+"/calls", sc)
	if err != nil {
		return nil, fmt.Errorf("unable to send call - %w", err)
	}

	var receipt Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}
	return &receipt, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified URL with the provided data.
func (c *Client) RawHTTPPost(url string, calldata any) ([]byte, int, error) {
	data, ok := calldata.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(calldata); err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}
	return c.rawHTTPRequest(http.MethodPost, c.url+url, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified URL.
func (c *Client) RawHTTPGet(url string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+url, nil)
}

func (c *Client) getJSON(path string, v any) error {
	body, err := c.httpGET(c.url + path)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewBuffer(data))
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	body, statusCode, err := c.rawHTTPRequest(method, url, payload)
	if err != nil {
		return nil, err
	}
	switch statusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s - %w", bytes.TrimSpace(body), ErrNotFound)
	default:
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", statusCode, bytes.TrimSpace(body), ErrNot200Status)
	}
}

func (c *Client) rawHTTPRequest(method, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response body: %w", err)
	}
	return responseBody, resp.StatusCode, nil
}
