// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package call

import (
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/share"
)

// Call is an immutable, signed invocation of a ledger method.
type Call struct {
	body body

	cache struct {
		id     atomic.Pointer[share.Bytes32]
		origin atomic.Pointer[originCache]
	}
}

type originCache struct {
	ledgerID share.Bytes32
	origin   share.Address
}

type body struct {
	Method    string
	Args      []byte
	Nonce     uint64
	Signature []byte
}

// New creates an unsigned call. args are JSON encoded.
func New(method string, args any, nonce uint64) (*Call, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(err, "encode args")
	}
	return &Call{body: body{
		Method: method,
		Args:   raw,
		Nonce:  nonce,
	}}, nil
}

// Method returns the invoked method name.
func (c *Call) Method() string {
	return c.body.Method
}

// Args returns the raw JSON args.
func (c *Call) Args() json.RawMessage {
	return append(json.RawMessage(nil), c.body.Args...)
}

// Nonce returns the nonce. It must exceed the last nonce accepted from the origin.
func (c *Call) Nonce() uint64 {
	return c.body.Nonce
}

// Signature returns a copy of the signature.
func (c *Call) Signature() []byte {
	return append([]byte(nil), c.body.Signature...)
}

// SigningHash returns the hash to be signed. Calls are bound to one ledger.
func (c *Call) SigningHash(ledgerID share.Bytes32) share.Bytes32 {
	return share.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			ledgerID,
			c.body.Method,
			c.body.Nonce,
			c.body.Args,
		})
	})
}

// ID returns the hash of the whole call including the signature.
func (c *Call) ID() share.Bytes32 {
	if cached := c.cache.id.Load(); cached != nil {
		return *cached
	}
	id := share.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &c.body)
	})
	c.cache.id.Store(&id)
	return id
}

// WithSignature returns a copy of the call carrying sig.
func (c *Call) WithSignature(sig []byte) *Call {
	newCall := Call{body: c.body}
	newCall.body.Args = append([]byte(nil), c.body.Args...)
	newCall.body.Signature = append([]byte(nil), sig...)
	return &newCall
}

// Sign signs the call for the given ledger.
func (c *Call) Sign(ledgerID share.Bytes32, key *ecdsa.PrivateKey) (*Call, error) {
	hash := c.SigningHash(ledgerID)
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return c.WithSignature(sig), nil
}

// Origin recovers the signer.
func (c *Call) Origin(ledgerID share.Bytes32) (share.Address, error) {
	if cached := c.cache.origin.Load(); cached != nil && cached.ledgerID == ledgerID {
		return cached.origin, nil
	}
	if len(c.body.Signature) != crypto.SignatureLength {
		return share.Address{}, errors.New("invalid signature length")
	}
	hash := c.SigningHash(ledgerID)
	pub, err := crypto.SigToPub(hash[:], c.body.Signature)
	if err != nil {
		return share.Address{}, errors.Wrap(err, "recover origin")
	}
	origin := share.Address(crypto.PubkeyToAddress(*pub))
	c.cache.origin.Store(&originCache{ledgerID, origin})
	return origin, nil
}

// JSONCall is the wire form of a call.
type JSONCall struct {
	Method    string          `json:"method"`
	Args      json.RawMessage `json:"args"`
	Nonce     uint64          `json:"nonce"`
	Signature hexutil.Bytes   `json:"signature"`
}

// MarshalJSON implements json.Marshaler.
func (c *Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(&JSONCall{
		Method:    c.body.Method,
		Args:      c.body.Args,
		Nonce:     c.body.Nonce,
		Signature: c.body.Signature,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Call) UnmarshalJSON(data []byte) error {
	var jc JSONCall
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}
	if jc.Method == "" {
		return errors.New("missing method")
	}
	args := []byte(jc.Args)
	if len(args) == 0 {
		args = []byte("null")
	}
	*c = Call{body: body{
		Method:    jc.Method,
		Args:      args,
		Nonce:     jc.Nonce,
		Signature: jc.Signature,
	}}
	return nil
}
