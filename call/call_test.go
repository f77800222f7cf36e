// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package call

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/test/datagen"
)

type listArgs struct {
	DeviceID uint64 `json:"deviceId"`
}

func TestSignAndRecover(t *testing.T) {
	key, addr := datagen.RandKey()
	ledgerID := datagen.RandomHash()

	c, err := New("listDevice", &listArgs{DeviceID: 1}, 7)
	require.NoError(t, err)
	assert.Equal(t, `{"deviceId":1}`, string(c.Args()))

	_, err = c.Origin(ledgerID)
	assert.Error(t, err, "unsigned")

	signed, err := c.Sign(ledgerID, key)
	require.NoError(t, err)
	assert.Empty(t, c.Signature())

	origin, err := signed.Origin(ledgerID)
	require.NoError(t, err)
	assert.Equal(t, addr, origin)

	// a different ledger recovers a different origin
	other, err := signed.Origin(datagen.RandomHash())
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)

	assert.NotEqual(t, c.ID(), signed.ID())
}

func TestSigningHash(t *testing.T) {
	var ledgerID share.Bytes32
	a, _ := New("approve", map[string]any{"amount": "1"}, 1)
	b, _ := New("approve", map[string]any{"amount": "1"}, 2)
	c, _ := New("transfer", map[string]any{"amount": "1"}, 1)

	assert.NotEqual(t, a.SigningHash(ledgerID), b.SigningHash(ledgerID))
	assert.NotEqual(t, a.SigningHash(ledgerID), c.SigningHash(ledgerID))
	assert.Equal(t, a.SigningHash(ledgerID), a.WithSignature([]byte{1}).SigningHash(ledgerID))
}

func TestJSON(t *testing.T) {
	key, addr := datagen.RandKey()
	ledgerID := datagen.RandomHash()

	c, err := New("cancelRequest", &struct {
		RequestID uint64 `json:"requestId"`
	}{3}, 10)
	require.NoError(t, err)
	c, err = c.Sign(ledgerID, key)
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Call
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.ID(), decoded.ID())
	assert.Equal(t, "cancelRequest", decoded.Method())
	assert.Equal(t, uint64(10), decoded.Nonce())

	origin, err := decoded.Origin(ledgerID)
	require.NoError(t, err)
	assert.Equal(t, addr, origin)

	assert.Error(t, json.Unmarshal([]byte(`{"nonce":1}`), &decoded))
}
