// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package share

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("provider"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x" + addr.String()[2:])
	assert.EqualError(t, err, "invalid prefix")
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("requestor"))
	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestBytes32(t *testing.T) {
	b := Blake2b([]byte("devshare"))
	assert.Equal(t, b, MustParseBytes32(b.String()))
	assert.Equal(t, b, Blake2b([]byte("dev"), []byte("share")))
	assert.NotEqual(t, b, Blake2b([]byte("device")))
	assert.False(t, b.IsZero())

	_, err := ParseBytes32("0x00")
	assert.Error(t, err)
}

func TestHoursToSeconds(t *testing.T) {
	assert.Equal(t, uint64(0), HoursToSeconds(0))
	assert.Equal(t, uint64(43200), HoursToSeconds(12))
	assert.Equal(t, "500000000000000000", DefaultFixedStake.String())
}
