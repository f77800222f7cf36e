// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/devshare/share"
)

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// The slot of each entry is blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos share.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos share.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) share.Bytes32 {
	return share.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value stored for key. An absent entry yields the zero value of V,
// which is nil for pointer types.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		if reflect.TypeFor[V]().Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeFor[V]().Elem()).Interface().(V)
			return rlp.DecodeBytes(raw, value)
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores value for key. A nil pointer clears the entry.
func (m *Mapping[K, V]) Set(key K, value V) error {
	if v := reflect.ValueOf(value); !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		m.Delete(key)
		return nil
	}
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the entry of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
