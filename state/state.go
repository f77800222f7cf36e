// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr share.Address
	key  share.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, share.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State is the storage of builtin contracts, addressed by (contract, slot).
// Changes are journaled, so that they can be reverted to any checkpoint,
// and only reach the underlying store through Stage.
type State struct {
	stater *Stater
	root   share.Bytes32
	sm     *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

func newState(stater *Stater, root share.Bytes32) *State {
	s := &State{stater: stater, root: root}
	s.sm = stackedmap.New(func(key storageKey) (rlp.RawValue, bool, error) {
		raw, err := stater.load(key)
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	})
	return s
}

// Root returns the root the state was created on.
func (s *State) Root() share.Bytes32 {
	return s.root
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr share.Address, key share.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr share.Address, key share.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr share.Address, key share.Bytes32) (share.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return share.Bytes32{}, err
	}
	if len(raw) == 0 {
		return share.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return share.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, the slot reads as its hash
		return share.Blake2b(raw), nil
	}
	return share.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr share.Address, key, value share.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr share.Address, key share.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr share.Address, key share.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object holding the latest value of every changed slot.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		changes[key] = value
		return true
	})
	return newStage(s.stater, s.root, changes)
}
