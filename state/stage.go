// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/devshare/share"
)

// Stage abstracts the changes of a state ready to be committed.
type Stage struct {
	stater  *Stater
	root    share.Bytes32
	keys    []storageKey
	changes map[storageKey]rlp.RawValue
}

func newStage(stater *Stater, parent share.Bytes32, changes map[storageKey]rlp.RawValue) *Stage {
	keys := make([]storageKey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].bytes(), keys[j].bytes()) < 0
	})

	root := parent
	if len(keys) > 0 {
		// chain the new root onto the parent over the sorted changes
		root = share.Blake2bFn(func(w io.Writer) {
			w.Write(parent[:])
			for _, k := range keys {
				w.Write(k.bytes())
				w.Write(changes[k])
			}
		})
	}
	return &Stage{stater: stater, root: root, keys: keys, changes: changes}
}

// Root returns the root the state will have once committed.
func (s *Stage) Root() share.Bytes32 {
	return s.root
}

// Len returns number of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes and the new root in one atomic bulk.
func (s *Stage) Commit() (share.Bytes32, error) {
	if len(s.keys) == 0 {
		return s.root, nil
	}

	bulk := s.stater.store.Bulk()
	storageBulk := storageBucket.NewPutter(bulk)
	for _, k := range s.keys {
		v := s.changes[k]
		if len(v) == 0 {
			if err := storageBulk.Delete(k.bytes()); err != nil {
				return share.Bytes32{}, &Error{err}
			}
		} else if err := storageBulk.Put(k.bytes(), v); err != nil {
			return share.Bytes32{}, &Error{err}
		}
	}
	if err := metaBucket.NewPutter(bulk).Put(rootKey, s.root[:]); err != nil {
		return share.Bytes32{}, &Error{err}
	}
	if err := bulk.Write(); err != nil {
		return share.Bytes32{}, &Error{err}
	}

	if c := s.stater.cache; c != nil {
		for _, k := range s.keys {
			c.Add(k, s.changes[k])
		}
	}
	return s.root, nil
}
