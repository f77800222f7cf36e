// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/devshare/cache"
	"github.com/vechain/devshare/kv"
	"github.com/vechain/devshare/share"
)

const (
	storageBucket = kv.Bucket("s")
	metaBucket    = kv.Bucket("m")
)

var rootKey = []byte("root")

// Stater is the state creator. It owns the committed storage and a read cache over it.
type Stater struct {
	store   kv.Store
	storage kv.Store
	meta    kv.Store
	cache   *cache.LRU
}

// NewStater create a new stater.
// cacheSize <= 0 disables the read cache.
func NewStater(store kv.Store, cacheSize int) *Stater {
	s := &Stater{
		store:   store,
		storage: storageBucket.NewStore(store),
		meta:    metaBucket.NewStore(store),
	}
	if cacheSize > 0 {
		s.cache, _ = cache.NewLRU(cacheSize)
	}
	return s
}

// NewState create a new state object on top of the latest committed root.
func (s *Stater) NewState() (*State, error) {
	root, err := s.Root()
	if err != nil {
		return nil, err
	}
	return newState(s, root), nil
}

// Root returns the latest committed root. Zero before the first commit.
func (s *Stater) Root() (share.Bytes32, error) {
	data, err := s.meta.Get(rootKey)
	if err != nil {
		if s.meta.IsNotFound(err) {
			return share.Bytes32{}, nil
		}
		return share.Bytes32{}, &Error{errors.Wrap(err, "load root")}
	}
	return share.BytesToBytes32(data), nil
}

func (s *Stater) load(key storageKey) (rlp.RawValue, error) {
	if s.cache == nil {
		return s.loadFromStore(key)
	}
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		return s.loadFromStore(key)
	})
	if err != nil {
		return nil, err
	}
	return v.(rlp.RawValue), nil
}

func (s *Stater) loadFromStore(key storageKey) (rlp.RawValue, error) {
	data, err := s.storage.Get(key.bytes())
	if err != nil {
		if s.storage.IsNotFound(err) {
			return rlp.RawValue(nil), nil
		}
		return nil, errors.Wrap(err, "load storage")
	}
	return data, nil
}
