// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package device

import (
	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin/solidity"
	"github.com/vechain/devshare/share"
)

// index is a doubly linked list of device ids kept in ascending order.
// Zero marks the absence of a link, device ids start at 1.
type index struct {
	head  *solidity.Raw[uint64]
	tail  *solidity.Raw[uint64]
	count *solidity.Raw[uint64]
	next  *solidity.Mapping[solidity.Uint64Key, uint64]
	prev  *solidity.Mapping[solidity.Uint64Key, uint64]
}

func newIndex(sctx *solidity.Context, headPos, tailPos, countPos share.Bytes32) *index {
	return &index{
		head:  solidity.NewRaw[uint64](sctx, headPos),
		tail:  solidity.NewRaw[uint64](sctx, tailPos),
		count: solidity.NewRaw[uint64](sctx, countPos),
		next:  solidity.NewMapping[solidity.Uint64Key, uint64](sctx, headPos),
		prev:  solidity.NewMapping[solidity.Uint64Key, uint64](sctx, tailPos),
	}
}

func (l *index) Len() (uint64, error) {
	return l.count.Get()
}

func (l *index) contains(id uint64) (bool, error) {
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	if head == id {
		return true, nil
	}
	prev, err := l.prev.Get(solidity.Uint64Key(id))
	if err != nil {
		return false, err
	}
	return prev != 0, nil
}

func (l *index) link(prev, id, next uint64) error {
	if prev == 0 {
		if err := l.head.Set(id); err != nil {
			return err
		}
	} else if err := l.next.Set(solidity.Uint64Key(prev), id); err != nil {
		return err
	}
	if next == 0 {
		if err := l.tail.Set(id); err != nil {
			return err
		}
	} else if err := l.prev.Set(solidity.Uint64Key(next), id); err != nil {
		return err
	}
	if err := l.next.Set(solidity.Uint64Key(id), next); err != nil {
		return err
	}
	return l.prev.Set(solidity.Uint64Key(id), prev)
}

// Insert adds id keeping the ascending order. Inserting a present id is a no-op.
func (l *index) Insert(id uint64) error {
	if id == 0 {
		return errors.New("zero id")
	}
	ok, err := l.contains(id)
	if err != nil || ok {
		return err
	}

	tail, err := l.tail.Get()
	if err != nil {
		return err
	}

	var prev, next uint64
	if tail == 0 || tail < id {
		// ids mostly arrive in order, append
		prev = tail
	} else {
		cur, err := l.head.Get()
		if err != nil {
			return err
		}
		for cur != 0 && cur < id {
			prev = cur
			if cur, err = l.next.Get(solidity.Uint64Key(cur)); err != nil {
				return err
			}
		}
		next = cur
	}

	if err := l.link(prev, id, next); err != nil {
		return err
	}
	n, err := l.count.Get()
	if err != nil {
		return err
	}
	return l.count.Set(n + 1)
}

// Remove drops id from the list. Removing an absent id is a no-op.
func (l *index) Remove(id uint64) error {
	if id == 0 {
		return nil
	}
	ok, err := l.contains(id)
	if err != nil || !ok {
		return err
	}
	prev, err := l.prev.Get(solidity.Uint64Key(id))
	if err != nil {
		return err
	}
	next, err := l.next.Get(solidity.Uint64Key(id))
	if err != nil {
		return err
	}

	if prev == 0 {
		if err := l.head.Set(next); err != nil {
			return err
		}
	} else if err := l.next.Set(solidity.Uint64Key(prev), next); err != nil {
		return err
	}
	if next == 0 {
		if err := l.tail.Set(prev); err != nil {
			return err
		}
	} else if err := l.prev.Set(solidity.Uint64Key(next), prev); err != nil {
		return err
	}
	l.next.Delete(solidity.Uint64Key(id))
	l.prev.Delete(solidity.Uint64Key(id))

	n, err := l.count.Get()
	if err != nil {
		return err
	}
	return l.count.Set(n - 1)
}

// Iter traverses ids in ascending order until callback returns an error.
func (l *index) Iter(callback func(id uint64) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}
	for ptr != 0 {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr, err = l.next.Get(solidity.Uint64Key(ptr)); err != nil {
			return err
		}
	}
	return nil
}
