// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
)

func M(a ...any) []any {
	return a
}

func TestStateReadWrite(t *testing.T) {
	db, _ := lvldb.NewMem()
	st, err := NewStater(db, 16).NewState()
	assert.Nil(t, err)

	addr := share.BytesToAddress([]byte("account1"))
	storageKey := share.BytesToBytes32([]byte("storageKey"))

	assert.Equal(t, M(share.Bytes32{}, nil), M(st.GetStorage(addr, storageKey)))

	// make storage dirty
	st.SetStorage(addr, storageKey, share.BytesToBytes32([]byte("storageValue")))
	assert.Equal(t, M(share.BytesToBytes32([]byte("storageValue")), nil), M(st.GetStorage(addr, storageKey)))

	st.SetStorage(addr, storageKey, share.Bytes32{})
	assert.Equal(t, M(rlp.RawValue(nil), nil), M(st.GetRawStorage(addr, storageKey)))
}

func TestStateRevert(t *testing.T) {
	db, _ := lvldb.NewMem()
	st, _ := NewStater(db, 0).NewState()

	addr := share.BytesToAddress([]byte("a1"))
	storageKey := share.BytesToBytes32([]byte("k"))

	values := []share.Bytes32{
		share.BytesToBytes32([]byte("v1")),
		share.BytesToBytes32([]byte("v2")),
		share.BytesToBytes32([]byte("v3")),
	}

	var revisions []int
	for _, v := range values {
		revisions = append(revisions, st.NewCheckpoint())
		st.SetStorage(addr, storageKey, v)
	}

	for i := len(revisions) - 1; i >= 0; i-- {
		st.RevertTo(revisions[i])
		if i > 0 {
			assert.Equal(t, M(values[i-1], nil), M(st.GetStorage(addr, storageKey)))
		} else {
			assert.Equal(t, M(share.Bytes32{}, nil), M(st.GetStorage(addr, storageKey)))
		}
	}
	assert.Equal(t, 0, st.Stage().Len(), "nothing left after full revert")
}

func TestStageCommit(t *testing.T) {
	db, _ := lvldb.NewMem()
	stater := NewStater(db, 16)

	addr := share.BytesToAddress([]byte("acc"))
	k1 := share.BytesToBytes32([]byte("k1"))
	k2 := share.BytesToBytes32([]byte("k2"))

	st, _ := stater.NewState()
	st.SetStorage(addr, k1, share.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, share.BytesToBytes32([]byte("v2")))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	root, err := stage.Commit()
	assert.Nil(t, err)
	assert.False(t, root.IsZero())
	assert.Equal(t, M(root, nil), M(stater.Root()))

	// a fresh state observes committed values
	st2, _ := stater.NewState()
	assert.Equal(t, root, st2.Root())
	assert.Equal(t, M(share.BytesToBytes32([]byte("v1")), nil), M(st2.GetStorage(addr, k1)))

	// deletion reaches the store as well
	st2.SetStorage(addr, k1, share.Bytes32{})
	root2, err := st2.Stage().Commit()
	assert.Nil(t, err)
	assert.NotEqual(t, root, root2)

	st3, _ := NewStater(db, 0).NewState()
	assert.Equal(t, M(share.Bytes32{}, nil), M(st3.GetStorage(addr, k1)))
	assert.Equal(t, M(share.BytesToBytes32([]byte("v2")), nil), M(st3.GetStorage(addr, k2)))

	// empty stage keeps the root
	st4, _ := stater.NewState()
	assert.Equal(t, M(root2, nil), M(st4.Stage().Commit()))
}

func TestEncodeDecodeStorage(t *testing.T) {
	db, _ := lvldb.NewMem()
	st, _ := NewStater(db, 0).NewState()

	addr := share.BytesToAddress([]byte("contract"))
	key := share.BytesToBytes32([]byte("key"))

	type record struct {
		Name  string
		Count uint64
	}
	assert.Nil(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&record{"dev", 7})
	}))

	var got record
	assert.Nil(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, record{"dev", 7}, got)

	err := st.DecodeStorage(addr, key, func(raw []byte) error {
		var n uint64
		return rlp.DecodeBytes(raw, &n)
	})
	assert.IsType(t, &Error{}, err)
}
