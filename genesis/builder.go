// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/lvldb"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
	extraData  [28]byte
}

// Timestamp set the launch time.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ExtraData set extra data, which is mixed into the genesis ID.
func (b *Builder) ExtraData(data [28]byte) *Builder {
	b.extraData = data
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (share.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return share.Bytes32{}, err
	}
	defer db.Close()

	root, err := b.build(state.NewStater(db, 0), false)
	if err != nil {
		return share.Bytes32{}, err
	}
	return b.id(root), nil
}

// Build applies the state processes onto an empty stater and commits them.
func (b *Builder) Build(stater *state.Stater) (id share.Bytes32, err error) {
	root, err := b.build(stater, true)
	if err != nil {
		return share.Bytes32{}, err
	}
	return b.id(root), nil
}

func (b *Builder) build(stater *state.Stater, commit bool) (share.Bytes32, error) {
	st, err := stater.NewState()
	if err != nil {
		return share.Bytes32{}, err
	}
	if !st.Root().IsZero() {
		return share.Bytes32{}, errors.New("state not empty")
	}

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return share.Bytes32{}, errors.Wrap(err, "state process")
		}
	}

	stage := st.Stage()
	if !commit {
		return stage.Root(), nil
	}
	root, err := stage.Commit()
	if err != nil {
		return share.Bytes32{}, errors.Wrap(err, "commit state")
	}
	return root, nil
}

func (b *Builder) id(root share.Bytes32) share.Bytes32 {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], b.timestamp)
	return share.Blake2b(root[:], ts[:], b.extraData[:])
}
