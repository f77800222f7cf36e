// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/devshare/builtin"
	"github.com/vechain/devshare/builtin/deviceshare"
	"github.com/vechain/devshare/builtin/deviceshare/reverts"
	"github.com/vechain/devshare/builtin/token"
	"github.com/vechain/devshare/call"
	"github.com/vechain/devshare/clock"
	"github.com/vechain/devshare/co"
	"github.com/vechain/devshare/genesis"
	"github.com/vechain/devshare/log"
	"github.com/vechain/devshare/metrics"
	"github.com/vechain/devshare/share"
	"github.com/vechain/devshare/state"
)

var (
	logger = log.WithContext("pkg", "ledger")

	metricCallCount    = metrics.LazyLoadCounterVec("ledger_calls_count", []string{"method", "status"})
	metricCallDuration = metrics.LazyLoadHistogramVec(
		"ledger_call_duration_ms", []string{"method"}, metrics.BucketLedgerCalls,
	)
)

// Ledger is the single writer of the marketplace state.
// Calls are serialized; each one either commits entirely or leaves no trace.
type Ledger struct {
	mu      sync.RWMutex
	id      share.Bytes32
	stater  *state.Stater
	clock   clock.Clock
	auth    deviceshare.Authorizer
	commits co.Signal
}

// New opens the ledger on stater, writing the genesis state when stater is empty.
func New(stater *state.Stater, gene *genesis.Genesis, clk clock.Clock) (*Ledger, error) {
	root, err := stater.Root()
	if err != nil {
		return nil, err
	}

	if root.IsZero() {
		id, err := gene.Build(stater)
		if err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		st, err := stater.NewState()
		if err != nil {
			return nil, err
		}
		m := newMeta(st)
		if err := m.genesisID.Set(id); err != nil {
			return nil, err
		}
		if err := m.lastTime.Set(gene.LaunchTime()); err != nil {
			return nil, err
		}
		if _, err := st.Stage().Commit(); err != nil {
			return nil, errors.Wrap(err, "commit ledger meta")
		}
		logger.Info("genesis initialized", "name", gene.Name(), "id", id)
	} else {
		st, err := stater.NewState()
		if err != nil {
			return nil, err
		}
		stored, err := newMeta(st).genesisID.Get()
		if err != nil {
			return nil, err
		}
		if stored.IsZero() {
			return nil, errors.New("incomplete genesis state, the database needs to be rebuilt")
		}
		if stored != gene.ID() {
			return nil, errors.Errorf("genesis mismatch: database %v, expected %v", stored, gene.ID())
		}
	}

	return &Ledger{
		id:     gene.ID(),
		stater: stater,
		clock:  clk,
		auth:   gene.Authorizer(),
	}, nil
}

// ID returns the ledger ID that calls are signed against.
func (l *Ledger) ID() share.Bytes32 {
	return l.id
}

// Authorizer returns the administrator policy.
func (l *Ledger) Authorizer() deviceshare.Authorizer {
	return l.auth
}

// NewCommitWaiter returns a waiter woken by the next commit.
func (l *Ledger) NewCommitWaiter() co.Waiter {
	return l.commits.NewWaiter()
}

// Apply verifies and executes a signed call.
func (l *Ledger) Apply(c *call.Call) (*Receipt, error) {
	origin, err := c.Origin(l.id)
	if err != nil {
		return nil, badCall("%v", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	nonce := c.Nonce()
	return l.execute(origin, c.Method(), c.Args(), &nonce, c.ID())
}

// Invoke executes a method on behalf of origin without signature or nonce checks.
// It serves trusted in-process callers such as solo mode tooling and tests.
func (l *Ledger) Invoke(origin share.Address, method string, args any) (*Receipt, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, badCall("encode args: %v", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.execute(origin, method, raw, nil, share.Bytes32{})
}

func (l *Ledger) execute(origin share.Address, name string, args json.RawMessage, nonce *uint64, callID share.Bytes32) (receipt *Receipt, err error) {
	start := time.Now()
	defer func() {
		label := name
		if _, ok := methods[name]; !ok {
			label = "unknown"
		}
		status := "ok"
		switch {
		case err == nil:
		case reverts.IsRevertErr(err):
			status = "revert"
		case IsBadCall(err):
			status = "bad_call"
		default:
			status = "error"
		}
		metricCallCount().AddWithLabel(1, map[string]string{"method": label, "status": status})
		metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"method": label})
	}()

	m, ok := methods[name]
	if !ok {
		return nil, badCall("unknown method %q", name)
	}
	decoded, err := m.decode(args)
	if err != nil {
		return nil, badCall("%s: %v", name, err)
	}

	st, err := l.stater.NewState()
	if err != nil {
		return nil, err
	}
	meta := newMeta(st)

	if nonce != nil {
		last, err := meta.nonces.Get(origin)
		if err != nil {
			return nil, err
		}
		if *nonce <= last {
			return nil, badCall("nonce too low: %d, last accepted %d", *nonce, last)
		}
	}

	now, err := meta.clamp(l.clock.Now())
	if err != nil {
		return nil, err
	}

	e := &env{
		origin: origin,
		now:    now,
		auth:   l.auth,
		ds:     builtin.DeviceShare.WithState(st, l.auth),
		token:  builtin.Token.WithState(st),
	}

	checkpoint := st.NewCheckpoint()
	output, err := m.run(e, decoded)
	if err != nil {
		st.RevertTo(checkpoint)
		if reverts.IsRevertErr(err) {
			logger.Debug("call reverted", "method", name, "origin", origin, "err", err)
		} else {
			logger.Warn("call failed", "method", name, "origin", origin, "err", err)
		}
		return nil, err
	}

	if nonce != nil {
		if err := meta.nonces.Set(origin, *nonce); err != nil {
			return nil, err
		}
	}
	if err := meta.lastTime.Set(now); err != nil {
		return nil, err
	}
	if err := meta.incCallCount(); err != nil {
		return nil, err
	}

	root, err := st.Stage().Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	l.commits.Broadcast()

	logger.Debug("call applied", "method", name, "origin", origin, "root", root)
	return &Receipt{
		CallID:    callID,
		Origin:    origin,
		Method:    name,
		Time:      now,
		Output:    output,
		StateRoot: root,
	}, nil
}

// Snapshot is a read-only view on committed state.
type Snapshot struct {
	DeviceShare *deviceshare.DeviceShare
	Token       *token.Token
	Root        share.Bytes32

	meta *meta
}

// Nonce returns the last nonce accepted from addr.
func (s *Snapshot) Nonce(addr share.Address) (uint64, error) {
	return s.meta.nonces.Get(addr)
}

// LastTime returns the time of the last applied call.
func (s *Snapshot) LastTime() (uint64, error) {
	return s.meta.lastTime.Get()
}

// CallCount returns the number of applied calls.
func (s *Snapshot) CallCount() (uint64, error) {
	return s.meta.callCount.Get()
}

// View runs fn on a snapshot of committed state. Writes made by fn are discarded.
func (l *Ledger) View(fn func(s *Snapshot) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, err := l.stater.NewState()
	if err != nil {
		return err
	}
	return fn(&Snapshot{
		DeviceShare: builtin.DeviceShare.WithState(st, l.auth),
		Token:       builtin.Token.WithState(st),
		Root:        st.Root(),
		meta:        newMeta(st),
	})
}
