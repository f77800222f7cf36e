// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MaxTime is the latest instant a manual clock accepts, 9999-12-31T23:59:59Z.
const MaxTime uint64 = 253402300799

var ErrOutOfRange = errors.New("clock: time beyond 9999-12-31")

// Clock supplies the current time in unix seconds.
type Clock interface {
	Now() uint64
}

// System is the wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is a clock moved by hand. Used by solo mode and tests.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

// NewManual creates a manual clock starting at now.
func NewManual(now uint64) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to now. Moving backwards is allowed here; the ledger clamps.
func (m *Manual) Set(now uint64) error {
	if now > MaxTime {
		return ErrOutOfRange
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return nil
}

// Advance moves the clock forward by d, truncated to seconds, and returns the new time.
// The clock is left untouched when the result would pass MaxTime.
func (m *Manual) Advance(d time.Duration) (uint64, error) {
	if d < 0 {
		return 0, errors.New("clock: negative advance")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	secs := uint64(d / time.Second)
	if secs > MaxTime || m.now > MaxTime-secs {
		return m.now, ErrOutOfRange
	}
	m.now += secs
	return m.now, nil
}
