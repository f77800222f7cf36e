// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Goes runs background routines sharing one cancellable context.
type Goes struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewGoes creates a Goes whose routines are cancelled with parent.
func NewGoes(parent context.Context) *Goes {
	ctx, cancel := context.WithCancel(parent)
	return &Goes{ctx: ctx, cancel: cancel}
}

// Go runs f in a go routine.
func (g *Goes) Go(f func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f(g.ctx)
	}()
}

// Stop cancels all routines and waits for them to return.
func (g *Goes) Stop() {
	g.cancel()
	g.wg.Wait()
}
