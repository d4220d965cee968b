// future.go - single-shot completion handles and the correlation table.
// Copyright (C) 2017  David Anthony Stainton.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package client

import (
	"context"
	"sync"

	"github.com/Fraser999/safe-core/coreevent"
	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/types"
)

// future is a single-consumer completion handle: it is written to exactly
// once, by the event loop or synchronously by the dispatcher on a cache
// hit or send error, and read exactly once by the caller awaiting it.
type future struct {
	ch chan coreevent.CoreEvent
}

func newFuture() *future {
	return &future{ch: make(chan coreevent.CoreEvent, 1)}
}

// complete fulfills the future. Buffered and non-blocking: a second write
// (which the correlation table's freshness guarantee should make
// impossible) is silently dropped rather than panicking.
func (f *future) complete(ev coreevent.CoreEvent) {
	select {
	case f.ch <- ev:
	default:
	}
}

// wait blocks until the future resolves or ctx is cancelled.
func (f *future) wait(ctx context.Context) (coreevent.CoreEvent, error) {
	select {
	case ev := <-f.ch:
		return ev, nil
	case <-ctx.Done():
		return coreevent.CoreEvent{}, corerr.ErrOperationAborted
	}
}

// GetFuture is returned by Get.
type GetFuture struct {
	f   *future
	ctx context.Context
}

// Result blocks for the GetSuccess/GetFailure completion and extracts the
// Data, failing ReceivedUnexpectedEvent if the completion was for the
// wrong verb.
func (g *GetFuture) Result() (*types.Data, error) {
	ev, err := g.f.wait(g.ctx)
	if err != nil {
		return nil, err
	}
	if ev.Kind != coreevent.KindGet {
		return nil, corerr.ErrReceivedUnexpectedEvent
	}
	if ev.GetErr != nil {
		return nil, ev.GetErr
	}
	return ev.GetResult, nil
}

// MutationFuture is returned by Put, Post, Delete and Append.
type MutationFuture struct {
	f   *future
	ctx context.Context
}

// Result blocks for the mutation's success/failure completion.
func (m *MutationFuture) Result() error {
	ev, err := m.f.wait(m.ctx)
	if err != nil {
		return err
	}
	if ev.Kind != coreevent.KindMutation {
		return corerr.ErrReceivedUnexpectedEvent
	}
	return ev.MutationErr
}

// AccountInfoFuture is returned by GetAccountInfo.
type AccountInfoFuture struct {
	f   *future
	ctx context.Context
}

// Result blocks for the account info response.
func (a *AccountInfoFuture) Result() (used, available uint64, err error) {
	ev, err := a.f.wait(a.ctx)
	if err != nil {
		return 0, 0, err
	}
	if ev.Kind != coreevent.KindAccountInfo {
		return 0, 0, corerr.ErrReceivedUnexpectedEvent
	}
	if ev.AccountInfoErr != nil {
		return 0, 0, ev.AccountInfoErr
	}
	return ev.Used, ev.Available, nil
}

// correlationTable maps in-flight MessageIds to the future completing
// them. Touched from both the driver goroutine (insert, on dispatch) and
// the event loop goroutine (remove, on response), so it is guarded by its
// own mutex rather than the single-goroutine convention most of Client
// follows.
type correlationTable struct {
	mu      sync.Mutex
	handles map[types.MessageID]*future
}

func newCorrelationTable() *correlationTable {
	return &correlationTable{handles: make(map[types.MessageID]*future)}
}

// insert registers f under id. Per the MessageId freshness rule this
// should never collide; a defensive implementation still only keeps the
// newer handle, leaving the old one to fail OperationAborted when its
// caller gives up waiting.
func (t *correlationTable) insert(id types.MessageID, f *future) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handles[id] = f
}

// remove pops the handle registered for id, if any.
func (t *correlationTable) remove(id types.MessageID) (*future, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.handles[id]
	if ok {
		delete(t.handles, id)
	}
	return f, ok
}
