// eventloop.go - the client's dedicated event-loop goroutine.
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
	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/coreevent"
	"github.com/Fraser999/safe-core/routing"
	"github.com/Fraser999/safe-core/types"
)

// eventLoop runs for the lifetime of the Client on its own goroutine
// (started via c.Go in the bootstrap constructors), consuming routing's
// event stream until it closes. It is the sole writer of the correlation
// table's completions and the cache's inserts; both carry their own
// locking so this never contends with the dispatcher's reads.
func (c *Client) eventLoop() {
	defer c.log.Debugf("event loop terminated")
	for {
		select {
		case <-c.HaltCh():
			return
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			c.handleEvent(ev)
		}
	}
}

func (c *Client) handleEvent(ev routing.Event) {
	switch ev.Kind {
	case routing.EventConnected:
		c.forwardNetworkEvent(coreevent.NetworkConnected)
	case routing.EventDisconnected:
		c.forwardNetworkEvent(coreevent.NetworkDisconnected)
	case routing.EventTerminate:
		c.forwardNetworkEvent(coreevent.NetworkRestarted)
	case routing.EventTopology:
		// No topology-specific state kept client-side; forwarded as a
		// connectivity nudge so the host can react if it wants to.
		c.forwardNetworkEvent(coreevent.NetworkConnected)
	case routing.EventResponse:
		c.handleResponse(ev.Response)
	}
}

func (c *Client) forwardNetworkEvent(kind coreevent.NetworkEventKind) {
	select {
	case c.NetworkEvents <- coreevent.NetworkEvent{Kind: kind}:
	default:
		c.log.Debugf("dropping network event, host is not draining NetworkEvents")
	}
}

func (c *Client) handleResponse(resp routing.Response) {
	f, ok := c.table.remove(resp.ID)
	if !ok {
		c.log.Debugf("dropping response for unknown message id %s", resp.ID)
		return
	}

	switch resp.Kind {
	case routing.GetSuccess:
		if resp.Data != nil && resp.Data.Kind == types.KindImmutable {
			c.cache.Insert(resp.Data.Name, *resp.Data)
		}
		f.complete(coreevent.Get(resp.Data))
	case routing.GetFailure:
		reason := corerr.ParseGetError(resp.ExtErr)
		c.log.Errorf("get %s failed: %v", resp.ID, reason)
		f.complete(coreevent.GetFailed(&corerr.GetFailure{DataID: resp.DataID, Reason: reason}))

	case routing.PutSuccess, routing.PostSuccess, routing.DeleteSuccess, routing.AppendSuccess:
		f.complete(coreevent.Mutation(nil))
	case routing.PutFailure, routing.PostFailure, routing.DeleteFailure, routing.AppendFailure:
		reason := corerr.ParseMutationError(resp.ExtErr)
		c.log.Errorf("mutation %s failed: %v", resp.ID, reason)
		f.complete(coreevent.Mutation(&corerr.MutationFailure{DataID: resp.DataID, Reason: reason}))

	case routing.GetAccountInfoSuccess:
		f.complete(coreevent.AccountInfo(resp.Used, resp.Available))
	case routing.GetAccountInfoFailure:
		reason := corerr.ParseMutationError(resp.ExtErr)
		c.log.Errorf("get_account_info %s failed: %v", resp.ID, reason)
		f.complete(coreevent.AccountInfoFailed(&corerr.MutationFailure{Reason: reason}))
	}
}
