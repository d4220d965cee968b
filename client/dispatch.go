// dispatch.go - the request dispatcher: Get, Put, Post, Delete, Append,
// GetAccountInfo.
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

	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/coreevent"
	"github.com/Fraser999/safe-core/types"
)

// Get fetches the data named by dataID. dst overrides the default
// destination (NaeManager(dataID.Name)) when non-nil. Immutable lookups
// are served from the local cache when present, without a network round
// trip.
func (c *Client) Get(ctx context.Context, dataID types.DataIdentifier, dst *types.Authority) *GetFuture {
	if dataID.Kind == types.KindImmutable {
		if cached, ok := c.cache.Get(dataID.Name); ok {
			c.log.Debugf("get: cache hit for %s", dataID.Name)
			f := newFuture()
			f.complete(coreevent.Get(&cached))
			return &GetFuture{f: f, ctx: ctx}
		}
		c.log.Debugf("get: cache miss for %s", dataID.Name)
	}

	id, f, err := c.newPending()
	if err != nil {
		f.complete(coreevent.GetFailed(err))
		return &GetFuture{f: f, ctx: ctx}
	}
	dest := types.NaeManager(dataID.Name)
	if dst != nil {
		dest = *dst
	}

	c.stats.IssuedGets++
	c.log.Debugf("get: dispatching %s as %s", dataID.Name, id)
	if err := c.routing.SendGetRequest(dest, dataID, id); err != nil {
		f.complete(coreevent.GetFailed(err))
		return &GetFuture{f: f, ctx: ctx}
	}
	c.table.insert(id, f)
	return &GetFuture{f: f, ctx: ctx}
}

// Put stores data at its own address. dst overrides the default
// destination (the client manager address, requiring Registered) when
// non-nil.
func (c *Client) Put(ctx context.Context, data types.Data, dst *types.Authority) *MutationFuture {
	id, f, err := c.newPending()
	if err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	dest, err := c.accountScopedDestination(dst)
	if err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}

	c.stats.IssuedPuts++
	c.log.Debugf("put: dispatching %s as %s", data.Name, id)
	if err := c.routing.SendPutRequest(dest, data, id); err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	c.table.insert(id, f)
	return &MutationFuture{f: f, ctx: ctx}
}

// Post updates an existing data item in place. dst overrides the default
// destination (NaeManager(data.Name)) when non-nil.
func (c *Client) Post(ctx context.Context, data types.Data, dst *types.Authority) *MutationFuture {
	id, f, err := c.newPending()
	if err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	dest := types.NaeManager(data.Name)
	if dst != nil {
		dest = *dst
	}

	c.stats.IssuedPosts++
	c.log.Debugf("post: dispatching %s as %s", data.Name, id)
	if err := c.routing.SendPostRequest(dest, data, id); err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	c.table.insert(id, f)
	return &MutationFuture{f: f, ctx: ctx}
}

// Delete removes an existing data item. dst overrides the default
// destination (NaeManager(data.Name)) when non-nil.
func (c *Client) Delete(ctx context.Context, data types.Data, dst *types.Authority) *MutationFuture {
	id, f, err := c.newPending()
	if err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	dest := types.NaeManager(data.Name)
	if dst != nil {
		dest = *dst
	}

	c.stats.IssuedDeletes++
	c.log.Debugf("delete: dispatching %s as %s", data.Name, id)
	if err := c.routing.SendDeleteRequest(dest, data, id); err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	c.table.insert(id, f)
	return &MutationFuture{f: f, ctx: ctx}
}

// Append appends an item to an existing appendable data structure. dst
// overrides the default destination (NaeManager(wrapper.AppendTo)) when
// non-nil.
func (c *Client) Append(ctx context.Context, wrapper types.AppendWrapper, dst *types.Authority) *MutationFuture {
	id, f, err := c.newPending()
	if err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	dest := types.NaeManager(wrapper.AppendTo)
	if dst != nil {
		dest = *dst
	}

	c.stats.IssuedAppends++
	c.log.Debugf("append: dispatching to %s as %s", wrapper.AppendTo, id)
	if err := c.routing.SendAppendRequest(dest, wrapper, id); err != nil {
		f.complete(coreevent.Mutation(err))
		return &MutationFuture{f: f, ctx: ctx}
	}
	c.table.insert(id, f)
	return &MutationFuture{f: f, ctx: ctx}
}

// GetAccountInfo reports the caller's used/available storage mutations.
// dst overrides the default destination (the client manager address,
// requiring Registered) when non-nil.
func (c *Client) GetAccountInfo(ctx context.Context, dst *types.Authority) *AccountInfoFuture {
	id, f, err := c.newPending()
	if err != nil {
		f.complete(coreevent.AccountInfoFailed(err))
		return &AccountInfoFuture{f: f, ctx: ctx}
	}
	dest, err := c.accountScopedDestination(dst)
	if err != nil {
		f.complete(coreevent.AccountInfoFailed(err))
		return &AccountInfoFuture{f: f, ctx: ctx}
	}

	c.log.Debugf("get_account_info: dispatching as %s", id)
	if err := c.routing.SendGetAccountInfoRequest(dest, id); err != nil {
		f.complete(coreevent.AccountInfoFailed(err))
		return &AccountInfoFuture{f: f, ctx: ctx}
	}
	c.table.insert(id, f)
	return &AccountInfoFuture{f: f, ctx: ctx}
}

// newPending draws a fresh MessageId and builds its completion handle. A
// CSPRNG failure here is unrecoverable for this call but not for the
// client; it is surfaced through the returned future rather than a panic.
func (c *Client) newPending() (types.MessageID, *future, error) {
	id, err := types.NewMessageID()
	return id, newFuture(), err
}

// accountScopedDestination resolves dst for Put and GetAccountInfo: the
// client manager address for a Registered client, or dst itself when the
// caller supplied one explicitly. Unregistered clients may not default to
// the client manager address.
func (c *Client) accountScopedDestination(dst *types.Authority) (types.Authority, error) {
	if dst != nil {
		return *dst, nil
	}
	if !c.IsRegistered() {
		return types.Authority{}, corerr.ErrOperationForbiddenForClient
	}
	return c.cmAddr, nil
}
