// bootstrap.go - the three session bootstrap constructors.
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
	gocrypto "crypto"

	"github.com/Fraser999/safe-core/account"
	"github.com/Fraser999/safe-core/clock"
	"github.com/Fraser999/safe-core/config"
	"github.com/Fraser999/safe-core/constants"
	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/routing"
	"github.com/Fraser999/safe-core/types"
)

// Unregistered brings up a client with no identity: it may GET but any
// account-requiring operation fails OperationForbiddenForClient. Blocks
// until routing reports Connected or cfg's ConnectionTimeout elapses.
// clk is the timing source for that deadline; a nil clk uses the real
// system clock, a test may inject clock.New(clockwork.NewFakeClock()) to
// drive the timeout deterministically.
func Unregistered(ctx context.Context, cfg *config.Config, clk *clock.Clock, r routing.Routing) (*Client, error) {
	logBackend, err := defaultLogBackend()
	if err != nil {
		return nil, err
	}
	c := newClient(cfg, r, clk, logBackend)
	c.clientType = UnregisteredClient

	events, err := r.Init(nil)
	if err != nil {
		return nil, err
	}
	c.events = events

	c.log.Debugf("unregistered: awaiting connection")
	if err := c.awaitConnected(ctx); err != nil {
		return nil, err
	}
	c.Go(c.eventLoop)
	c.log.Debugf("unregistered: bootstrap complete")
	return c, nil
}

// Registered derives secrets from (locator, password), generates a fresh
// maid keypair, PUTs a freshly encrypted empty session packet, and
// returns a client able to mutate the network. A packet already present
// at acc_loc (AccountExists) is a mutation failure, not a bootstrap
// timeout. clk is the timing source for the connection deadline; a nil
// clk uses the real system clock. The session packet PUT's deadline
// (cfg's AccountPacketTimeout) runs on the real clock through ctx.
func Registered(ctx context.Context, locator, password string, cfg *config.Config, clk *clock.Clock, r routing.Routing) (*Client, error) {
	logBackend, err := defaultLogBackend()
	if err != nil {
		return nil, err
	}
	c := newClient(cfg, r, clk, logBackend)
	c.clientType = RegisteredClient
	c.log.Debugf("registered: deriving secrets for locator %q", locator)
	c.secrets = account.DeriveSecrets(locator, password)
	c.accLoc = account.AccLoc(c.secrets.Keyword, c.secrets.Pin)

	acc, err := account.New()
	if err != nil {
		return nil, err
	}
	c.account = acc
	c.cmAddr = types.ClientManager(account.ClientManagerAddr(acc.MaidSignPublic.Bytes()))
	c.log.Debugf("registered: generated maid keypair, client manager at %s", c.cmAddr)

	events, err := r.Init(acc.MaidSignPrivate)
	if err != nil {
		return nil, err
	}
	c.events = events
	c.log.Debugf("registered: awaiting connection")
	if err := c.awaitConnected(ctx); err != nil {
		return nil, err
	}
	c.Go(c.eventLoop)

	packet, err := c.buildSessionPacket(0, nil)
	if err != nil {
		return nil, err
	}

	putCtx, cancel := context.WithTimeout(ctx, c.cfg.AccountPacketTimeout())
	defer cancel()
	c.log.Debugf("registered: putting initial session packet at %s", c.accLoc)
	f := c.Put(putCtx, *packet, nil)
	if err := f.Result(); err != nil {
		if mf, ok := err.(*corerr.MutationFailure); ok && mf.Reason == corerr.MutationAccountExists {
			c.log.Errorf("registered: session packet already exists at %s", c.accLoc)
			return nil, &corerr.MutationFailure{DataID: packet.Identifier(), Reason: corerr.MutationAccountExists}
		}
		c.log.Errorf("registered: session packet put aborted: %v", err)
		return nil, corerr.ErrOperationAborted
	}
	c.log.Debugf("registered: bootstrap complete")
	return c, nil
}

// Login derives secrets from (locator, password), fetches the session
// packet over a throw-away unidentified routing instance, decrypts it
// under (password, pin) to recover the Account, then brings up a second,
// identified routing instance for ongoing use. clk is the timing source
// for both the lookup and the final client's connection deadlines; a nil
// clk uses the real system clock. The session packet GET's deadline
// (cfg's AccountPacketTimeout) runs on the real clock through ctx.
func Login(ctx context.Context, locator, password string, cfg *config.Config, clk *clock.Clock, newRouting func() routing.Routing) (*Client, error) {
	logBackend, err := defaultLogBackend()
	if err != nil {
		return nil, err
	}

	secrets := account.DeriveSecrets(locator, password)
	accLoc := account.AccLoc(secrets.Keyword, secrets.Pin)

	lookup := newRouting()
	lookupClient := newClient(cfg, lookup, clk, logBackend)
	lookupEvents, err := lookup.Init(nil)
	if err != nil {
		return nil, err
	}
	lookupClient.events = lookupEvents
	lookupClient.log.Debugf("login: lookup client awaiting connection")
	if err := lookupClient.awaitConnected(ctx); err != nil {
		return nil, err
	}
	lookupClient.Go(lookupClient.eventLoop)

	dst := types.NaeManager(accLoc)
	dataID := types.Structured(accLoc, constants.SessionPacketTypeTag)
	getCtx, cancel := context.WithTimeout(ctx, lookupClient.cfg.AccountPacketTimeout())
	defer cancel()
	lookupClient.log.Debugf("login: fetching session packet at %s", accLoc)
	packetData, err := lookupClient.Get(getCtx, dataID, &dst).Result()
	lookupClient.Shutdown()
	if err != nil {
		lookupClient.log.Errorf("login: session packet fetch failed: %v", err)
		return nil, err
	}

	plaintext, err := account.Decrypt(packetData.Payload, secrets.Password, secrets.Pin)
	if err != nil {
		return nil, err
	}
	acc := &account.Account{}
	if err := acc.UnmarshalBinary(plaintext); err != nil {
		return nil, err
	}

	r := newRouting()
	c := newClient(cfg, r, clk, logBackend)
	c.clientType = RegisteredClient
	c.log.Debugf("login: recovered account for locator %q", locator)
	c.secrets = secrets
	c.accLoc = accLoc
	c.account = acc
	c.cmAddr = types.ClientManager(account.ClientManagerAddr(acc.MaidSignPublic.Bytes()))

	events, err := r.Init(acc.MaidSignPrivate)
	if err != nil {
		return nil, err
	}
	c.events = events
	c.log.Debugf("login: identified client awaiting connection")
	if err := c.awaitConnected(ctx); err != nil {
		return nil, err
	}
	c.Go(c.eventLoop)
	c.log.Debugf("login: bootstrap complete")
	return c, nil
}

// awaitConnected blocks until routing reports Connected, ctx is
// cancelled, or cfg's ConnectionTimeout elapses.
func (c *Client) awaitConnected(ctx context.Context) error {
	deadline := c.clock.After(c.cfg.ConnectionTimeout())
	for {
		select {
		case <-ctx.Done():
			c.log.Errorf("await_connected: aborted, context cancelled")
			return corerr.ErrOperationAborted
		case <-deadline:
			c.log.Errorf("await_connected: aborted, connection timeout elapsed")
			return corerr.ErrOperationAborted
		case ev, ok := <-c.events:
			if !ok {
				c.log.Errorf("await_connected: aborted, event stream closed")
				return corerr.ErrOperationAborted
			}
			if ev.Kind == routing.EventConnected {
				return nil
			}
		}
	}
}

// buildSessionPacket encrypts the client's current in-memory Account
// under (password, pin) and wraps it as a Structured data item signed by
// the maid secret signing key. Both callers, Registered's initial PUT and
// UpdateSessionPacket's POST, pass nil prevOwners.
func (c *Client) buildSessionPacket(version uint64, prevOwners [][]byte) (*types.Data, error) {
	plaintext, err := c.account.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ciphertext, err := account.Encrypt(plaintext, c.secrets.Password, c.secrets.Pin)
	if err != nil {
		return nil, err
	}

	packet := &types.Data{
		Kind:          types.KindStructured,
		Name:          c.accLoc,
		TypeTag:       constants.SessionPacketTypeTag,
		Version:       version,
		OwnerKeys:     [][]byte{c.account.MaidSignPublic.Bytes()},
		PrevOwnerKeys: prevOwners,
		Payload:       ciphertext,
	}
	sig, err := c.signPacket(packet)
	if err != nil {
		return nil, err
	}
	packet.Signature = sig
	return packet, nil
}

func (c *Client) signPacket(packet *types.Data) ([]byte, error) {
	msg, err := packet.SigningBytes()
	if err != nil {
		return nil, err
	}
	return c.account.MaidSignPrivate.Sign(nil, msg, gocrypto.Hash(0))
}
