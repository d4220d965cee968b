// client.go - safe-core client.
// Copyright (C) 2017  David Anthony Stainton, Yawning Angel.
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

// Package client implements a self-authenticating client for a
// content-addressed, mutation-recoverable network: session bootstrap
// (Unregistered, Registered, Login), request dispatch with response
// correlation, a read-through immutable data cache, and the recovery
// protocols that reconcile optimistic mutations against concurrent
// writers.
package client

import (
	"fmt"

	"github.com/katzenpost/core/log"
	"github.com/katzenpost/core/worker"
	logging "gopkg.in/op/go-logging.v1"

	"github.com/Fraser999/safe-core/account"
	"github.com/Fraser999/safe-core/cache"
	"github.com/Fraser999/safe-core/clock"
	"github.com/Fraser999/safe-core/config"
	"github.com/Fraser999/safe-core/coreevent"
	"github.com/Fraser999/safe-core/routing"
	"github.com/Fraser999/safe-core/types"
)

// ClientType tags which of the three bootstrap constructors produced a
// Client, mirroring the distinction the dispatcher enforces for
// account-requiring operations.
type ClientType uint8

const (
	// UnregisteredClient clients may only GET.
	UnregisteredClient ClientType = iota
	// RegisteredClient clients have a full account and may mutate.
	RegisteredClient
)

// Client is a self-authenticating storage client instance. It is owned by
// a single logical driver goroutine: every exported method except
// Shutdown must be called from that goroutine. The correlation table and
// the cache, which the event loop goroutine also touches, carry their own
// locks.
type Client struct {
	worker.Worker

	cfg   *config.Config
	clock *clock.Clock

	logBackend *log.Backend
	log        *logging.Logger

	routing routing.Routing
	events  <-chan routing.Event

	clientType ClientType
	account    *account.Account
	secrets    account.Secrets
	accLoc     types.XorName
	cmAddr     types.Authority

	cache *cache.Cache
	table *correlationTable
	stats Stats

	fatalErrCh chan error

	// NetworkEvents carries connection-state notifications translated from
	// routing events (Connected and topology as NetworkConnected,
	// Disconnected as NetworkDisconnected, Terminate as NetworkRestarted),
	// for the host application to watch.
	NetworkEvents chan coreevent.NetworkEvent
}

func newClient(cfg *config.Config, r routing.Routing, clk *clock.Clock, logBackend *log.Backend) *Client {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if clk == nil {
		clk = clock.Real()
	}
	c := &Client{
		cfg:           cfg,
		clock:         clk,
		logBackend:    logBackend,
		log:           logBackend.GetLogger("client"),
		routing:       r,
		cache:         cache.New(cfg.ImmutableCacheCapacity()),
		table:         newCorrelationTable(),
		fatalErrCh:    make(chan error, 1),
		NetworkEvents: make(chan coreevent.NetworkEvent, 16),
	}
	return c
}

// IsRegistered reports whether this client holds an account and may
// mutate the network.
func (c *Client) IsRegistered() bool {
	return c.clientType == RegisteredClient
}

// Shutdown releases the routing instance, halts the event loop goroutine
// and waits for it to exit. Requests still pending in the correlation
// table are not completed: a caller waiting on one of their futures
// returns only when its own context ends, with OperationAborted.
func (c *Client) Shutdown() {
	c.routing.Shutdown()
	c.Halt()
}

func defaultLogBackend() (*log.Backend, error) {
	backend, err := log.New("", "NOTICE", false)
	if err != nil {
		return nil, fmt.Errorf("client: failed to initialize logging: %v", err)
	}
	return backend, nil
}
