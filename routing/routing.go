// routing.go - the routing layer interface consumed by the client.
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

// Package routing defines the boundary between the client and the
// network: the set of sends the dispatcher can issue, and the event
// stream the client's event loop consumes in response.
package routing

import (
	"github.com/katzenpost/core/crypto/eddsa"

	"github.com/Fraser999/safe-core/types"
)

// ResponseKind tags the variant carried by a Response.
type ResponseKind uint8

const (
	GetSuccess ResponseKind = iota
	GetFailure
	PutSuccess
	PutFailure
	PostSuccess
	PostFailure
	DeleteSuccess
	DeleteFailure
	AppendSuccess
	AppendFailure
	GetAccountInfoSuccess
	GetAccountInfoFailure
)

// Response is a single answer to a previously-sent request, correlated by
// ID. Only the fields relevant to Kind are populated.
type Response struct {
	Kind ResponseKind
	ID   types.MessageID

	// GetSuccess.
	Data *types.Data

	// *Failure.
	DataID types.DataIdentifier
	ExtErr []byte

	// GetAccountInfoSuccess.
	Used, Available uint64
}

// EventKind tags the variant carried by an Event.
type EventKind uint8

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventTerminate
	EventResponse
	EventTopology
)

// Event is a value yielded on the channel Init returns. Only Response is
// populated when Kind == EventResponse.
type Event struct {
	Kind     EventKind
	Response Response
}

// Routing is the boundary the client dispatches requests through and
// receives responses from. A concrete implementation owns the network
// transport; Mock (in this package) is the in-memory test double used by
// this module's own tests.
type Routing interface {
	// Init brings the routing instance up and returns its event stream.
	// identity is nil for an unidentified (Unregistered or throw-away
	// Login-lookup) instance.
	Init(identity *eddsa.PrivateKey) (<-chan Event, error)

	SendGetRequest(dst types.Authority, dataID types.DataIdentifier, id types.MessageID) error
	SendPutRequest(dst types.Authority, data types.Data, id types.MessageID) error
	SendPostRequest(dst types.Authority, data types.Data, id types.MessageID) error
	SendDeleteRequest(dst types.Authority, data types.Data, id types.MessageID) error
	SendAppendRequest(dst types.Authority, wrapper types.AppendWrapper, id types.MessageID) error
	SendGetAccountInfoRequest(dst types.Authority, id types.MessageID) error

	// Shutdown releases the transport and closes the event channel.
	Shutdown()
}
