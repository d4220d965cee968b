// event.go - event loop payload types for the safe-core client.
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

// Package coreevent defines the values that flow out of the routing layer
// and through the client's single dispatcher goroutine.
package coreevent

import (
	"github.com/Fraser999/safe-core/types"
)

// Kind tags which verb a CoreEvent completes.
type Kind uint8

const (
	// KindGet completes a Get request.
	KindGet Kind = iota
	// KindMutation completes a Put/Post/Delete/Append request.
	KindMutation
	// KindAccountInfo completes a GetAccountInfo request.
	KindAccountInfo
)

// CoreEvent is the value a pending request's completion channel receives.
// Exactly one of GetResult/GetErr (KindGet), MutationErr (KindMutation) or
// Used/Available/AccountInfoErr (KindAccountInfo) is meaningful.
type CoreEvent struct {
	Kind Kind

	GetResult *types.Data
	GetErr    error

	MutationErr error

	Used, Available uint64
	AccountInfoErr  error
}

// Get builds a successful Get completion.
func Get(data *types.Data) CoreEvent {
	return CoreEvent{Kind: KindGet, GetResult: data}
}

// GetFailed builds a failed Get completion.
func GetFailed(err error) CoreEvent {
	return CoreEvent{Kind: KindGet, GetErr: err}
}

// Mutation builds a mutation completion; err is nil on success.
func Mutation(err error) CoreEvent {
	return CoreEvent{Kind: KindMutation, MutationErr: err}
}

// AccountInfo builds a successful GetAccountInfo completion.
func AccountInfo(used, available uint64) CoreEvent {
	return CoreEvent{Kind: KindAccountInfo, Used: used, Available: available}
}

// AccountInfoFailed builds a failed GetAccountInfo completion.
func AccountInfoFailed(err error) CoreEvent {
	return CoreEvent{Kind: KindAccountInfo, AccountInfoErr: err}
}

// NetworkEventKind tags connection-state transitions reported by routing
// outside of the request/response correlation table.
type NetworkEventKind uint8

const (
	// NetworkConnected reports that routing has bootstrapped and the
	// client may begin issuing requests.
	NetworkConnected NetworkEventKind = iota
	// NetworkDisconnected reports a lost connection; requests already in
	// flight will eventually fail with OperationAborted.
	NetworkDisconnected
	// NetworkRestarted reports routing coming back up after a restart.
	NetworkRestarted
)

// NetworkEvent is an out-of-band status update from the routing layer.
type NetworkEvent struct {
	Kind NetworkEventKind
}
