// mock.go - an in-memory Routing implementation for tests.
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

package routing

import (
	"sync"

	"github.com/katzenpost/core/crypto/eddsa"

	"github.com/Fraser999/safe-core/constants"
	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/types"
)

// Mock is a single-process stand-in for a network of vaults: a plain map
// keyed by DataIdentifier, guarded by a mutex since Send* may be called
// from the client's driver goroutine while events are delivered on
// another. Responses are posted to the event channel from a short-lived
// goroutine per send, mirroring the teacher's pattern of turning a
// minclient callback into a posted workerOp rather than answering inline.
type Mock struct {
	mu    sync.Mutex
	store map[types.DataIdentifier]types.Data

	events   chan Event
	identity *eddsa.PrivateKey
	shutdown bool

	// FailSend, when non-nil, is consulted by every Send* call; a
	// non-nil return simulates a transport-level send error for that
	// verb.
	FailSend func(verb string) error

	accountUsed, accountAvailable uint64
}

// NewMock builds an empty Mock network.
func NewMock() *Mock {
	return &Mock{
		store:            make(map[types.DataIdentifier]types.Data),
		accountAvailable: 1 << 20,
	}
}

// Init satisfies Routing. The event channel receives EventConnected
// immediately; Mock never goes Disconnected on its own. Init may be
// called again after Shutdown, representing a new client session
// joining the same backing network (as Login's throw-away lookup
// client followed by its real client does).
func (m *Mock) Init(identity *eddsa.PrivateKey) (<-chan Event, error) {
	m.mu.Lock()
	m.identity = identity
	m.events = make(chan Event, 64)
	m.shutdown = false
	m.mu.Unlock()

	m.events <- Event{Kind: EventConnected}
	return m.events, nil
}

// Shutdown closes the event channel. Safe to call once.
func (m *Mock) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return
	}
	m.shutdown = true
	close(m.events)
}

func (m *Mock) post(ev Event) {
	m.mu.Lock()
	done := m.shutdown
	ch := m.events
	m.mu.Unlock()
	if done {
		return
	}
	go func() { ch <- ev }()
}

func (m *Mock) maybeFail(verb string) error {
	if m.FailSend == nil {
		return nil
	}
	return m.FailSend(verb)
}

// SendGetRequest satisfies Routing.
func (m *Mock) SendGetRequest(dst types.Authority, dataID types.DataIdentifier, id types.MessageID) error {
	if err := m.maybeFail("get"); err != nil {
		return err
	}
	m.mu.Lock()
	data, ok := m.store[dataID]
	m.mu.Unlock()

	if !ok {
		m.post(Event{Kind: EventResponse, Response: Response{
			Kind: GetFailure, ID: id, DataID: dataID,
			ExtErr: corerr.EncodeGetError(corerr.GetNoSuchData, ""),
		}})
		return nil
	}
	cp := data
	m.post(Event{Kind: EventResponse, Response: Response{Kind: GetSuccess, ID: id, Data: &cp}})
	return nil
}

// SendPutRequest satisfies Routing. Put to a fresh address always
// succeeds. Put to an occupied immutable address always fails with
// DataExists. Put to an occupied versioned address fails with
// InvalidSuccessor (AccountExists for a version 0 session packet),
// unless the new version is exactly one past what is already there —
// the shape a PutRecover tombstone reclaim produces — in which case it
// overwrites. DataExists and InvalidSuccessor are the two reasons
// PutRecover tolerates.
func (m *Mock) SendPutRequest(dst types.Authority, data types.Data, id types.MessageID) error {
	if err := m.maybeFail("put"); err != nil {
		return err
	}
	dataID := data.Identifier()
	m.mu.Lock()
	existing, exists := m.store[dataID]
	reclaim := exists && data.Kind != types.KindImmutable && data.Version == existing.Version+1
	if !exists || reclaim {
		m.store[dataID] = data
	}
	m.mu.Unlock()

	if exists && !reclaim {
		reason := corerr.MutationInvalidSuccessor
		switch {
		case data.Kind == types.KindImmutable:
			reason = corerr.MutationDataExists
		case data.Kind == types.KindStructured && data.TypeTag == constants.SessionPacketTypeTag && data.Version == 0:
			// An initial-version PUT to an occupied session packet address
			// is an account-creation collision, not an ordinary structured
			// write race.
			reason = corerr.MutationAccountExists
		}
		m.post(Event{Kind: EventResponse, Response: Response{
			Kind: PutFailure, ID: id, DataID: dataID,
			ExtErr: corerr.EncodeMutationError(reason, ""),
		}})
		return nil
	}
	m.post(Event{Kind: EventResponse, Response: Response{Kind: PutSuccess, ID: id}})
	return nil
}

// SendPostRequest satisfies Routing: requires an existing, version+1
// successor.
func (m *Mock) SendPostRequest(dst types.Authority, data types.Data, id types.MessageID) error {
	if err := m.maybeFail("post"); err != nil {
		return err
	}
	dataID := data.Identifier()
	m.mu.Lock()
	existing, ok := m.store[dataID]
	var reason corerr.MutationError
	failed := true
	switch {
	case !ok:
		reason = corerr.MutationNoSuchData
	case data.Version != existing.Version+1:
		reason = corerr.MutationInvalidSuccessor
	default:
		m.store[dataID] = data
		failed = false
	}
	m.mu.Unlock()

	if failed {
		m.post(Event{Kind: EventResponse, Response: Response{
			Kind: PostFailure, ID: id, DataID: dataID,
			ExtErr: corerr.EncodeMutationError(reason, ""),
		}})
		return nil
	}
	m.post(Event{Kind: EventResponse, Response: Response{Kind: PostSuccess, ID: id}})
	return nil
}

// SendDeleteRequest satisfies Routing: tombstones the entry (empty
// payload, version bumped) rather than removing it, so a subsequent Get
// can observe Data.IsDeleted().
func (m *Mock) SendDeleteRequest(dst types.Authority, data types.Data, id types.MessageID) error {
	if err := m.maybeFail("delete"); err != nil {
		return err
	}
	dataID := data.Identifier()
	m.mu.Lock()
	existing, ok := m.store[dataID]
	if ok {
		tombstone := existing
		tombstone.Payload = nil
		tombstone.Signature = nil
		tombstone.Version++
		m.store[dataID] = tombstone
	}
	m.mu.Unlock()

	if !ok {
		m.post(Event{Kind: EventResponse, Response: Response{
			Kind: DeleteFailure, ID: id, DataID: dataID,
			ExtErr: corerr.EncodeMutationError(corerr.MutationNoSuchData, ""),
		}})
		return nil
	}
	m.post(Event{Kind: EventResponse, Response: Response{Kind: DeleteSuccess, ID: id}})
	return nil
}

// SendAppendRequest satisfies Routing: concatenates Item onto the target
// appendable's Payload.
func (m *Mock) SendAppendRequest(dst types.Authority, wrapper types.AppendWrapper, id types.MessageID) error {
	if err := m.maybeFail("append"); err != nil {
		return err
	}
	dataID := types.DataIdentifier{Kind: wrapper.Kind, Name: wrapper.AppendTo}
	m.mu.Lock()
	existing, ok := m.store[dataID]
	if ok {
		existing.Payload = append(append([]byte{}, existing.Payload...), wrapper.Item...)
		m.store[dataID] = existing
	}
	m.mu.Unlock()

	if !ok {
		m.post(Event{Kind: EventResponse, Response: Response{
			Kind: AppendFailure, ID: id, DataID: dataID,
			ExtErr: corerr.EncodeMutationError(corerr.MutationNoSuchData, ""),
		}})
		return nil
	}
	m.post(Event{Kind: EventResponse, Response: Response{Kind: AppendSuccess, ID: id}})
	return nil
}

// SendGetAccountInfoRequest satisfies Routing.
func (m *Mock) SendGetAccountInfoRequest(dst types.Authority, id types.MessageID) error {
	if err := m.maybeFail("get_account_info"); err != nil {
		return err
	}
	m.mu.Lock()
	used, avail := m.accountUsed, m.accountAvailable
	m.mu.Unlock()
	m.post(Event{Kind: EventResponse, Response: Response{
		Kind: GetAccountInfoSuccess, ID: id, Used: used, Available: avail,
	}})
	return nil
}

// Put stores data directly, bypassing the Send protocol; used by tests to
// seed network state without a live client.
func (m *Mock) Put(data types.Data) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[data.Identifier()] = data
}

// Get reads the stored value directly; used by tests to assert on
// network-side effects of a client operation.
func (m *Mock) Get(id types.DataIdentifier) (types.Data, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	return d, ok
}
