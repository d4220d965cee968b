// types.go - core data model for the safe-core client.
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

// Package types holds the identifiers and data variants shared between the
// client, the routing layer and the wire codec.
package types

import (
	"encoding/hex"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/katzenpost/core/crypto/rand"

	"github.com/Fraser999/safe-core/constants"
)

// XorName is a 32 byte opaque network address.
type XorName [constants.XorNameLength]byte

// String returns the hex encoding of the name, for logging.
func (n XorName) String() string {
	return hex.EncodeToString(n[:])
}

// MessageID is the sole correlation key between a dispatched request and its
// eventual response. Freshly drawn from a CSPRNG for every request.
type MessageID [constants.MessageIDLength]byte

// String returns the hex encoding of the id, for logging.
func (id MessageID) String() string {
	return hex.EncodeToString(id[:])
}

// NewMessageID draws a fresh, unguessable MessageID.
func NewMessageID() (MessageID, error) {
	id := MessageID{}
	if _, err := io.ReadFull(rand.Reader, id[:]); err != nil {
		return id, err
	}
	return id, nil
}

// AuthorityKind tags the destination role a request is addressed to.
type AuthorityKind uint8

const (
	// AuthorityClientManager addresses the authority that owns a client's
	// account-scoped state.
	AuthorityClientManager AuthorityKind = iota
	// AuthorityNaeManager addresses the authority that owns a given
	// network name's data.
	AuthorityNaeManager
)

// Authority names a destination for a routing send.
type Authority struct {
	Kind AuthorityKind
	Name XorName
}

// ClientManager builds a ClientManager authority for name.
func ClientManager(name XorName) Authority {
	return Authority{Kind: AuthorityClientManager, Name: name}
}

// NaeManager builds a NaeManager authority for name.
func NaeManager(name XorName) Authority {
	return Authority{Kind: AuthorityNaeManager, Name: name}
}

// DataKind tags the variant carried by a DataIdentifier or Data value.
type DataKind uint8

const (
	// KindImmutable is content-addressed, unversioned data.
	KindImmutable DataKind = iota
	// KindStructured is versioned, owner-signed data tagged with a type.
	KindStructured
	// KindPrivAppendable is a private append-only data structure.
	KindPrivAppendable
	// KindPubAppendable is a public append-only data structure.
	KindPubAppendable
)

// DataIdentifier names a piece of Data without carrying its payload.
type DataIdentifier struct {
	Kind     DataKind
	Name     XorName
	TypeTag  uint64 // only meaningful for KindStructured
}

// Immutable builds an identifier for immutable data.
func Immutable(name XorName) DataIdentifier {
	return DataIdentifier{Kind: KindImmutable, Name: name}
}

// Structured builds an identifier for structured data.
func Structured(name XorName, typeTag uint64) DataIdentifier {
	return DataIdentifier{Kind: KindStructured, Name: name, TypeTag: typeTag}
}

// PrivAppendable builds an identifier for private appendable data.
func PrivAppendable(name XorName) DataIdentifier {
	return DataIdentifier{Kind: KindPrivAppendable, Name: name}
}

// PubAppendable builds an identifier for public appendable data.
func PubAppendable(name XorName) DataIdentifier {
	return DataIdentifier{Kind: KindPubAppendable, Name: name}
}

// Data is the tagged union of everything the network stores.
//
// Structured and the two appendable kinds carry version/owner metadata;
// Immutable carries only its content-addressed Value.
type Data struct {
	Kind DataKind
	Name XorName

	// Immutable payload.
	Value []byte

	// Structured / appendable fields.
	TypeTag        uint64
	Version        uint64
	OwnerKeys      [][]byte
	PrevOwnerKeys  [][]byte
	Payload        []byte
	Signature      []byte
}

// Identifier returns the DataIdentifier naming this Data.
func (d *Data) Identifier() DataIdentifier {
	return DataIdentifier{Kind: d.Kind, Name: d.Name, TypeTag: d.TypeTag}
}

// IsDeleted reports whether a structured datum has been tombstoned: an
// empty payload left behind by a delete, reclaimable by the original owner.
func (d *Data) IsDeleted() bool {
	return d.Kind != KindImmutable && len(d.Payload) == 0
}

// MarshalBinary implements encoding.BinaryMarshaler using CBOR, matching
// the wire codec the rest of the client uses for structured payloads.
func (d *Data) MarshalBinary() ([]byte, error) {
	// plain has Data's fields but not its methods, so the codec encodes
	// the struct instead of calling back into MarshalBinary.
	type plain Data
	return cbor.Marshal((*plain)(d))
}

// signingView is the subset of Data the maid signing key signs over:
// everything except the signature itself.
type signingView struct {
	Kind          DataKind
	Name          XorName
	Value         []byte
	TypeTag       uint64
	Version       uint64
	OwnerKeys     [][]byte
	PrevOwnerKeys [][]byte
	Payload       []byte
}

// SigningBytes returns the canonical byte representation a Structured or
// appendable Data's Signature is computed over.
func (d *Data) SigningBytes() ([]byte, error) {
	v := signingView{
		Kind:          d.Kind,
		Name:          d.Name,
		Value:         d.Value,
		TypeTag:       d.TypeTag,
		Version:       d.Version,
		OwnerKeys:     d.OwnerKeys,
		PrevOwnerKeys: d.PrevOwnerKeys,
		Payload:       d.Payload,
	}
	return cbor.Marshal(v)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using CBOR.
func (d *Data) UnmarshalBinary(b []byte) error {
	type plain Data
	return cbor.Unmarshal(b, (*plain)(d))
}

// AppendWrapper is the payload of an Append request: the appended item plus
// the address of the appendable data structure being appended to.
type AppendWrapper struct {
	AppendTo XorName
	Kind     DataKind
	Item     []byte
}
