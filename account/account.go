// account.go - the per-user Account value held in the session packet.
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

package account

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/katzenpost/core/crypto/ecdh"
	"github.com/katzenpost/core/crypto/eddsa"
	"github.com/katzenpost/core/crypto/rand"

	"github.com/Fraser999/safe-core/types"
)

// RootDirHandle names a directory's data identifier and the symmetric key
// needed to decrypt it; zero value means "unset".
type RootDirHandle struct {
	ID  types.XorName
	Key [32]byte
	Set bool
}

// Account is the value serialized, encrypted and stored inside the
// session packet. It is the sole piece of durable per-user state: the
// maid keypair gives the client its network identity, the two root dir
// handles let the user's directory hierarchy be found again after Login.
type Account struct {
	MaidSignPublic  *eddsa.PublicKey
	MaidSignPrivate *eddsa.PrivateKey
	MaidBoxPublic   *ecdh.PublicKey
	MaidBoxPrivate  *ecdh.PrivateKey

	UserRootDir   RootDirHandle
	ConfigRootDir RootDirHandle
}

// New builds an empty Account with a freshly generated maid keypair, as
// Registered does for a brand new user.
func New() (*Account, error) {
	signPriv, err := eddsa.NewKeypair(rand.Reader)
	if err != nil {
		return nil, err
	}
	boxPriv, err := ecdh.NewKeypair(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Account{
		MaidSignPublic:  signPriv.PublicKey(),
		MaidSignPrivate: signPriv,
		MaidBoxPublic:   boxPriv.PublicKey(),
		MaidBoxPrivate:  boxPriv,
	}, nil
}

// cborAccount is the on-the-wire shape: eddsa/ecdh keys marshal through
// their own Bytes accessors rather than relying on CBOR struct tags
// reaching into unexported fields.
type cborAccount struct {
	MaidSignPublic  []byte
	MaidSignPrivate []byte
	MaidBoxPublic   []byte
	MaidBoxPrivate  []byte
	UserRootDir     RootDirHandle
	ConfigRootDir   RootDirHandle
}

// MarshalBinary serializes the Account with CBOR, matching the wire codec
// the rest of the client uses.
func (a *Account) MarshalBinary() ([]byte, error) {
	w := cborAccount{
		MaidSignPublic:  a.MaidSignPublic.Bytes(),
		MaidSignPrivate: a.MaidSignPrivate.Bytes(),
		MaidBoxPublic:   a.MaidBoxPublic.Bytes(),
		MaidBoxPrivate:  a.MaidBoxPrivate.Bytes(),
		UserRootDir:     a.UserRootDir,
		ConfigRootDir:   a.ConfigRootDir,
	}
	return cbor.Marshal(w)
}

// UnmarshalBinary deserializes the Account with CBOR.
func (a *Account) UnmarshalBinary(b []byte) error {
	w := cborAccount{}
	if err := cbor.Unmarshal(b, &w); err != nil {
		return err
	}
	signPriv := new(eddsa.PrivateKey)
	if err := signPriv.FromBytes(w.MaidSignPrivate); err != nil {
		return err
	}
	boxPriv := new(ecdh.PrivateKey)
	boxPriv.FromBytes(w.MaidBoxPrivate)

	a.MaidSignPrivate = signPriv
	a.MaidSignPublic = signPriv.PublicKey()
	a.MaidBoxPrivate = boxPriv
	a.MaidBoxPublic = boxPriv.PublicKey()
	a.UserRootDir = w.UserRootDir
	a.ConfigRootDir = w.ConfigRootDir
	return nil
}
