// secrets.go - locator/password expansion into (password, keyword, pin).
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

// Package account holds the bootstrap secrets Registered and Login
// derive from a locator/password pair, and the symmetric encryption of
// the Account value stored in the session packet.
package account

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"github.com/Fraser999/safe-core/types"
)

// Secrets is the deterministic expansion of a (locator, password) pair
// into the three byte strings the rest of bootstrap needs: password is
// fed into the key-stretching that derives the session packet's
// encryption key, keyword and pin together fix acc_loc, the packet's
// network address.
type Secrets struct {
	Password []byte
	Keyword  []byte
	Pin      []byte
}

// DeriveSecrets expands locator and password into Secrets via HKDF-SHA3-512
// (password as the HKDF secret, locator as the salt), reading three
// successive 32-byte outputs off the same expansion stream for password,
// keyword and pin in turn. The expansion is a pure function of its inputs:
// the same pair always yields the same Secrets, which is what lets Login
// recompute acc_loc and the packet key without storing either.
func DeriveSecrets(locator, password string) Secrets {
	r := hkdf.New(sha3.New512, []byte(password), []byte(locator), nil)
	s := Secrets{
		Password: make([]byte, 32),
		Keyword:  make([]byte, 32),
		Pin:      make([]byte, 32),
	}
	// None of these can fail: 96 bytes total is far under HKDF-SHA3-512's
	// 255*64 byte output limit, the only way ReadFull returns an error here.
	_, _ = io.ReadFull(r, s.Password)
	_, _ = io.ReadFull(r, s.Keyword)
	_, _ = io.ReadFull(r, s.Pin)
	return s
}

// AccLoc computes the session packet's network address, H(keyword, pin).
func AccLoc(keyword, pin []byte) types.XorName {
	h := sha256.New()
	h.Write(keyword)
	h.Write(pin)
	sum := h.Sum(nil)
	var name types.XorName
	copy(name[:], sum)
	return name
}

// ClientManagerAddr computes the client manager address for a maid
// signing public key, SHA256(pub_sign_key).
func ClientManagerAddr(pubSignKey []byte) types.XorName {
	sum := sha256.Sum256(pubSignKey)
	return types.XorName(sum)
}
