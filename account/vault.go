// vault.go - symmetric encryption of the Account, keyed by (password, pin).
//
// Ported from the mixnet client's on-disk crypto vault: same argon2
// key-stretching and NaCl SecretBox construction, but operating on an
// in-memory byte slice rather than a PEM file, since the ciphertext here
// is a Structured data payload rather than something written to disk.
//
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
	"crypto/rand"
	"errors"

	"github.com/magical/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	secretboxNonceSize = 24
	stretchedKeyLen    = 32

	// argon2 cost parameters, unchanged from the mixnet client's vault.
	argon2Parallelism = 2
	argon2MemoryKiB   = int64(1 << 16)
	argon2Iterations  = 32
)

// stretchKey derives a 32 byte SecretBox key from the packet password and
// pin, using pin as the argon2 salt. Both are already fixed-length outputs
// of DeriveSecrets, so unlike the file vault's stretch() there is no
// passphrase-length precondition to enforce here.
func stretchKey(password, pin []byte) ([32]byte, error) {
	var key [32]byte
	out, err := argon2.Key(password, pin, argon2Iterations, argon2Parallelism, argon2MemoryKiB, stretchedKeyLen)
	if err != nil {
		return key, err
	}
	copy(key[:], out)
	return key, nil
}

// Encrypt seals plaintext (a CBOR-serialized Account) under a key derived
// from password and pin, returning nonce||ciphertext.
func Encrypt(plaintext, password, pin []byte) ([]byte, error) {
	key, err := stretchKey(password, pin)
	if err != nil {
		return nil, err
	}
	var nonce [secretboxNonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	sealed := secretbox.Seal(nil, plaintext, &nonce, &key)
	out := make([]byte, secretboxNonceSize+len(sealed))
	copy(out, nonce[:])
	copy(out[secretboxNonceSize:], sealed)
	return out, nil
}

// Decrypt opens a payload produced by Encrypt under the same password/pin.
func Decrypt(sealed, password, pin []byte) ([]byte, error) {
	if len(sealed) < secretboxNonceSize {
		return nil, errors.New("account: sealed payload too short")
	}
	key, err := stretchKey(password, pin)
	if err != nil {
		return nil, err
	}
	var nonce [secretboxNonceSize]byte
	copy(nonce[:], sealed[:secretboxNonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[secretboxNonceSize:], &nonce, &key)
	if !ok {
		return nil, errors.New("account: secretbox authentication failed")
	}
	return plaintext, nil
}
