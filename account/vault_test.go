// vault_test.go - tests for account secrets derivation and vault sealing.
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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSecretsDeterministic(t *testing.T) {
	assert := assert.New(t)

	s1 := DeriveSecrets("alice", "hunter2hunter2")
	s2 := DeriveSecrets("alice", "hunter2hunter2")
	assert.Equal(s1.Password, s2.Password)
	assert.Equal(s1.Keyword, s2.Keyword)
	assert.Equal(s1.Pin, s2.Pin)
}

func TestDeriveSecretsDistinctOutputs(t *testing.T) {
	assert := assert.New(t)

	s := DeriveSecrets("alice", "hunter2hunter2")
	assert.NotEqual(s.Password, s.Keyword)
	assert.NotEqual(s.Password, s.Pin)
	assert.NotEqual(s.Keyword, s.Pin)
}

func TestDeriveSecretsSensitiveToInputs(t *testing.T) {
	assert := assert.New(t)

	s1 := DeriveSecrets("alice", "hunter2hunter2")
	s2 := DeriveSecrets("bob", "hunter2hunter2")
	assert.NotEqual(s1.Keyword, s2.Keyword)
}

func TestVaultEncryptDecrypt(t *testing.T) {
	assert := assert.New(t)

	secrets := DeriveSecrets("alice", "hunter2hunter2")
	plaintext := []byte("war is peace freedom is slavery ignorance is strength")

	sealed, err := Encrypt(plaintext, secrets.Password, secrets.Pin)
	assert.NoError(err, "Encrypt failed")

	opened, err := Decrypt(sealed, secrets.Password, secrets.Pin)
	assert.NoError(err, "Decrypt failed")
	assert.Equal(plaintext, opened)
}

func TestVaultDecryptWrongPinFails(t *testing.T) {
	assert := assert.New(t)

	secrets := DeriveSecrets("alice", "hunter2hunter2")
	other := DeriveSecrets("alice", "differentpassword")
	plaintext := []byte("secret account bytes")

	sealed, err := Encrypt(plaintext, secrets.Password, secrets.Pin)
	assert.NoError(err)

	_, err = Decrypt(sealed, other.Password, other.Pin)
	assert.Error(err, "decrypting under the wrong key should fail")
}

func TestAccountMarshalRoundTrip(t *testing.T) {
	assert := assert.New(t)

	acc, err := New()
	assert.NoError(err, "account creation failed")
	acc.UserRootDir = RootDirHandle{ID: [32]byte{1, 2, 3}, Key: [32]byte{4, 5, 6}, Set: true}

	raw, err := acc.MarshalBinary()
	assert.NoError(err, "marshal failed")

	decoded := &Account{}
	err = decoded.UnmarshalBinary(raw)
	assert.NoError(err, "unmarshal failed")
	assert.Equal(acc.UserRootDir, decoded.UserRootDir)
	assert.Equal(acc.MaidSignPublic.Bytes(), decoded.MaidSignPublic.Bytes())
	assert.Equal(acc.MaidBoxPublic.Bytes(), decoded.MaidBoxPublic.Bytes())
}
