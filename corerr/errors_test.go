// errors_test.go - tests for the CoreError taxonomy.
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

package corerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Fraser999/safe-core/types"
)

func TestMutationFailureIsMatchesOnReasonOnly(t *testing.T) {
	assert := assert.New(t)

	dataID := types.Structured(types.XorName{0x01}, 7)
	err := &MutationFailure{DataID: dataID, Reason: MutationInvalidSuccessor}

	assert.True(errors.Is(err, &MutationFailure{Reason: MutationInvalidSuccessor}))
	assert.False(errors.Is(err, &MutationFailure{Reason: MutationDataExists}))
}

func TestGetFailureIsMatchesOnReasonOnly(t *testing.T) {
	assert := assert.New(t)

	err := &GetFailure{DataID: types.Immutable(types.XorName{0x02}), Reason: GetNoSuchData}

	assert.True(errors.Is(err, &GetFailure{Reason: GetNoSuchData}))
	assert.False(errors.Is(err, &GetFailure{Reason: GetNoSuchAccount}))
}

func TestEncodeParseMutationErrorRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, reason := range []MutationError{
		MutationNoSuchData, MutationNoSuchAccount, MutationAccountExists,
		MutationDataExists, MutationDataTooLarge, MutationInvalidSuccessor,
		MutationInvalidOperation, MutationLowBalance, MutationNetworkFull,
	} {
		got := ParseMutationError(EncodeMutationError(reason, ""))
		assert.Equal(reason, got)
	}
}

func TestParseMutationErrorUnknownFallsBackToNetworkOther(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(MutationNetworkOther, ParseMutationError(nil))
	assert.Equal(MutationNetworkOther, ParseMutationError([]byte{0xff}))
}

func TestEncodeParseGetErrorRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, reason := range []GetError{GetNoSuchData, GetNoSuchAccount} {
		got := ParseGetError(EncodeGetError(reason, ""))
		assert.Equal(reason, got)
	}
}
