// errors.go - CoreError taxonomy for the safe-core client.
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

// Package corerr defines the error taxonomy shared by bootstrap, dispatch
// and the event loop.
package corerr

import (
	"errors"
	"fmt"

	"github.com/Fraser999/safe-core/types"
)

// Sentinel errors matching language-neutral kinds from the specification.
var (
	// ErrOperationAborted covers bootstrap timeouts, dropped completions
	// and unexpected events seen during bootstrap.
	ErrOperationAborted = errors.New("safe-core: operation aborted")

	// ErrOperationForbiddenForClient is returned when an account-requiring
	// call is made on an Unregistered client.
	ErrOperationForbiddenForClient = errors.New("safe-core: operation forbidden for unregistered client")

	// ErrReceivedUnexpectedEvent is returned when a future resolves with a
	// CoreEvent variant that does not match the verb that dispatched it.
	ErrReceivedUnexpectedEvent = errors.New("safe-core: received unexpected event")

	// ErrReceivedUnexpectedData is returned when a response carries a Data
	// variant the caller did not ask for.
	ErrReceivedUnexpectedData = errors.New("safe-core: received unexpected data")

	// ErrRootDirectoryAlreadyExists is returned by SetUserRootDirID /
	// SetConfigRootDirID when the slot is already populated.
	ErrRootDirectoryAlreadyExists = errors.New("safe-core: root directory already exists")
)

// GetError enumerates the reasons a GET can fail.
type GetError uint8

const (
	GetNoSuchData GetError = iota
	GetNoSuchAccount
	GetNetworkOther
)

// MutationError enumerates the reasons a PUT/POST/DELETE/APPEND can fail.
type MutationError uint8

const (
	MutationNoSuchData MutationError = iota
	MutationNoSuchAccount
	MutationAccountExists
	MutationDataExists
	MutationDataTooLarge
	MutationInvalidSuccessor
	MutationInvalidOperation
	MutationLowBalance
	MutationNetworkFull
	MutationNetworkOther
)

// GetFailure is CoreError's Get-failure variant: a typed reason plus the
// DataIdentifier the GET was for.
type GetFailure struct {
	DataID  types.DataIdentifier
	Reason  GetError
	Message string // populated only for GetNetworkOther
}

func (e *GetFailure) Error() string {
	if e.Reason == GetNetworkOther {
		return fmt.Sprintf("safe-core: get failure for %s: %s", e.DataID.Name, e.Message)
	}
	return fmt.Sprintf("safe-core: get failure for %s: %v", e.DataID.Name, e.Reason)
}

// Is reports whether target is also a *GetFailure with the same Reason,
// so callers can do errors.Is(err, &corerr.GetFailure{Reason: corerr.GetNoSuchData}).
func (e *GetFailure) Is(target error) bool {
	other, ok := target.(*GetFailure)
	if !ok {
		return false
	}
	return other.Reason == e.Reason
}

// MutationFailure is CoreError's Mutation-failure variant.
type MutationFailure struct {
	DataID  types.DataIdentifier
	Reason  MutationError
	Message string // populated only for MutationNetworkOther
}

func (e *MutationFailure) Error() string {
	if e.Reason == MutationNetworkOther {
		return fmt.Sprintf("safe-core: mutation failure for %s: %s", e.DataID.Name, e.Message)
	}
	return fmt.Sprintf("safe-core: mutation failure for %s: %v", e.DataID.Name, e.Reason)
}

// Is reports whether target is also a *MutationFailure with the same Reason.
func (e *MutationFailure) Is(target error) bool {
	other, ok := target.(*MutationFailure)
	if !ok {
		return false
	}
	return other.Reason == e.Reason
}

// ParseGetError decodes the opaque external-error bytes a GetFailure
// response carries. Unrecognized encodings fall back to GetNetworkOther
// rather than failing closed, matching the event loop's "never panic on
// unknown wire content" policy.
func ParseGetError(extErr []byte) GetError {
	if len(extErr) == 0 {
		return GetNetworkOther
	}
	switch extErr[0] {
	case byte(GetNoSuchData):
		return GetNoSuchData
	case byte(GetNoSuchAccount):
		return GetNoSuchAccount
	default:
		return GetNetworkOther
	}
}

// ParseMutationError decodes the opaque external-error bytes a mutation
// failure response carries.
func ParseMutationError(extErr []byte) MutationError {
	if len(extErr) == 0 {
		return MutationNetworkOther
	}
	switch extErr[0] {
	case byte(MutationNoSuchData):
		return MutationNoSuchData
	case byte(MutationNoSuchAccount):
		return MutationNoSuchAccount
	case byte(MutationAccountExists):
		return MutationAccountExists
	case byte(MutationDataExists):
		return MutationDataExists
	case byte(MutationDataTooLarge):
		return MutationDataTooLarge
	case byte(MutationInvalidSuccessor):
		return MutationInvalidSuccessor
	case byte(MutationInvalidOperation):
		return MutationInvalidOperation
	case byte(MutationLowBalance):
		return MutationLowBalance
	case byte(MutationNetworkFull):
		return MutationNetworkFull
	default:
		return MutationNetworkOther
	}
}

// EncodeGetError is the routing test double's counterpart to ParseGetError:
// it produces the opaque wire bytes a real network would emit for reason.
func EncodeGetError(reason GetError, message string) []byte {
	if reason == GetNetworkOther {
		return append([]byte{byte(reason)}, []byte(message)...)
	}
	return []byte{byte(reason)}
}

// EncodeMutationError is the routing test double's counterpart to
// ParseMutationError.
func EncodeMutationError(reason MutationError, message string) []byte {
	if reason == MutationNetworkOther {
		return append([]byte{byte(reason)}, []byte(message)...)
	}
	return []byte{byte(reason)}
}
