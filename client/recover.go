// recover.go - optimistic mutation recovery protocols.
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

package client

import (
	"bytes"
	"context"
	gocrypto "crypto"

	"github.com/Fraser999/safe-core/account"
	"github.com/Fraser999/safe-core/constants"
	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/types"
)

// PutRecover attempts to Put data, and on a failure indicating the
// address is already occupied, reconciles with whatever is already
// there: reclaiming a tombstoned slot, or tolerating a benign duplicate
// from the same owner. The reclaim is signed with the client's own maid
// secret signing key, so recovery only makes sense for data this client
// owns. Only meaningful for Structured and appendable data; other kinds
// degrade to a plain Put and report version 0.
//
// The benign-duplicate branch resolves with data.Version, the caller's
// declared version, not whatever version the network still reports for
// the existing item.
func (c *Client) PutRecover(ctx context.Context, data types.Data, dst *types.Authority) (uint64, error) {
	if data.Kind == types.KindImmutable {
		if err := c.Put(ctx, data, dst).Result(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	putErr := c.Put(ctx, data, dst).Result()
	if putErr == nil {
		return data.Version, nil
	} else if !isRecoverable(putErr) {
		return 0, putErr
	}

	existing, err := c.Get(ctx, data.Identifier(), dst).Result()
	if err != nil {
		return 0, putErr
	}

	if existing.IsDeleted() {
		reclaim := data
		reclaim.Version = existing.Version + 1
		reclaim.PrevOwnerKeys = existing.OwnerKeys
		sig, err := c.signData(&reclaim)
		if err != nil {
			return 0, err
		}
		reclaim.Signature = sig
		if err := c.Put(ctx, reclaim, dst).Result(); err != nil {
			return 0, err
		}
		c.log.Debugf("put_recover: reclaimed tombstoned %s at version %d", data.Name, reclaim.Version)
		return reclaim.Version, nil
	}

	if sameOwners(existing.OwnerKeys, data.OwnerKeys) {
		// Benign duplicate: the network already holds data.Identifier()
		// under the same owner, so the caller's put is presumed to have
		// already landed once (a retried request, a prior crash before
		// the response arrived). Resolve with the caller's declared
		// version, not whatever stale version the network still reports
		// — matching "resolves the caller with version = new.version".
		c.log.Debugf("put_recover: treating %s as a benign duplicate, resolving at declared version %d", data.Name, data.Version)
		return data.Version, nil
	}

	return 0, putErr
}

// signData signs data with the client's own maid secret signing key,
// the same signature scheme buildSessionPacket uses for the session
// packet itself.
func (c *Client) signData(data *types.Data) ([]byte, error) {
	msg, err := data.SigningBytes()
	if err != nil {
		return nil, err
	}
	return c.account.MaidSignPrivate.Sign(nil, msg, gocrypto.Hash(0))
}

// DeleteRecover attempts to Delete data, tolerating an address that is
// already gone (NoSuchData) or already deleted (InvalidOperation) as
// success.
func (c *Client) DeleteRecover(ctx context.Context, data types.Data, dst *types.Authority) error {
	err := c.Delete(ctx, data, dst).Result()
	if err == nil {
		return nil
	}
	mf, ok := err.(*corerr.MutationFailure)
	if ok && (mf.Reason == corerr.MutationNoSuchData || mf.Reason == corerr.MutationInvalidOperation) {
		c.log.Debugf("delete_recover: treating %s as already gone (%v)", data.Name, mf.Reason)
		return nil
	}
	return err
}

// UpdateSessionPacket re-encrypts the client's current in-memory Account
// and posts a new version of the session packet to the network.
func (c *Client) UpdateSessionPacket(ctx context.Context) error {
	dataID := types.Structured(c.accLoc, constants.SessionPacketTypeTag)
	dst := types.NaeManager(c.accLoc)
	current, err := c.Get(ctx, dataID, &dst).Result()
	if err != nil {
		return err
	}

	next, err := c.buildSessionPacket(current.Version+1, nil)
	if err != nil {
		return err
	}
	if err := c.Post(ctx, *next, &dst).Result(); err != nil {
		return err
	}
	c.log.Debugf("update_session_packet: posted version %d", next.Version)
	return nil
}

// SetUserRootDirID records the client's user root directory handle,
// failing RootDirectoryAlreadyExists if one is already set.
func (c *Client) SetUserRootDirID(ctx context.Context, id types.XorName, key [32]byte) error {
	if !c.IsRegistered() {
		return corerr.ErrOperationForbiddenForClient
	}
	if c.account.UserRootDir.Set {
		return corerr.ErrRootDirectoryAlreadyExists
	}
	c.account.UserRootDir = account.RootDirHandle{ID: id, Key: key, Set: true}
	c.log.Debugf("set_user_root_dir_id: %s", id)
	return c.UpdateSessionPacket(ctx)
}

// SetConfigRootDirID records the client's config root directory handle,
// failing RootDirectoryAlreadyExists if one is already set.
func (c *Client) SetConfigRootDirID(ctx context.Context, id types.XorName, key [32]byte) error {
	if !c.IsRegistered() {
		return corerr.ErrOperationForbiddenForClient
	}
	if c.account.ConfigRootDir.Set {
		return corerr.ErrRootDirectoryAlreadyExists
	}
	c.account.ConfigRootDir = account.RootDirHandle{ID: id, Key: key, Set: true}
	c.log.Debugf("set_config_root_dir_id: %s", id)
	return c.UpdateSessionPacket(ctx)
}

// UserRootDirID returns the client's user root directory handle and
// whether one has been set.
func (c *Client) UserRootDirID() (types.XorName, [32]byte, bool) {
	h := c.account.UserRootDir
	return h.ID, h.Key, h.Set
}

// ConfigRootDirID returns the client's config root directory handle and
// whether one has been set.
func (c *Client) ConfigRootDirID() (types.XorName, [32]byte, bool) {
	h := c.account.ConfigRootDir
	return h.ID, h.Key, h.Set
}

func isRecoverable(err error) bool {
	mf, ok := err.(*corerr.MutationFailure)
	if !ok {
		return false
	}
	return mf.Reason == corerr.MutationInvalidSuccessor || mf.Reason == corerr.MutationDataExists
}

func sameOwners(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
