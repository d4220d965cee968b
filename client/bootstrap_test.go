// bootstrap_test.go - end-to-end tests for the three session constructors
// and the dispatcher, exercised against routing.Mock.
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
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/katzenpost/core/crypto/eddsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fraser999/safe-core/clock"
	"github.com/Fraser999/safe-core/constants"
	"github.com/Fraser999/safe-core/corerr"
	"github.com/Fraser999/safe-core/routing"
	"github.com/Fraser999/safe-core/types"
)

func testCtx(t *testing.T) (context.Context, func()) {
	t.Helper()
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// neverConnects is a Routing stub whose event stream never delivers
// EventConnected, so awaitConnected can only return via ctx.Done or the
// clock deadline.
type neverConnects struct{}

func (neverConnects) Init(identity *eddsa.PrivateKey) (<-chan routing.Event, error) {
	return make(chan routing.Event), nil
}
func (neverConnects) SendGetRequest(types.Authority, types.DataIdentifier, types.MessageID) error {
	return nil
}
func (neverConnects) SendPutRequest(types.Authority, types.Data, types.MessageID) error { return nil }
func (neverConnects) SendPostRequest(types.Authority, types.Data, types.MessageID) error {
	return nil
}
func (neverConnects) SendDeleteRequest(types.Authority, types.Data, types.MessageID) error {
	return nil
}
func (neverConnects) SendAppendRequest(types.Authority, types.AppendWrapper, types.MessageID) error {
	return nil
}
func (neverConnects) SendGetAccountInfoRequest(types.Authority, types.MessageID) error { return nil }
func (neverConnects) Shutdown()                                                        {}

func TestUnregisteredBootstrapTimesOutOnFakeClock(t *testing.T) {
	require := require.New(t)

	fakeClock := clockwork.NewFakeClock()
	clk := clock.New(fakeClock)

	done := make(chan error, 1)
	go func() {
		_, err := Unregistered(context.Background(), nil, clk, neverConnects{})
		done <- err
	}()

	// Give the bootstrap goroutine time to reach c.clock.After before
	// advancing past the deadline; there is no fake-clock signal for
	// "a waiter has registered" in this clockwork version, so a short
	// real sleep stands in for that synchronization.
	time.Sleep(20 * time.Millisecond)
	fakeClock.Advance(constants.ConnectionTimeout + time.Second)

	select {
	case err := <-done:
		require.ErrorIs(err, corerr.ErrOperationAborted)
	case <-time.After(5 * time.Second):
		t.Fatal("bootstrap did not observe the fake clock deadline")
	}
}

func TestUnregisteredGetHitsCacheOnSecondFetch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	network := routing.NewMock()
	name := types.XorName{0x01}
	network.Put(types.Data{Kind: types.KindImmutable, Name: name, Value: []byte("payload")})

	ctx, cancel := testCtx(t)
	defer cancel()
	c, err := Unregistered(ctx, nil, nil, network)
	require.NoError(err)
	defer c.Shutdown()

	dataID := types.Immutable(name)
	data, err := c.Get(ctx, dataID, nil).Result()
	require.NoError(err)
	assert.Equal([]byte("payload"), data.Value)
	assert.Equal(1, c.cache.Len(), "a fresh GET of immutable data should populate the cache")

	network.FailSend = func(verb string) error {
		t.Fatalf("unexpected network round trip for verb %q; expected a cache hit", verb)
		return nil
	}
	data2, err := c.Get(ctx, dataID, nil).Result()
	require.NoError(err)
	assert.Equal([]byte("payload"), data2.Value)
	assert.Equal(uint64(1), c.Stats().IssuedGets, "the cache hit must not count as an issued get")
}

func TestUnregisteredAccountOpsForbidden(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	network := routing.NewMock()
	ctx, cancel := testCtx(t)
	defer cancel()
	c, err := Unregistered(ctx, nil, nil, network)
	require.NoError(err)
	defer c.Shutdown()

	err = c.SetUserRootDirID(ctx, types.XorName{0x02}, [32]byte{})
	assert.ErrorIs(err, corerr.ErrOperationForbiddenForClient)

	err = c.SetConfigRootDirID(ctx, types.XorName{0x03}, [32]byte{})
	assert.ErrorIs(err, corerr.ErrOperationForbiddenForClient)

	_, _, err = c.GetAccountInfo(ctx, nil).Result()
	assert.ErrorIs(err, corerr.ErrOperationForbiddenForClient)
}

func TestRegisteredTwiceAtSameLocatorFailsAccountExists(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	network := routing.NewMock()
	ctx, cancel := testCtx(t)
	defer cancel()

	first, err := Registered(ctx, "alice", "hunter2", nil, nil, network)
	require.NoError(err)
	defer first.Shutdown()

	_, err = Registered(ctx, "alice", "hunter2", nil, nil, network)
	require.Error(err)
	mf, ok := err.(*corerr.MutationFailure)
	require.True(ok, "expected a *corerr.MutationFailure, got %T", err)
	assert.Equal(corerr.MutationAccountExists, mf.Reason)
}

func TestLoginRecoversRootDirHandles(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	network := routing.NewMock()
	ctx, cancel := testCtx(t)
	defer cancel()

	original, err := Registered(ctx, "bob", "correct horse battery staple", nil, nil, network)
	require.NoError(err)

	userID := types.XorName{0xaa}
	userKey := [32]byte{0xbb}
	require.NoError(original.SetUserRootDirID(ctx, userID, userKey))

	configID := types.XorName{0xcc}
	configKey := [32]byte{0xdd}
	require.NoError(original.SetConfigRootDirID(ctx, configID, configKey))
	original.Shutdown()

	loggedIn, err := Login(ctx, "bob", "correct horse battery staple", nil, nil, func() routing.Routing {
		return network
	})
	require.NoError(err)
	defer loggedIn.Shutdown()

	gotUserID, gotUserKey, userSet := loggedIn.UserRootDirID()
	assert.True(userSet)
	assert.Equal(userID, gotUserID)
	assert.Equal(userKey, gotUserKey)

	gotConfigID, gotConfigKey, configSet := loggedIn.ConfigRootDirID()
	assert.True(configSet)
	assert.Equal(configID, gotConfigID)
	assert.Equal(configKey, gotConfigKey)
}

func TestPutRecoverReclaimsTombstone(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	network := routing.NewMock()
	ctx, cancel := testCtx(t)
	defer cancel()

	c, err := Registered(ctx, "carol", "swordfish", nil, nil, network)
	require.NoError(err)
	defer c.Shutdown()

	dst := types.NaeManager(types.XorName{0x10})
	original := types.Data{
		Kind:      types.KindStructured,
		Name:      types.XorName{0x10},
		TypeTag:   42,
		Version:   0,
		OwnerKeys: [][]byte{c.account.MaidSignPublic.Bytes()},
	}
	sig, err := c.signData(&original)
	require.NoError(err)
	original.Signature = sig

	version, err := c.PutRecover(ctx, original, &dst)
	require.NoError(err)
	assert.Equal(uint64(0), version)

	require.NoError(c.DeleteRecover(ctx, original, &dst))

	stored, ok := network.Get(original.Identifier())
	require.True(ok)
	assert.True(stored.IsDeleted())

	reclaim := original
	reclaim.Payload = []byte("reclaimed")
	version, err = c.PutRecover(ctx, reclaim, &dst)
	require.NoError(err)
	assert.Equal(stored.Version+1, version)

	final, ok := network.Get(original.Identifier())
	require.True(ok)
	assert.False(final.IsDeleted())
	assert.Equal([]byte("reclaimed"), final.Payload)
}

func TestPutRecoverToleratesBenignDuplicate(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	network := routing.NewMock()
	ctx, cancel := testCtx(t)
	defer cancel()

	c, err := Registered(ctx, "dave", "letmein", nil, nil, network)
	require.NoError(err)
	defer c.Shutdown()

	dst := types.NaeManager(types.XorName{0x20})
	data := types.Data{
		Kind:      types.KindStructured,
		Name:      types.XorName{0x20},
		TypeTag:   7,
		Version:   7,
		OwnerKeys: [][]byte{c.account.MaidSignPublic.Bytes()},
		Payload:   []byte("same owner, same content"),
	}
	sig, err := c.signData(&data)
	require.NoError(err)
	data.Signature = sig

	// Seed the network with a stale version from the same owner, so the
	// declared version (7) and the network's version (5) disagree; the
	// resolved version must be the caller's declared one, not whatever
	// stale version the network still reports.
	stale := data
	stale.Version = 5
	network.Put(stale)

	version, err := c.PutRecover(ctx, data, &dst)
	require.NoError(err)
	assert.Equal(data.Version, version)
	assert.NotEqual(stale.Version, version)
}

func TestDeleteRecoverToleratesAlreadyGone(t *testing.T) {
	require := require.New(t)

	network := routing.NewMock()
	ctx, cancel := testCtx(t)
	defer cancel()

	c, err := Unregistered(ctx, nil, nil, network)
	require.NoError(err)
	defer c.Shutdown()

	dst := types.NaeManager(types.XorName{0x30})
	missing := types.Data{Kind: types.KindStructured, Name: types.XorName{0x30}, TypeTag: 1}
	require.NoError(c.DeleteRecover(ctx, missing, &dst))
}
