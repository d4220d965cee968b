// cache_test.go - tests for the immutable data cache.
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

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Fraser999/safe-core/types"
)

func name(b byte) types.XorName {
	n := types.XorName{}
	n[0] = b
	return n
}

func TestCacheMissThenHit(t *testing.T) {
	assert := assert.New(t)

	c := New(300)
	_, ok := c.Get(name(1))
	assert.False(ok, "expected miss on empty cache")

	c.Insert(name(1), types.Data{Value: []byte("hello")})
	got, ok := c.Get(name(1))
	assert.True(ok, "expected hit after insert")
	assert.Equal([]byte("hello"), got.Value)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	assert := assert.New(t)

	c := New(2)
	c.Insert(name(1), types.Data{Value: []byte("one")})
	c.Insert(name(2), types.Data{Value: []byte("two")})

	// Touch name(1) so name(2) becomes the least recently used entry.
	_, ok := c.Get(name(1))
	assert.True(ok)

	c.Insert(name(3), types.Data{Value: []byte("three")})

	_, ok = c.Get(name(2))
	assert.False(ok, "expected name(2) to be evicted")
	_, ok = c.Get(name(1))
	assert.True(ok, "expected name(1) to survive")
	_, ok = c.Get(name(3))
	assert.True(ok, "expected name(3) to be present")
	assert.Equal(2, c.Len())
}

func TestCacheDefaultCapacityEvictsAt301st(t *testing.T) {
	assert := assert.New(t)

	c := New(300)
	for i := 0; i < 300; i++ {
		n := types.XorName{}
		n[0] = byte(i)
		n[1] = byte(i >> 8)
		c.Insert(n, types.Data{Value: []byte{byte(i)}})
	}
	assert.Equal(300, c.Len())

	first := types.XorName{}
	_, ok := c.Get(first)
	assert.True(ok, "oldest entry should still be present before overflow")

	overflow := types.XorName{0xff, 0xff}
	c.Insert(overflow, types.Data{Value: []byte("overflow")})
	assert.Equal(300, c.Len(), "capacity must not grow past 300")

	_, ok = c.Get(types.XorName{1})
	assert.False(ok, "the 301st insert must evict the oldest untouched entry")
}
