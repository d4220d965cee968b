// cache.go - bounded LRU cache of immutable data.
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

// Package cache implements the client's read-through cache of immutable
// data. No pack example pulls in an LRU library, so this is the one
// component built directly on the standard library: container/list gives
// the intrusive doubly-linked list an LRU needs without reimplementing
// one, and the rest is a bookkeeping map.
//
// Read from the dispatcher's call path and written from the event loop
// goroutine on a completed GET, so it carries its own mutex rather than
// relying on single-goroutine discipline.
package cache

import (
	"container/list"
	"sync"

	"github.com/Fraser999/safe-core/types"
)

// Cache is a bounded, least-recently-used cache keyed by XorName. Entries
// are immutable by domain: once inserted, a value is only ever evicted,
// never updated.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[types.XorName]*list.Element
}

type entry struct {
	key   types.XorName
	value types.Data
}

// New builds a Cache with room for capacity entries. capacity <= 0 is
// clamped to 1.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[types.XorName]*list.Element),
	}
}

// Get looks up name, promoting it to most-recently-used on a hit.
func (c *Cache) Get(name types.XorName) (types.Data, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[name]
	if !ok {
		return types.Data{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Insert adds or refreshes name, evicting the least-recently-used entry
// if the cache is at capacity. A no-op if name is already present other
// than refreshing its recency.
func (c *Cache) Insert(name types.XorName, value types.Data) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[name]; ok {
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&entry{key: name, value: value})
	c.items[name] = el

	if c.ll.Len() > c.capacity {
		c.evictOldest()
	}
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) evictOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
