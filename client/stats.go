// stats.go - request counters maintained by the dispatcher.
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

// Stats counts the requests a Client has issued over its lifetime.
// Touched only from the driver goroutine.
type Stats struct {
	IssuedGets    uint64
	IssuedPuts    uint64
	IssuedPosts   uint64
	IssuedDeletes uint64
	IssuedAppends uint64
}

// Stats returns a snapshot of the client's request counters.
func (c *Client) Stats() Stats {
	return c.stats
}
