// clock.go - injectable clock for bootstrap and recovery timeouts.
// Copyright (C) 2017  David Stainton.
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

// Package clock wraps clockwork.Clock so the client's 60 second bootstrap
// connection deadline can be driven by a fake clock in tests instead of
// real wall time.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the timing source the client's bootstrap constructors wait
// against for the Connected event.
type Clock struct {
	c clockwork.Clock
}

// New wraps c.
func New(c clockwork.Clock) *Clock {
	return &Clock{c}
}

// Real builds a Clock backed by the system clock.
func Real() *Clock {
	return &Clock{clockwork.NewRealClock()}
}

// Now returns the current time.
func (c *Clock) Now() time.Time {
	return c.c.Now()
}

// After returns a channel that fires once d has elapsed, per
// clockwork.Clock.After.
func (c *Clock) After(d time.Duration) <-chan time.Time {
	return c.c.After(d)
}
