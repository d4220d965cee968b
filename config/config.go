// config.go - safe-core client configuration
// Copyright (C) 2017  David Anthony Stainton
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

// Package config provides the client's TOML configuration file format.
package config

import (
	"io/ioutil"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/Fraser999/safe-core/constants"
)

// Config holds the overridable client parameters; an absent file leaves
// every field at its constants package default.
type Config struct {
	ConnectionTimeoutSeconds    int64
	AccountPacketTimeoutSeconds int64
	CacheCapacity               int
}

// ConnectionTimeout returns the configured connection timeout, falling
// back to constants.ConnectionTimeout when unset.
func (c *Config) ConnectionTimeout() time.Duration {
	if c.ConnectionTimeoutSeconds <= 0 {
		return constants.ConnectionTimeout
	}
	return time.Duration(c.ConnectionTimeoutSeconds) * time.Second
}

// AccountPacketTimeout returns the configured account packet timeout,
// falling back to constants.AccountPacketTimeout when unset.
func (c *Config) AccountPacketTimeout() time.Duration {
	if c.AccountPacketTimeoutSeconds <= 0 {
		return constants.AccountPacketTimeout
	}
	return time.Duration(c.AccountPacketTimeoutSeconds) * time.Second
}

// ImmutableCacheCapacity returns the configured cache capacity, falling
// back to constants.ImmutableCacheSize when unset.
func (c *Config) ImmutableCacheCapacity() int {
	if c.CacheCapacity <= 0 {
		return constants.ImmutableCacheSize
	}
	return c.CacheCapacity
}

// FromFile parses a TOML configuration document.
func FromFile(fileName string) (*Config, error) {
	cfg := Config{}
	fileData, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(fileData, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
