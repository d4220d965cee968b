// config_test.go - safe-core client configuration tests
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

package config

import (
	"io/ioutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Fraser999/safe-core/constants"
)

func TestConfigFromFile(t *testing.T) {
	require := require.New(t)

	tomlConfigStr := `
ConnectionTimeoutSeconds = 30
AccountPacketTimeoutSeconds = 45
CacheCapacity = 500
`
	tmpConfigFile, err := ioutil.TempFile("/tmp", "configTomlTest")
	require.NoError(err, "TempFile failed")
	_, err = tmpConfigFile.Write([]byte(tomlConfigStr))
	require.NoError(err, "Write failed")

	cfg, err := FromFile(tmpConfigFile.Name())
	require.NoError(err, "FromFile failed")
	require.Equal(30*time.Second, cfg.ConnectionTimeout())
	require.Equal(45*time.Second, cfg.AccountPacketTimeout())
	require.Equal(500, cfg.ImmutableCacheCapacity())
}

func TestConfigDefaultsWhenUnset(t *testing.T) {
	require := require.New(t)

	cfg := Config{}
	require.Equal(constants.ConnectionTimeout, cfg.ConnectionTimeout())
	require.Equal(constants.AccountPacketTimeout, cfg.AccountPacketTimeout())
	require.Equal(constants.ImmutableCacheSize, cfg.ImmutableCacheCapacity())
}
