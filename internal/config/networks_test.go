package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/lp-custody/internal/config"
)

func TestLoadNetworks(t *testing.T) {
	networks, err := config.LoadNetworks("testdata/networks.toml")
	require.NoError(t, err)
	require.Len(t, networks, 2)

	mainnet, ok := networks["mainnet"]
	require.True(t, ok)
	require.Equal(t, int64(1), mainnet.ChainID)
	require.Equal(t, "0xC36442b4a4522E871399CD717aBDD847Ab11FE88", mainnet.PositionManager)
}

func TestResolveNetwork(t *testing.T) {
	network, err := config.ResolveNetwork("testdata/networks.toml", "base")
	require.NoError(t, err)
	require.Equal(t, int64(8453), network.ChainID)

	_, err = config.ResolveNetwork("testdata/networks.toml", "does-not-exist")
	require.Error(t, err)
}

func TestResolveNetworkMissingFile(t *testing.T) {
	_, err := config.ResolveNetwork("testdata/nope.toml", "mainnet")
	require.Error(t, err)
}
