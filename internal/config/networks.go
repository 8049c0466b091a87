package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Network describes a single position manager deployment.
type Network struct {
	ChainID         int64  `toml:"chain_id"`
	RPCURL          string `toml:"rpc_url"`
	PositionManager string `toml:"position_manager"`
}

type networksFile struct {
	Networks map[string]Network `toml:"networks"`
}

// LoadNetworks parses the TOML registry of known position manager
// deployments, keyed by network name.
func LoadNetworks(path string) (map[string]Network, error) {
	var parsed networksFile
	if _, err := toml.DecodeFile(path, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode networks file")
	}

	if len(parsed.Networks) == 0 {
		return nil, errors.New("networks file contains no networks")
	}

	return parsed.Networks, nil
}

// ResolveNetwork returns the named network from the registry at path.
func ResolveNetwork(path, name string) (Network, error) {
	networks, err := LoadNetworks(path)
	if err != nil {
		return Network{}, err
	}

	network, ok := networks[name]
	if !ok {
		return Network{}, errors.Errorf("unknown network %q", name)
	}

	return network, nil
}
