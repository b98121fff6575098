package config

// RailsFileConfig represents the full rails.toml configuration file
type RailsFileConfig struct {
	Plan           string                   `toml:"plan,omitempty"`
	Manifest       string                   `toml:"manifest,omitempty"`
	Artifacts      string                   `toml:"artifacts,omitempty"`
	LocalNetworks  []string                 `toml:"local_networks,omitempty"`
	DeployerKeyEnv string                   `toml:"deployer_key_env,omitempty"`
	Networks       map[string]NetworkConfig `toml:"networks"`
}

// NetworkConfig represents a [networks.<name>] section in rails.toml
type NetworkConfig struct {
	RPCURL         string `toml:"rpc_url"`
	ChainID        uint64 `toml:"chain_id,omitempty"`
	Explorer       string `toml:"explorer,omitempty"`
	DeployerKeyEnv string `toml:"deployer_key_env,omitempty"`
}
