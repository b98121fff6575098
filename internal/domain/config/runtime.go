package config

import (
	"slices"
	"time"
)

// SimulatedNetwork is the built-in in-memory network
const SimulatedNetwork = "simulated"

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Plan selection
	PlanPath string
	Variant  string

	// Outputs and inputs on disk
	ManifestPath string
	ArtifactsDir string

	// Context settings
	Network        *Network // nil if not specified
	LocalNetworks  []string
	DeployerKeyEnv string

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	Timeout        time.Duration
	ConfirmTimeout time.Duration

	// Resolved configuration file, nil when the project has no rails.toml
	RailsConfig *RailsFileConfig
}

// IsLocalNetwork reports whether the named network is local/ephemeral, in
// which case verification instructions are not emitted.
func (c *RuntimeConfig) IsLocalNetwork(name string) bool {
	return name == SimulatedNetwork || slices.Contains(c.LocalNetworks, name)
}

// Network represents a resolved network
type Network struct {
	Name           string `json:"name"`
	RPCURL         string `json:"rpcUrl,omitempty"`
	ChainID        uint64 `json:"chainId,omitempty"`
	ExplorerURL    string `json:"explorerUrl,omitempty"`
	DeployerKeyEnv string `json:"-"`
	Local          bool   `json:"local"`
}

// IsSimulated reports whether the network is the in-memory simulated backend
func (n *Network) IsSimulated() bool {
	return n.Name == SimulatedNetwork
}
