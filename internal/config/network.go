package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/samber/lo"
)

const (
	// DefaultLocalRPCURL is used for local networks with no configured endpoint
	DefaultLocalRPCURL = "http://127.0.0.1:8545"

	// SimulatedChainID is the chain id of the in-memory backend
	SimulatedChainID = 1337
)

// NetworkResolver resolves network names against rails.toml and the environment
type NetworkResolver struct {
	cfg *config.RuntimeConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return &NetworkResolver{cfg: cfg}
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg)
}

// Resolve resolves a network name to its configuration. The RPC URL comes
// from [networks.<name>].rpc_url, then <NAME>_RPC_URL, then the default
// local endpoint for local networks.
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	network := &config.Network{
		Name:           name,
		DeployerKeyEnv: r.cfg.DeployerKeyEnv,
		Local:          r.cfg.IsLocalNetwork(name),
	}

	if name == config.SimulatedNetwork {
		network.ChainID = SimulatedChainID
		return network, nil
	}

	entry, configured := r.networks()[name]
	if configured {
		network.RPCURL = entry.RPCURL
		network.ChainID = entry.ChainID
		network.ExplorerURL = entry.Explorer
		if entry.DeployerKeyEnv != "" {
			network.DeployerKeyEnv = entry.DeployerKeyEnv
		}
	}

	if network.RPCURL == "" {
		network.RPCURL = os.Getenv(RPCEnvVar(name))
	}
	if network.RPCURL == "" && network.Local {
		network.RPCURL = DefaultLocalRPCURL
	}
	if network.RPCURL == "" && configured {
		return nil, r.missingEndpoint(name)
	}
	if network.RPCURL == "" {
		return nil, &domain.UnknownNetworkError{Name: name, Known: r.Names()}
	}

	return network, nil
}

// missingEndpoint names the variable a configured network expected its RPC URL in
func (r *NetworkResolver) missingEndpoint(name string) error {
	fallback := RPCEnvVar(name)
	if r.cfg.ProjectRoot != "" {
		if raw, err := LoadRawRPCEndpoints(r.cfg.ProjectRoot); err == nil {
			if envVar, ok := EnvReference(raw[name]); ok {
				return fmt.Errorf("network %s: rpc_url references %s, which is not set", name, envVar)
			}
		}
	}
	return fmt.Errorf("network %s has no rpc_url and %s is not set", name, fallback)
}

// Names returns every network name the resolver knows about, sorted
func (r *NetworkResolver) Names() []string {
	names := append([]string{config.SimulatedNetwork}, r.cfg.LocalNetworks...)
	names = append(names, lo.Keys(r.networks())...)
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

func (r *NetworkResolver) networks() map[string]config.NetworkConfig {
	if r.cfg.RailsConfig == nil {
		return nil
	}
	return r.cfg.RailsConfig.Networks
}
