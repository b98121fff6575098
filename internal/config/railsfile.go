package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
)

// RailsFileName is the project configuration file that marks a project root
const RailsFileName = "rails.toml"

// loadEnvFiles loads .env files from the project root so that ${VAR}
// references in rails.toml and the deployer key can be resolved.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				slog.Warn("failed to load env file", "file", envFile, "error", err)
			}
		}
	}
}

// loadRailsConfig loads and parses rails.toml if it exists.
// Returns (nil, nil) when rails.toml does not exist.
func loadRailsConfig(projectRoot string) (*config.RailsFileConfig, error) {
	railsPath := filepath.Join(projectRoot, RailsFileName)

	if _, err := os.Stat(railsPath); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.RailsFileConfig
	if _, err := toml.DecodeFile(railsPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", RailsFileName, err)
	}

	// Expand environment variables in network settings
	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.Explorer = os.ExpandEnv(network.Explorer)
		cfg.Networks[name] = network
	}

	return &cfg, nil
}

// LoadRawRPCEndpoints reads rails.toml and returns RPC endpoints without env var expansion.
func LoadRawRPCEndpoints(projectRoot string) (map[string]string, error) {
	railsPath := filepath.Join(projectRoot, RailsFileName)

	var cfg config.RailsFileConfig
	if _, err := toml.DecodeFile(railsPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", RailsFileName, err)
	}

	endpoints := make(map[string]string, len(cfg.Networks))
	for name, network := range cfg.Networks {
		endpoints[name] = network.RPCURL
	}
	return endpoints, nil
}
