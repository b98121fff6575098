package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultPlanPath       = "plans/liquidity-rails.yaml"
	DefaultManifestPath   = "deployment.json"
	DefaultArtifactsDir   = "artifacts"
	DefaultDeployerKeyEnv = "PRIVATE_KEY"
)

// DefaultLocalNetworks are the networks treated as ephemeral unless rails.toml says otherwise
var DefaultLocalNetworks = []string{"hardhat", config.SimulatedNetwork, "anvil", "localhost"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	railsConfig, err := loadRailsConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if railsConfig == nil {
		railsConfig = &config.RailsFileConfig{}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, "out", ".rails"),
		PlanPath:       resolvePath(projectRoot, firstNonEmpty(v.GetString("plan"), railsConfig.Plan, DefaultPlanPath)),
		Variant:        v.GetString("variant"),
		ManifestPath:   resolvePath(projectRoot, firstNonEmpty(v.GetString("manifest"), railsConfig.Manifest, DefaultManifestPath)),
		ArtifactsDir:   resolvePath(projectRoot, firstNonEmpty(v.GetString("artifacts"), railsConfig.Artifacts, DefaultArtifactsDir)),
		LocalNetworks:  railsConfig.LocalNetworks,
		DeployerKeyEnv: firstNonEmpty(railsConfig.DeployerKeyEnv, DefaultDeployerKeyEnv),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
		ConfirmTimeout: v.GetDuration("confirm_timeout"),
		RailsConfig:    railsConfig,
	}
	if len(cfg.LocalNetworks) == 0 {
		cfg.LocalNetworks = DefaultLocalNetworks
	}

	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(cfg).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find rails.toml.
// Without one, the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, RailsFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("RAILS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", config.SimulatedNetwork)
	v.SetDefault("timeout", "30m")
	v.SetDefault("confirm_timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("yes", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			panic(err)
		}
	})

	return v
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
