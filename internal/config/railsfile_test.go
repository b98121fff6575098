package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRailsToml(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RailsFileName), []byte(content), 0644))
}

func TestLoadRailsConfig(t *testing.T) {
	t.Run("parses valid rails.toml", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("RAILS_TEST_ARB_RPC", "https://arb.example/rpc")
		writeRailsToml(t, dir, `
plan = "plans/custom.yaml"
manifest = "out/deployment.json"
local_networks = ["hardhat"]
deployer_key_env = "DEPLOYER_KEY"

[networks.arbitrum-sepolia]
rpc_url = "${RAILS_TEST_ARB_RPC}"
chain_id = 421614
explorer = "https://sepolia.arbiscan.io"
`)

		cfg, err := loadRailsConfig(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "plans/custom.yaml", cfg.Plan)
		assert.Equal(t, "out/deployment.json", cfg.Manifest)
		assert.Equal(t, []string{"hardhat"}, cfg.LocalNetworks)
		assert.Equal(t, "DEPLOYER_KEY", cfg.DeployerKeyEnv)

		arb, ok := cfg.Networks["arbitrum-sepolia"]
		require.True(t, ok)
		assert.Equal(t, "https://arb.example/rpc", arb.RPCURL)
		assert.Equal(t, uint64(421614), arb.ChainID)
		assert.Equal(t, "https://sepolia.arbiscan.io", arb.Explorer)
	})

	t.Run("returns nil when rails.toml is missing", func(t *testing.T) {
		cfg, err := loadRailsConfig(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("invalid toml", func(t *testing.T) {
		dir := t.TempDir()
		writeRailsToml(t, dir, `plan = [`)

		_, err := loadRailsConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse rails.toml")
	})
}

func TestLoadRawRPCEndpoints(t *testing.T) {
	dir := t.TempDir()
	writeRailsToml(t, dir, `
[networks.sepolia]
rpc_url = "${SEPOLIA_RPC_URL}"

[networks.local]
rpc_url = "http://127.0.0.1:8545"
`)

	endpoints, err := LoadRawRPCEndpoints(dir)
	require.NoError(t, err)

	assert.Equal(t, "${SEPOLIA_RPC_URL}", endpoints["sepolia"])
	assert.Equal(t, "http://127.0.0.1:8545", endpoints["local"])

	name, ok := EnvReference(endpoints["sepolia"])
	assert.True(t, ok)
	assert.Equal(t, RPCEnvVar("sepolia"), name)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RAILS_TEST_FROM_DOTENV=dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("RAILS_TEST_FROM_DOTENV") })

	loadEnvFiles(dir)

	assert.Equal(t, "dotenv", os.Getenv("RAILS_TEST_FROM_DOTENV"))
}
