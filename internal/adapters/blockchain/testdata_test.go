package blockchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// answerBytecode deploys a contract whose runtime returns the 32-byte word
// 42 for any call, so it doubles as a role getter and a grantRole target.
const answerBytecode = "0x600a600c600039600a6000f3602a60005260206000f3"

// revertBytecode reverts in its constructor
const revertBytecode = "0x60006000fd"

const tokenABI = `[
	{"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"MINTER_ROLE","inputs":[],"outputs":[{"name":"","type":"bytes32"}],"stateMutability":"view"},
	{"type":"function","name":"grantRole","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

const routerABI = `[
	{"type":"constructor","inputs":[{"name":"token","type":"address"},{"name":"fee","type":"uint24"},{"name":"cap","type":"uint256"}],"stateMutability":"nonpayable"}
]`

// writeArtifacts lays out a hardhat-style and a foundry-style artifact tree
func writeArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"contracts/FRYToken.sol/FRYToken.json": `{"contractName":"FRYToken","abi":` + tokenABI + `,"bytecode":"` + answerBytecode + `"}`,
		"contracts/FRYToken.sol/FRYToken.dbg.json": `{"buildInfo":"../../build-info/abc.json"}`,
		"out/LiquidityRailsRouter.sol/LiquidityRailsRouter.json": `{"abi":` + routerABI + `,"bytecode":{"object":"` + answerBytecode + `"}}`,
		"contracts/Broken.sol/Broken.json": `{"abi":[{"type":"constructor","inputs":[]}],"bytecode":"` + revertBytecode + `"}`,
		"contracts/IToken.sol/IToken.json": `{"abi":[],"bytecode":"0x"}`,
		"build-info/abc.json": `{"id":"abc"}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}
