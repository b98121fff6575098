package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvReference(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
		wantOK   bool
	}{
		{"${ARBITRUM_SEPOLIA_RPC_URL}", "ARBITRUM_SEPOLIA_RPC_URL", true},
		{"${_KEY2}", "_KEY2", true},
		{"https://sepolia-rollup.arbitrum.io/rpc", "", false},
		{"${UNTERMINATED", "", false},
		{"https://${HOST}/rpc", "", false},
		{"${2FAST}", "", false},
		{"${WITH-DASH}", "", false},
		{"${}", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name, ok := EnvReference(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestRPCEnvVar(t *testing.T) {
	assert.Equal(t, "SEPOLIA_RPC_URL", RPCEnvVar("sepolia"))
	assert.Equal(t, "ARBITRUM_SEPOLIA_RPC_URL", RPCEnvVar("arbitrum-sepolia"))
	assert.Equal(t, "BASE_MAINNET_RPC_URL", RPCEnvVar("base.mainnet"))
}
