package interactive

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() usecase.BroadcastSummary {
	return usecase.BroadcastSummary{
		Plan:      "liquidity-rails",
		Variant:   "fhenix",
		Network:   "arbitrum-sepolia",
		ChainID:   421614,
		Deployer:  common.HexToAddress("0x00000000000000000000000000000000000000d0"),
		Balance:   new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)),
		Contracts: 5,
		Grants:    2,
	}
}

func TestConfirmBroadcast(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name   string
		answer bool
	}{
		{name: "approved", answer: true},
		{name: "declined", answer: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			confirmer := NewBroadcastConfirmer(&config.RuntimeConfig{}, io.NopCloser(strings.NewReader("")), &out)

			var asked string
			confirmer.prompt = func(label string) (bool, error) {
				asked = label
				return tt.answer, nil
			}

			ok, err := confirmer.ConfirmBroadcast(context.Background(), testSummary())
			require.NoError(t, err)
			assert.Equal(t, tt.answer, ok)

			assert.Equal(t, "Broadcast 5 deployments and 2 role grants to arbitrum-sepolia", asked)
			assert.Contains(t, out.String(), "liquidity-rails (variant fhenix)")
			assert.Contains(t, out.String(), "arbitrum-sepolia (chain 421614)")
			assert.Contains(t, out.String(), "0x00000000000000000000000000000000000000d0")
			assert.Contains(t, out.String(), "1.5 ETH")
		})
	}
}

func TestConfirmBroadcast_NonInteractive(t *testing.T) {
	var out bytes.Buffer
	confirmer := NewBroadcastConfirmer(&config.RuntimeConfig{NonInteractive: true}, io.NopCloser(strings.NewReader("")), &out)
	confirmer.prompt = func(string) (bool, error) {
		t.Fatal("prompt must not be shown")
		return false, nil
	}

	ok, err := confirmer.ConfirmBroadcast(context.Background(), testSummary())

	assert.False(t, ok)
	assert.ErrorContains(t, err, "rerun with --yes")
	assert.Empty(t, out.String())
}

func TestConfirmBroadcast_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	confirmer := NewBroadcastConfirmer(&config.RuntimeConfig{}, io.NopCloser(strings.NewReader("")), io.Discard)
	_, err := confirmer.ConfirmBroadcast(ctx, testSummary())

	assert.ErrorIs(t, err, context.Canceled)
}
