package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
)

var (
	// simulatedPrefund is the deployer balance on the simulated network: 1M ether
	simulatedPrefund = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18))

	simulatedGasLimit uint64 = 50_000_000
)

// autoCommitBackend mines a block for every submitted transaction so that
// confirmations on the simulated network resolve immediately.
type autoCommitBackend struct {
	simulated.Client

	mu  sync.Mutex
	sim *simulated.Backend
}

func (b *autoCommitBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.sim.Commit()
	return nil
}

// newSimulatedClient starts an in-memory chain with a fresh, prefunded deployer key
func newSimulatedClient(ctx context.Context, network *config.Network, artifacts *ArtifactStore, log *slog.Logger) (*Client, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deployer key: %w", err)
	}
	deployer := crypto.PubkeyToAddress(key.PublicKey)

	genesis := types.GenesisAlloc{
		deployer: {Balance: simulatedPrefund},
	}
	sim := simulated.NewBackend(genesis, simulated.WithBlockGasLimit(simulatedGasLimit))
	sim.Commit()

	backend := &autoCommitBackend{Client: sim.Client(), sim: sim}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		sim.Close()
		return nil, fmt.Errorf("failed to read simulated chain id: %w", err)
	}

	transact, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		sim.Close()
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	log.Debug("simulated network started", "deployer", deployer.Hex(), "chainId", chainID)

	return NewClient(network, chainID, backend, transact, artifacts, log, func() { sim.Close() }), nil
}
