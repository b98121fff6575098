package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

const (
	dialAttempts = 3
	dialDelay    = 500 * time.Millisecond
)

// ConnectorAdapter opens chain clients for resolved networks
type ConnectorAdapter struct {
	artifacts *ArtifactStore
	log       *slog.Logger
}

// NewConnectorAdapter creates a new ConnectorAdapter
func NewConnectorAdapter(artifacts *ArtifactStore, log *slog.Logger) *ConnectorAdapter {
	return &ConnectorAdapter{artifacts: artifacts, log: log}
}

// Connect dials the network RPC, checks its chain id and loads the deployer
// key. Only the dial and the chain id query are retried.
func (c *ConnectorAdapter) Connect(ctx context.Context, network *config.Network) (usecase.ChainClient, error) {
	if network.IsSimulated() {
		return newSimulatedClient(ctx, network, c.artifacts, c.log)
	}

	key, err := loadDeployerKey(network.DeployerKeyEnv)
	if err != nil {
		return nil, err
	}

	var (
		client  *ethclient.Client
		chainID *big.Int
	)
	err = retry.Do(
		func() error {
			dialed, err := ethclient.DialContext(ctx, network.RPCURL)
			if err != nil {
				return err
			}
			id, err := dialed.ChainID(ctx)
			if err != nil {
				dialed.Close()
				return err
			}
			client, chainID = dialed, id
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(dialAttempts),
		retry.Delay(dialDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			c.log.Warn("RPC not reachable, retrying", "network", network.Name, "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}

	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch for %s: configured %d, RPC reports %d", network.Name, network.ChainID, chainID.Uint64())
	}

	transact, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	return NewClient(network, chainID, client, transact, c.artifacts, c.log, client.Close), nil
}

func loadDeployerKey(envName string) (*ecdsa.PrivateKey, error) {
	raw := strings.TrimSpace(os.Getenv(envName))
	if raw == "" {
		return nil, fmt.Errorf("%w: set %s", domain.ErrNoSigner, envName)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key in %s: %w", envName, err)
	}
	return key, nil
}

// Ensure ConnectorAdapter implements ChainConnector
var _ usecase.ChainConnector = (*ConnectorAdapter)(nil)
