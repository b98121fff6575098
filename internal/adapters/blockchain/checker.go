package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

const checkTimeout = 5 * time.Second

// CodeReader is the read-only part of an RPC client used by the checker
type CodeReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// CheckerAdapter checks manifest addresses against a live network. It
// needs no signer.
type CheckerAdapter struct {
	log  *slog.Logger
	dial func(ctx context.Context, rpcURL string) (CodeReader, func(), error)
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter(log *slog.Logger) *CheckerAdapter {
	return &CheckerAdapter{log: log, dial: dialCodeReader}
}

func dialCodeReader(ctx context.Context, rpcURL string) (CodeReader, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// CheckContracts reads the code at every address, sorted by contract name.
// A lookup failure is reported on the entry, not returned.
func (c *CheckerAdapter) CheckContracts(ctx context.Context, network *config.Network, contracts map[string]common.Address) ([]domain.ContractCheck, error) {
	if network.IsSimulated() {
		return nil, fmt.Errorf("network '%s' is in-memory and keeps no state between runs", network.Name)
	}

	reader, closeFn, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer closeFn()

	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make([]domain.ContractCheck, 0, len(names))
	for _, name := range names {
		address := contracts[name]
		check := domain.ContractCheck{Name: name, Address: address.Hex()}

		code, err := c.codeAt(ctx, reader, address)
		switch {
		case err != nil:
			check.Reason = fmt.Sprintf("failed to check code: %v", err)
		case len(code) == 0:
			check.Reason = "no code at address"
		default:
			check.HasCode = true
		}

		c.log.Debug("checked contract", "contract", name, "address", check.Address, "hasCode", check.HasCode)
		checks = append(checks, check)
	}
	return checks, nil
}

func (c *CheckerAdapter) codeAt(ctx context.Context, reader CodeReader, address common.Address) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return reader.CodeAt(ctx, address, nil)
}

// Ensure the adapter implements the interface
var _ usecase.ContractChecker = (*CheckerAdapter)(nil)
