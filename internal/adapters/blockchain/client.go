package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// Backend is the subset of an RPC client the chain client needs
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

var errReverted = errors.New("transaction reverted")

const accessControlABI = `[
	{"type":"function","name":"grantRole","stateMutability":"nonpayable",
	 "inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]}
]`

var accessControl = mustParseABI(accessControlABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// roleGetterABI describes a public bytes32 constant such as MINTER_ROLE
func roleGetterABI(roleName string) (abi.ABI, error) {
	raw := fmt.Sprintf(`[{"type":"function","name":%q,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]}]`, roleName)
	return abi.JSON(strings.NewReader(raw))
}

// Client implements usecase.ChainClient with go-ethereum bindings. One
// client signs with one key on one network.
type Client struct {
	network   *config.Network
	chainID   *big.Int
	backend   Backend
	transact  *bind.TransactOpts
	artifacts *ArtifactStore
	log       *slog.Logger
	closer    func()

	mu   sync.Mutex
	abis map[common.Address]abi.ABI
}

// NewClient creates a Client. closer releases the backend, it may be nil.
func NewClient(
	network *config.Network,
	chainID *big.Int,
	backend Backend,
	transact *bind.TransactOpts,
	artifacts *ArtifactStore,
	log *slog.Logger,
	closer func(),
) *Client {
	return &Client{
		network:   network,
		chainID:   chainID,
		backend:   backend,
		transact:  transact,
		artifacts: artifacts,
		log:       log.With("component", "ChainClient", "network", network.Name),
		closer:    closer,
		abis:      make(map[common.Address]abi.ABI),
	}
}

func (c *Client) NetworkName() string {
	return c.network.Name
}

func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// CurrentSigner returns the deployer account and its current balance
func (c *Client) CurrentSigner(ctx context.Context) (*domain.Signer, error) {
	balance, err := c.backend.BalanceAt(ctx, c.transact.From, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", c.transact.From.Hex(), err)
	}
	return &domain.Signer{Address: c.transact.From, Balance: balance}, nil
}

// Deploy submits the creation transaction of an artifact
func (c *Client) Deploy(ctx context.Context, artifactName string, args []any) (usecase.PendingDeployment, error) {
	artifact, err := c.artifacts.Load(artifactName)
	if err != nil {
		return nil, err
	}

	params, err := ConvertArgs(artifact.ABI.Constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("constructor of %s: %w", artifactName, err)
	}

	address, tx, _, err := bind.DeployContract(c.opts(ctx), artifact.ABI, artifact.Bytecode, c.backend, params...)
	if err != nil {
		return nil, err
	}
	c.log.Debug("creation submitted", "artifact", artifactName, "address", address.Hex(), "tx", tx.Hash().Hex())

	c.mu.Lock()
	c.abis[address] = artifact.ABI
	c.mu.Unlock()

	return &pendingDeployment{client: c, address: address, tx: tx, args: params}, nil
}

// SendTransaction submits call on target. Contracts deployed by this client
// are called through their own ABI; others fall back to AccessControl.
func (c *Client) SendTransaction(ctx context.Context, target common.Address, call domain.ContractCall) (usecase.PendingTransaction, error) {
	contractABI := c.abiFor(target, call.Method)

	method, ok := contractABI.Methods[call.Method]
	if !ok {
		return nil, fmt.Errorf("contract %s has no method %s", target.Hex(), call.Method)
	}

	params, err := ConvertArgs(method.Inputs, call.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.Method, err)
	}

	bound := bind.NewBoundContract(target, contractABI, c.backend, c.backend, c.backend)
	tx, err := bound.Transact(c.opts(ctx), call.Method, params...)
	if err != nil {
		return nil, err
	}
	c.log.Debug("transaction submitted", "to", target.Hex(), "call", call.String(), "tx", tx.Hash().Hex())

	return &pendingTransaction{client: c, tx: tx}, nil
}

// QueryRole reads the bytes32 role identifier exposed by a role getter
func (c *Client) QueryRole(ctx context.Context, contract common.Address, roleName string) (domain.RoleID, error) {
	getter, err := roleGetterABI(roleName)
	if err != nil {
		return domain.RoleID{}, fmt.Errorf("invalid role name %q: %w", roleName, err)
	}

	bound := bind.NewBoundContract(contract, getter, c.backend, c.backend, c.backend)

	var out []interface{}
	if err := bound.Call(&bind.CallOpts{Context: ctx, From: c.transact.From}, &out, roleName); err != nil {
		return domain.RoleID{}, err
	}
	if len(out) != 1 {
		return domain.RoleID{}, fmt.Errorf("%s returned %d values", roleName, len(out))
	}

	role, ok := out[0].([32]byte)
	if !ok {
		return domain.RoleID{}, fmt.Errorf("%s returned %T, expected bytes32", roleName, out[0])
	}
	return domain.RoleID(role), nil
}

func (c *Client) abiFor(target common.Address, method string) abi.ABI {
	c.mu.Lock()
	defer c.mu.Unlock()

	if known, ok := c.abis[target]; ok {
		if _, has := known.Methods[method]; has {
			return known
		}
	}
	return accessControl
}

func (c *Client) opts(ctx context.Context) *bind.TransactOpts {
	opts := *c.transact
	opts.Context = ctx
	return &opts
}

// waitMined blocks until tx is mined and fails on a reverted receipt
func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*domain.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}

	result := &domain.Receipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w in block %d", errReverted, result.BlockNumber)
	}
	return result, nil
}

type pendingDeployment struct {
	client  *Client
	address common.Address
	tx      *types.Transaction
	args    []any
}

func (p *pendingDeployment) Address() common.Address { return p.address }
func (p *pendingDeployment) TxHash() common.Hash     { return p.tx.Hash() }
func (p *pendingDeployment) Args() []any             { return p.args }

func (p *pendingDeployment) Confirm(ctx context.Context) (*domain.Receipt, error) {
	receipt, err := p.client.waitMined(ctx, p.tx)
	if err != nil {
		return nil, err
	}

	code, err := p.client.backend.CodeAt(ctx, p.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read code at %s: %w", p.address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, bind.ErrNoCodeAfterDeploy
	}
	return receipt, nil
}

type pendingTransaction struct {
	client *Client
	tx     *types.Transaction
}

func (p *pendingTransaction) TxHash() common.Hash { return p.tx.Hash() }

func (p *pendingTransaction) Confirm(ctx context.Context) (*domain.Receipt, error) {
	return p.client.waitMined(ctx, p.tx)
}

// Ensure Client implements ChainClient
var _ usecase.ChainClient = (*Client)(nil)
