package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
)

// Chain interaction

// ChainClient signs, broadcasts and confirms operations on one network.
// Submission and confirmation are separate so that the executor controls
// when it blocks.
type ChainClient interface {
	NetworkName() string
	ChainID() uint64
	CurrentSigner(ctx context.Context) (*domain.Signer, error)
	Deploy(ctx context.Context, artifact string, args []any) (PendingDeployment, error)
	SendTransaction(ctx context.Context, target common.Address, call domain.ContractCall) (PendingTransaction, error)
	QueryRole(ctx context.Context, contract common.Address, roleName string) (domain.RoleID, error)
	Close()
}

// PendingDeployment is a submitted contract creation. Args returns the
// constructor arguments as ABI-encoded for the transaction.
type PendingDeployment interface {
	Address() common.Address
	TxHash() common.Hash
	Args() []any
	Confirm(ctx context.Context) (*domain.Receipt, error)
}

// PendingTransaction is a submitted state-changing call
type PendingTransaction interface {
	TxHash() common.Hash
	Confirm(ctx context.Context) (*domain.Receipt, error)
}

// ChainConnector opens a ChainClient for a resolved network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network) (ChainClient, error)
}

// ContractChecker reports whether the addresses of a manifest still hold code
type ContractChecker interface {
	CheckContracts(ctx context.Context, network *config.Network, contracts map[string]common.Address) ([]domain.ContractCheck, error)
}

// Persistence

// ManifestSink persists the manifest of a successful run
type ManifestSink interface {
	WriteManifest(ctx context.Context, manifest *domain.DeploymentManifest) error
}

// ManifestRepository reads back what a ManifestSink wrote
type ManifestRepository interface {
	ManifestSink
	ReadManifest(ctx context.Context) (*domain.DeploymentManifest, error)
	Location() string
}

// RunJournal stores the latest run record per plan
type RunJournal interface {
	Save(ctx context.Context, record *domain.RunRecord) error
	Load(ctx context.Context, planName string) (*domain.RunRecord, error)
	Path(planName string) string
}

// PlanLoader reads a deployment plan file
type PlanLoader interface {
	Load(ctx context.Context, path string) (*domain.DeploymentPlan, error)
}

// NetworkResolver resolves network names to configurations
type NetworkResolver interface {
	Names() []string
	Resolve(name string) (*config.Network, error)
}

// Operator interaction

// BroadcastSummary is what the operator sees before approving a broadcast
type BroadcastSummary struct {
	Plan      string
	Variant   string
	Network   string
	ChainID   uint64
	Deployer  common.Address
	Balance   *big.Int
	Contracts int
	Grants    int
}

// BroadcastConfirmer asks the operator to approve sending transactions
type BroadcastConfirmer interface {
	ConfirmBroadcast(ctx context.Context, summary BroadcastSummary) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
