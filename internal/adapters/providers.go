package adapters

import (
	"github.com/google/wire"
	"github.com/liquidity-rails/rails-deploy/internal/adapters/blockchain"
	"github.com/liquidity-rails/rails-deploy/internal/adapters/fs"
	"github.com/liquidity-rails/rails-deploy/internal/adapters/interactive"
	"github.com/liquidity-rails/rails-deploy/internal/adapters/plan"
	"github.com/liquidity-rails/rails-deploy/internal/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewManifestStoreAdapter,
	wire.Bind(new(usecase.ManifestRepository), new(*fs.ManifestStoreAdapter)),
	wire.Bind(new(usecase.ManifestSink), new(*fs.ManifestStoreAdapter)),

	fs.NewRunJournalAdapter,
	wire.Bind(new(usecase.RunJournal), new(*fs.RunJournalAdapter)),
)

// PlanSet provides plan file implementations
var PlanSet = wire.NewSet(
	plan.NewLoaderAdapter,
	wire.Bind(new(usecase.PlanLoader), new(*plan.LoaderAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewArtifactStore,

	blockchain.NewConnectorAdapter,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.ConnectorAdapter)),

	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.ContractChecker), new(*blockchain.CheckerAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewBroadcastConfirmerAdapter,
	wire.Bind(new(usecase.BroadcastConfirmer), new(*interactive.BroadcastConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	PlanSet,
	BlockchainSet,
	InteractiveSet,
	ConfigSet,
)
