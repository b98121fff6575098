//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/liquidity-rails/rails-deploy/internal/adapters"
	"github.com/liquidity-rails/rails-deploy/internal/config"
	"github.com/liquidity-rails/rails-deploy/internal/logging"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,

		// Logging
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewExecutePlan,
		usecase.NewDeployPlan,
		usecase.NewShowPlan,
		usecase.NewShowManifest,
		usecase.NewRunStatus,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
