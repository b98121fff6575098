package app

import (
	"log/slog"

	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Journal usecase.RunJournal

	// Use cases
	DeployPlan   *usecase.DeployPlan
	ShowPlan     *usecase.ShowPlan
	ShowManifest *usecase.ShowManifest
	RunStatus    *usecase.RunStatus
	ListNetworks *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	journal usecase.RunJournal,
	deployPlan *usecase.DeployPlan,
	showPlan *usecase.ShowPlan,
	showManifest *usecase.ShowManifest,
	runStatus *usecase.RunStatus,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:       cfg,
		Log:          log,
		Journal:      journal,
		DeployPlan:   deployPlan,
		ShowPlan:     showPlan,
		ShowManifest: showManifest,
		RunStatus:    runStatus,
		ListNetworks: listNetworks,
	}, nil
}
