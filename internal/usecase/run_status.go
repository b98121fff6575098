package usecase

import (
	"context"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
)

// RunStatusParams contains parameters for RunStatus
type RunStatusParams struct {
	// Plan is the plan name. When empty the configured plan file is read
	// for its name.
	Plan string
}

// RunStatusResult is the journal of the last run of a plan
type RunStatusResult struct {
	Path   string
	Record *domain.RunRecord
}

// RunStatus reads the run journal, for recovering from a failed run
type RunStatus struct {
	config  *config.RuntimeConfig
	loader  PlanLoader
	journal RunJournal
}

// NewRunStatus creates a new RunStatus use case
func NewRunStatus(cfg *config.RuntimeConfig, loader PlanLoader, journal RunJournal) *RunStatus {
	return &RunStatus{config: cfg, loader: loader, journal: journal}
}

// Run loads the last journal entry of the plan
func (uc *RunStatus) Run(ctx context.Context, params RunStatusParams) (*RunStatusResult, error) {
	name := params.Plan
	if name == "" {
		plan, err := uc.loader.Load(ctx, uc.config.PlanPath)
		if err != nil {
			return nil, err
		}
		name = plan.Name
	}

	record, err := uc.journal.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	return &RunStatusResult{Path: uc.journal.Path(name), Record: record}, nil
}
