package usecase

import (
	"context"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
)

// ShowPlanParams contains parameters for ShowPlan
type ShowPlanParams struct {
	PlanPath string
	Variant  string
}

// ShowPlanResult is a validated plan and its execution order
type ShowPlanResult struct {
	Path     string
	Plan     *domain.DeploymentPlan
	Order    []domain.ContractSpec
	Variants []string
}

// ShowPlan validates a plan without touching a chain
type ShowPlan struct {
	config *config.RuntimeConfig
	loader PlanLoader
}

// NewShowPlan creates a new ShowPlan use case
func NewShowPlan(cfg *config.RuntimeConfig, loader PlanLoader) *ShowPlan {
	return &ShowPlan{config: cfg, loader: loader}
}

// Run loads the plan, applies the variant and computes the deployment order
func (uc *ShowPlan) Run(ctx context.Context, params ShowPlanParams) (*ShowPlanResult, error) {
	path := params.PlanPath
	if path == "" {
		path = uc.config.PlanPath
	}
	variant := params.Variant
	if variant == "" {
		variant = uc.config.Variant
	}

	base, err := uc.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	plan, err := base.WithVariant(variant)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	order, err := plan.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	return &ShowPlanResult{
		Path:     path,
		Plan:     plan,
		Order:    order,
		Variants: base.VariantNames(),
	}, nil
}
