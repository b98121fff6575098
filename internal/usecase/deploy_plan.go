package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
)

// DeployPlanParams contains parameters for a deployment run
type DeployPlanParams struct {
	// PlanPath overrides the configured plan file
	PlanPath string
	// Variant overrides the configured variant
	Variant string
}

// DeployPlan loads a plan, opens the chain client for the configured
// network and hands both to the executor.
type DeployPlan struct {
	config    *config.RuntimeConfig
	loader    PlanLoader
	connector ChainConnector
	manifests ManifestSink
	confirmer BroadcastConfirmer
	executor  *ExecutePlan
	log       *slog.Logger
}

// NewDeployPlan creates a new DeployPlan use case
func NewDeployPlan(
	cfg *config.RuntimeConfig,
	loader PlanLoader,
	connector ChainConnector,
	manifests ManifestSink,
	confirmer BroadcastConfirmer,
	executor *ExecutePlan,
	log *slog.Logger,
) *DeployPlan {
	return &DeployPlan{
		config:    cfg,
		loader:    loader,
		connector: connector,
		manifests: manifests,
		confirmer: confirmer,
		executor:  executor,
		log:       log.With("component", "DeployPlan"),
	}
}

// Run executes a deployment. Plan errors surface before any connection is
// opened, so an invalid plan never reaches the chain.
func (uc *DeployPlan) Run(ctx context.Context, params DeployPlanParams) (*RunResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected, use --network")
	}

	plan, err := uc.loadPlan(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, &domain.RunError{State: domain.StateValidatingPlan, Cause: err}
	}

	uc.log.Debug("connecting", "network", network.Name, "rpc", network.RPCURL)
	client, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if uc.needsConfirmation(network) {
		if err := uc.confirm(ctx, plan, client); err != nil {
			return nil, err
		}
	}

	return uc.executor.Execute(ctx, plan, client, uc.manifests)
}

func (uc *DeployPlan) loadPlan(ctx context.Context, params DeployPlanParams) (*domain.DeploymentPlan, error) {
	path := params.PlanPath
	if path == "" {
		path = uc.config.PlanPath
	}
	variant := params.Variant
	if variant == "" {
		variant = uc.config.Variant
	}

	plan, err := uc.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return plan.WithVariant(variant)
}

// needsConfirmation reports whether the operator must approve the broadcast
func (uc *DeployPlan) needsConfirmation(network *config.Network) bool {
	if network.Local || uc.config.IsLocalNetwork(network.Name) {
		return false
	}
	return !uc.config.NonInteractive && !uc.config.AssumeYes
}

func (uc *DeployPlan) confirm(ctx context.Context, plan *domain.DeploymentPlan, client ChainClient) error {
	signer, err := client.CurrentSigner(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve signer: %w", err)
	}

	ok, err := uc.confirmer.ConfirmBroadcast(ctx, BroadcastSummary{
		Plan:      plan.Name,
		Variant:   plan.Variant,
		Network:   client.NetworkName(),
		ChainID:   client.ChainID(),
		Deployer:  signer.Address,
		Balance:   signer.Balance,
		Contracts: len(plan.Contracts),
		Grants:    len(plan.Grants),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return err
		}
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}
