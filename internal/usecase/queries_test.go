package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShowPlan(t *testing.T) {
	plan := railsPlan()
	plan.Contracts[0], plan.Contracts[3] = plan.Contracts[3], plan.Contracts[0]
	plan.Variants = map[string]domain.Variant{
		"fhenix": {Artifacts: map[string]string{"ConfidentialPositionVerifier": "FhenixConfidentialPositionVerifier"}},
	}

	cfg := testRuntimeConfig()
	cfg.PlanPath = testPlanPath

	t.Run("orders contracts by dependency", func(t *testing.T) {
		loader := &MockPlanLoader{}
		loader.On("Load", mock.Anything, testPlanPath).Return(plan, nil)

		result, err := usecase.NewShowPlan(cfg, loader).Run(context.Background(), usecase.ShowPlanParams{})
		require.NoError(t, err)

		names := (&domain.DeploymentPlan{Contracts: result.Order}).ContractNames()
		assert.Equal(t, []string{"AgentBVerifier", "ConfidentialPositionVerifier", "FRYToken", "LiquidityRailsRouter", "WreckageMatchingPool"}, names)
		assert.Equal(t, []string{"fhenix"}, result.Variants)
		assert.Equal(t, testPlanPath, result.Path)
	})

	t.Run("applies the variant", func(t *testing.T) {
		loader := &MockPlanLoader{}
		loader.On("Load", mock.Anything, testPlanPath).Return(plan, nil)

		result, err := usecase.NewShowPlan(cfg, loader).Run(context.Background(), usecase.ShowPlanParams{Variant: "fhenix"})
		require.NoError(t, err)

		assert.Equal(t, "fhenix", result.Plan.Variant)
		for _, spec := range result.Order {
			if spec.Name == "ConfidentialPositionVerifier" {
				assert.Equal(t, "FhenixConfidentialPositionVerifier", spec.ArtifactName())
			}
		}
	})

	t.Run("invalid plan", func(t *testing.T) {
		broken := railsPlan()
		broken.Grants = append(broken.Grants, domain.RoleGrant{On: "FRYToken", Role: "MINTER_ROLE", Grantee: "Treasury"})
		loader := &MockPlanLoader{}
		loader.On("Load", mock.Anything, "other.yaml").Return(broken, nil)

		_, err := usecase.NewShowPlan(cfg, loader).Run(context.Background(), usecase.ShowPlanParams{PlanPath: "other.yaml"})

		var refErr *domain.UnknownReferenceError
		assert.ErrorAs(t, err, &refErr)
	})
}

func TestShowManifest(t *testing.T) {
	token := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	manifests := &memoryManifests{writes: []*domain.DeploymentManifest{{
		Network:   "arbitrum-sepolia",
		Deployer:  deployerAddress.Hex(),
		Timestamp: "2026-03-14T09:26:53.589Z",
		Contracts: map[string]string{"FRYToken": token.Hex()},
	}}}
	network := &config.Network{Name: "arbitrum-sepolia", RPCURL: "https://rpc.example"}
	resolver := staticResolver{"arbitrum-sepolia": network}

	t.Run("without check", func(t *testing.T) {
		checker := &MockContractChecker{}

		result, err := usecase.NewShowManifest(manifests, resolver, checker).Run(context.Background(), usecase.ShowManifestParams{})
		require.NoError(t, err)

		assert.Equal(t, "memory://deployment.json", result.Location)
		assert.Equal(t, "arbitrum-sepolia", result.Manifest.Network)
		assert.Nil(t, result.Checks)
		checker.AssertNotCalled(t, "CheckContracts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("with check", func(t *testing.T) {
		checks := []domain.ContractCheck{{Name: "FRYToken", Address: token.Hex(), HasCode: true}}
		checker := &MockContractChecker{}
		checker.On("CheckContracts", mock.Anything, network, map[string]common.Address{"FRYToken": token}).Return(checks, nil)

		result, err := usecase.NewShowManifest(manifests, resolver, checker).Run(context.Background(), usecase.ShowManifestParams{Check: true})
		require.NoError(t, err)

		assert.Equal(t, checks, result.Checks)
		checker.AssertExpectations(t)
	})

	t.Run("unknown manifest network", func(t *testing.T) {
		_, err := usecase.NewShowManifest(manifests, staticResolver{}, &MockContractChecker{}).Run(context.Background(), usecase.ShowManifestParams{Check: true})

		var networkErr *domain.UnknownNetworkError
		assert.ErrorAs(t, err, &networkErr)
	})

	t.Run("no manifest yet", func(t *testing.T) {
		_, err := usecase.NewShowManifest(&memoryManifests{}, resolver, &MockContractChecker{}).Run(context.Background(), usecase.ShowManifestParams{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRunStatus(t *testing.T) {
	cfg := testRuntimeConfig()
	cfg.PlanPath = testPlanPath

	t.Run("resolves the plan name from the plan file", func(t *testing.T) {
		journal := &MockRunJournal{}
		record := &domain.RunRecord{RunID: "run-1", Plan: "liquidity-rails", State: domain.StateFailed}
		journal.On("Load", mock.Anything, "liquidity-rails").Return(record, nil)
		journal.On("Path", "liquidity-rails").Return("/project/out/.rails/run-liquidity-rails.json")

		loader := &MockPlanLoader{}
		loader.On("Load", mock.Anything, testPlanPath).Return(railsPlan(), nil)

		result, err := usecase.NewRunStatus(cfg, loader, journal).Run(context.Background(), usecase.RunStatusParams{})
		require.NoError(t, err)

		assert.Same(t, record, result.Record)
		assert.Equal(t, "/project/out/.rails/run-liquidity-rails.json", result.Path)
	})

	t.Run("explicit plan name skips the plan file", func(t *testing.T) {
		journal := &MockRunJournal{}
		journal.On("Load", mock.Anything, "other").Return(nil, domain.ErrNotFound)
		loader := &MockPlanLoader{}

		_, err := usecase.NewRunStatus(cfg, loader, journal).Run(context.Background(), usecase.RunStatusParams{Plan: "other"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	})
}

func TestListNetworks(t *testing.T) {
	cfg := testRuntimeConfig()
	cfg.Network = &config.Network{Name: "simulated"}
	resolver := staticResolver{
		"arbitrum-sepolia": {Name: "arbitrum-sepolia", RPCURL: "https://rpc.example", ChainID: 421614},
		"hardhat":          {Name: "hardhat", RPCURL: "http://127.0.0.1:8545", Local: true},
		"simulated":        {Name: "simulated", ChainID: 1337, Local: true},
		"base":             nil,
	}

	result, err := usecase.NewListNetworks(cfg, resolver).Run(context.Background(), usecase.ListNetworksParams{})
	require.NoError(t, err)

	assert.Equal(t, "simulated", result.Current)
	require.Len(t, result.Networks, 4)

	byName := make(map[string]usecase.NetworkStatus)
	for _, n := range result.Networks {
		byName[n.Name] = n
	}
	assert.Equal(t, uint64(421614), byName["arbitrum-sepolia"].ChainID)
	assert.False(t, byName["arbitrum-sepolia"].Local)
	assert.True(t, byName["hardhat"].Local)
	assert.True(t, byName["simulated"].Simulated)
	assert.Error(t, byName["base"].Error)
}
