package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
)

// ShowManifestParams contains parameters for ShowManifest
type ShowManifestParams struct {
	// Check reads the code at every manifest address on the manifest's network
	Check bool
}

// ShowManifestResult is the persisted manifest, optionally checked on chain
type ShowManifestResult struct {
	Location string
	Manifest *domain.DeploymentManifest
	Checks   []domain.ContractCheck
}

// ShowManifest reads back the manifest of the last successful run
type ShowManifest struct {
	manifests ManifestRepository
	resolver  NetworkResolver
	checker   ContractChecker
}

// NewShowManifest creates a new ShowManifest use case
func NewShowManifest(manifests ManifestRepository, resolver NetworkResolver, checker ContractChecker) *ShowManifest {
	return &ShowManifest{manifests: manifests, resolver: resolver, checker: checker}
}

// Run reads the manifest
func (uc *ShowManifest) Run(ctx context.Context, params ShowManifestParams) (*ShowManifestResult, error) {
	manifest, err := uc.manifests.ReadManifest(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowManifestResult{
		Location: uc.manifests.Location(),
		Manifest: manifest,
	}
	if !params.Check {
		return result, nil
	}

	network, err := uc.resolver.Resolve(manifest.Network)
	if err != nil {
		return nil, err
	}

	addresses := make(map[string]common.Address, len(manifest.Contracts))
	for name, hex := range manifest.Contracts {
		if !common.IsHexAddress(hex) {
			return nil, fmt.Errorf("manifest entry %s has invalid address %q", name, hex)
		}
		addresses[name] = common.HexToAddress(hex)
	}

	result.Checks, err = uc.checker.CheckContracts(ctx, network, addresses)
	if err != nil {
		return nil, err
	}
	return result, nil
}
