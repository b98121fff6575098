package fs

import (
	"context"
	"fmt"
	"os"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// ManifestStoreAdapter persists the deployment manifest as a JSON file at a
// fixed path. Each write fully replaces the previous manifest.
type ManifestStoreAdapter struct {
	path string
}

// NewManifestStoreAdapter creates a new ManifestStoreAdapter
func NewManifestStoreAdapter(cfg *config.RuntimeConfig) *ManifestStoreAdapter {
	return &ManifestStoreAdapter{path: cfg.ManifestPath}
}

// WriteManifest replaces the manifest file
func (s *ManifestStoreAdapter) WriteManifest(_ context.Context, manifest *domain.DeploymentManifest) error {
	if manifest.Contracts == nil {
		manifest.Contracts = map[string]string{}
	}
	return writeJSONAtomic(s.path, manifest)
}

// ReadManifest reads the manifest file. Returns domain.ErrNotFound when no
// run has completed yet.
func (s *ManifestStoreAdapter) ReadManifest(_ context.Context) (*domain.DeploymentManifest, error) {
	var manifest domain.DeploymentManifest
	if err := readJSON(s.path, &manifest); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no manifest at %s", domain.ErrNotFound, s.path)
		}
		return nil, err
	}
	return &manifest, nil
}

// Location returns the manifest path
func (s *ManifestStoreAdapter) Location() string {
	return s.path
}

// Ensure ManifestStoreAdapter implements ManifestRepository
var _ usecase.ManifestRepository = (*ManifestStoreAdapter)(nil)
