package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BundledPlan(t *testing.T) {
	plan, err := NewLoaderAdapter().Load(context.Background(), filepath.Join("..", "..", "..", "plans", "liquidity-rails.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "liquidity-rails", plan.Name)
	assert.Equal(t, []string{
		"FRYToken", "AgentBVerifier", "ConfidentialPositionVerifier", "LiquidityRailsRouter", "WreckageMatchingPool",
	}, plan.ContractNames())
	assert.Equal(t, []string{"FRYToken"}, plan.Contracts[3].Dependencies())
	require.Len(t, plan.Grants, 2)
	assert.Equal(t, domain.RoleGrant{On: "FRYToken", Role: "MINTER_ROLE", Grantee: "WreckageMatchingPool"}, plan.Grants[1])
	assert.Equal(t, []string{"fhenix"}, plan.VariantNames())
	assert.NoError(t, plan.Validate())
}

func TestParse_Args(t *testing.T) {
	doc := `
version: "1"
name: args
contracts:
  - name: Token
  - name: Vault
    artifact: VaultV2
    args:
      - ref: Token
      - 1000000000000000000000000
      - true
      - "0x00000000000000000000000000000000000000aa"
      - value: 42
`
	plan, err := NewLoaderAdapter().Parse([]byte(doc))
	require.NoError(t, err)

	vault := plan.Contracts[1]
	assert.Equal(t, "VaultV2", vault.ArtifactName())
	require.Len(t, vault.Args, 5)
	assert.Equal(t, "Token", vault.Args[0].Ref)
	assert.Equal(t, "1000000000000000000000000", vault.Args[1].Value)
	assert.Equal(t, true, vault.Args[2].Value)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", vault.Args[3].Value)
	assert.Equal(t, 42, vault.Args[4].Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing version",
			doc:     "name: x\ncontracts: []\n",
			wantErr: "has no version",
		},
		{
			name:    "unsupported major version",
			doc:     "version: \"2.0\"\nname: x\n",
			wantErr: "unsupported plan version",
		},
		{
			name:    "malformed version",
			doc:     "version: one\nname: x\n",
			wantErr: "invalid plan version",
		},
		{
			name:    "arg with ref and value",
			doc:     "version: \"1\"\ncontracts:\n  - name: A\n    args:\n      - {ref: B, value: 1}\n",
			wantErr: "both ref and value",
		},
		{
			name:    "empty arg mapping",
			doc:     "version: \"1\"\ncontracts:\n  - name: A\n    args:\n      - {}\n",
			wantErr: "either ref or value",
		},
		{
			name:    "not yaml",
			doc:     "contracts: [",
			wantErr: "failed to parse plan file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoaderAdapter().Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := NewLoaderAdapter().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_InvalidPlanIsStillLoaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.yaml")
	doc := "version: \"1.2.0\"\nname: cycle\ncontracts:\n  - name: A\n    args: [{ref: B}]\n  - name: B\n    args: [{ref: A}]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	plan, err := NewLoaderAdapter().Load(context.Background(), path)
	require.NoError(t, err)

	var cycleErr *domain.CyclicDependencyError
	assert.ErrorAs(t, plan.Validate(), &cycleErr)
}
