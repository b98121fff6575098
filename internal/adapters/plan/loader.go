package plan

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the plan schema range this loader understands
const SupportedVersions = "^1"

// planFile is the YAML layout of a deployment plan
type planFile struct {
	Version   string                    `yaml:"version"`
	Name      string                    `yaml:"name"`
	Contracts []contractEntry           `yaml:"contracts"`
	Grants    []domain.RoleGrant        `yaml:"grants"`
	Variants  map[string]domain.Variant `yaml:"variants"`
}

type contractEntry struct {
	Name     string     `yaml:"name"`
	Artifact string     `yaml:"artifact"`
	Args     []argEntry `yaml:"args"`
}

// argEntry accepts either a scalar literal or a {ref: Name} mapping
type argEntry domain.ConstructorArg

func (a *argEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		a.Value = decodeScalar(node)
		return nil
	case yaml.MappingNode:
		var entry struct {
			Ref   string `yaml:"ref"`
			Value any    `yaml:"value"`
		}
		if err := node.Decode(&entry); err != nil {
			return err
		}
		if entry.Ref == "" && entry.Value == nil {
			return fmt.Errorf("line %d: argument needs either ref or value", node.Line)
		}
		if entry.Ref != "" && entry.Value != nil {
			return fmt.Errorf("line %d: argument cannot have both ref and value", node.Line)
		}
		a.Ref = entry.Ref
		a.Value = entry.Value
		return nil
	default:
		return fmt.Errorf("line %d: unsupported constructor argument", node.Line)
	}
}

// decodeScalar keeps numbers as their literal text so that values beyond
// 64 bits survive, and turns YAML booleans into bool.
func decodeScalar(node *yaml.Node) any {
	if node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err == nil {
			return b
		}
	}
	return node.Value
}

// LoaderAdapter reads deployment plans from YAML files
type LoaderAdapter struct {
	constraint *semver.Constraints
}

// NewLoaderAdapter creates a new LoaderAdapter
func NewLoaderAdapter() *LoaderAdapter {
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}
	return &LoaderAdapter{constraint: constraint}
}

// Load reads and decodes the plan at path. The plan is not validated here;
// validation belongs to the executor.
func (l *LoaderAdapter) Load(_ context.Context, path string) (*domain.DeploymentPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: plan file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	return l.Parse(data)
}

// Parse decodes a plan document
func (l *LoaderAdapter) Parse(data []byte) (*domain.DeploymentPlan, error) {
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	if err := l.checkVersion(file.Version); err != nil {
		return nil, err
	}

	plan := &domain.DeploymentPlan{
		Version:  file.Version,
		Name:     file.Name,
		Grants:   file.Grants,
		Variants: file.Variants,
	}
	for _, entry := range file.Contracts {
		spec := domain.ContractSpec{Name: entry.Name, Artifact: entry.Artifact}
		for _, arg := range entry.Args {
			spec.Args = append(spec.Args, domain.ConstructorArg(arg))
		}
		plan.Contracts = append(plan.Contracts, spec)
	}

	return plan, nil
}

func (l *LoaderAdapter) checkVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("plan file has no version (expected %s)", SupportedVersions)
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("invalid plan version %q: %w", raw, err)
	}
	if !l.constraint.Check(version) {
		return fmt.Errorf("unsupported plan version %s (supported: %s)", version, SupportedVersions)
	}
	return nil
}

// Ensure LoaderAdapter implements PlanLoader
var _ usecase.PlanLoader = (*LoaderAdapter)(nil)
