package domain

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// ConstructorArg is one constructor argument of a contract in a plan.
// Exactly one of Value or Ref is meaningful: when Ref is set the argument is
// the address of the named contract, otherwise Value is passed through.
type ConstructorArg struct {
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
	Ref   string `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// IsRef reports whether the argument references another contract in the plan
func (a ConstructorArg) IsRef() bool {
	return a.Ref != ""
}

// String renders the argument the way plan listings show it
func (a ConstructorArg) String() string {
	if a.IsRef() {
		return "@" + a.Ref
	}
	return fmt.Sprint(a.Value)
}

// ContractSpec describes one contract to deploy
type ContractSpec struct {
	Name     string           `yaml:"name" json:"name"`
	Artifact string           `yaml:"artifact,omitempty" json:"artifact,omitempty"`
	Args     []ConstructorArg `yaml:"args,omitempty" json:"args,omitempty"`
}

// ArtifactName returns the compiled artifact used for this contract,
// falling back to the contract name.
func (c ContractSpec) ArtifactName() string {
	if c.Artifact != "" {
		return c.Artifact
	}
	return c.Name
}

// Dependencies returns the distinct contract names referenced by the constructor args
func (c ContractSpec) Dependencies() []string {
	refs := lo.FilterMap(c.Args, func(arg ConstructorArg, _ int) (string, bool) {
		return arg.Ref, arg.IsRef()
	})
	return lo.Uniq(refs)
}

// RoleGrant is a post-deployment grantRole call. Role is the name of the
// role getter on the On contract (e.g. MINTER_ROLE); the identifier itself
// is only known once On is deployed.
type RoleGrant struct {
	On      string `yaml:"on" json:"on"`
	Role    string `yaml:"role" json:"role"`
	Grantee string `yaml:"grantee" json:"grantee"`
}

func (g RoleGrant) String() string {
	return fmt.Sprintf("%s.%s -> %s", g.On, g.Role, g.Grantee)
}

// Variant rewrites the artifacts used by some contracts of a plan
type Variant struct {
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Artifacts   map[string]string `yaml:"artifacts" json:"artifacts"`
}

// DeploymentPlan is an ordered set of contracts plus the role grants executed
// after all of them are deployed.
type DeploymentPlan struct {
	Version   string             `yaml:"version" json:"version"`
	Name      string             `yaml:"name" json:"name"`
	Contracts []ContractSpec     `yaml:"contracts" json:"contracts"`
	Grants    []RoleGrant        `yaml:"grants,omitempty" json:"grants,omitempty"`
	Variants  map[string]Variant `yaml:"variants,omitempty" json:"variants,omitempty"`

	// Variant is the name of the applied variant, empty for the base plan
	Variant string `yaml:"-" json:"variant,omitempty"`
}

// ContractNames returns contract names in declaration order
func (p *DeploymentPlan) ContractNames() []string {
	return lo.Map(p.Contracts, func(c ContractSpec, _ int) string { return c.Name })
}

// VariantNames returns the declared variant names, sorted
func (p *DeploymentPlan) VariantNames() []string {
	names := lo.Keys(p.Variants)
	sort.Strings(names)
	return names
}

// Validate checks the whole plan: the contract dependency graph and every
// role grant. It returns an *InvalidPlanError on failure.
func (p *DeploymentPlan) Validate() error {
	if _, err := p.TopologicalOrder(); err != nil {
		return err
	}

	names := p.ContractNames()
	for _, grant := range p.Grants {
		if grant.Role == "" {
			return &InvalidPlanError{Cause: fmt.Errorf("grant %s has no role", grant)}
		}
		for _, ref := range []string{grant.On, grant.Grantee} {
			if !lo.Contains(names, ref) {
				return &InvalidPlanError{Cause: &UnknownReferenceError{
					From:      "grant " + grant.String(),
					Reference: ref,
					Known:     names,
				}}
			}
		}
	}

	return nil
}

// TopologicalOrder validates the constructor dependency graph and returns
// the contracts so that every dependency precedes its dependents. Ties are
// broken by declaration order, so a plan that is already ordered keeps its
// order.
func (p *DeploymentPlan) TopologicalOrder() ([]ContractSpec, error) {
	index := make(map[string]int, len(p.Contracts))
	for i, spec := range p.Contracts {
		if spec.Name == "" {
			return nil, &InvalidPlanError{Cause: fmt.Errorf("contract #%d has no name", i+1)}
		}
		if _, exists := index[spec.Name]; exists {
			return nil, &InvalidPlanError{Cause: &DuplicateContractError{Name: spec.Name}}
		}
		index[spec.Name] = i
	}

	names := p.ContractNames()
	inDegree := make([]int, len(p.Contracts))
	dependents := make([][]int, len(p.Contracts))

	for i, spec := range p.Contracts {
		for _, dep := range spec.Dependencies() {
			j, exists := index[dep]
			if !exists {
				return nil, &InvalidPlanError{Cause: &UnknownReferenceError{
					From:      spec.Name,
					Reference: dep,
					Known:     names,
				}}
			}
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// ready holds declaration indices with no pending dependencies, kept sorted
	var ready []int
	for i, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]ContractSpec, 0, len(p.Contracts))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		result = append(result, p.Contracts[current])

		for _, dependent := range dependents[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
				sort.Ints(ready)
			}
		}
	}

	if len(result) != len(p.Contracts) {
		return nil, &InvalidPlanError{Cause: &CyclicDependencyError{Contracts: p.cycleMembers(index, inDegree, dependents)}}
	}

	return result, nil
}

// cycleMembers names the contracts left unsorted that lie on a cycle.
// Contracts that merely depend on a cycle are peeled off the leftover set
// until every remaining one has a dependent inside it.
func (p *DeploymentPlan) cycleMembers(index map[string]int, inDegree []int, dependents [][]int) []string {
	left := make([]bool, len(inDegree))
	for i, degree := range inDegree {
		left[i] = degree > 0
	}

	outDegree := make([]int, len(inDegree))
	for i := range dependents {
		if !left[i] {
			continue
		}
		for _, dependent := range dependents[i] {
			if left[dependent] {
				outDegree[i]++
			}
		}
	}

	var leaves []int
	for i := range left {
		if left[i] && outDegree[i] == 0 {
			leaves = append(leaves, i)
		}
	}
	for len(leaves) > 0 {
		leaf := leaves[0]
		leaves = leaves[1:]
		left[leaf] = false

		for _, dep := range p.Contracts[leaf].Dependencies() {
			j := index[dep]
			if !left[j] {
				continue
			}
			outDegree[j]--
			if outDegree[j] == 0 {
				leaves = append(leaves, j)
			}
		}
	}

	var cycle []string
	for i, remaining := range left {
		if remaining {
			cycle = append(cycle, p.Contracts[i].Name)
		}
	}
	return cycle
}

// WithVariant returns a copy of the plan with the named variant applied
func (p *DeploymentPlan) WithVariant(name string) (*DeploymentPlan, error) {
	if name == "" {
		return p, nil
	}

	variant, ok := p.Variants[name]
	if !ok {
		return nil, &UnknownVariantError{Name: name, Known: p.VariantNames()}
	}

	applied := *p
	applied.Variant = name
	applied.Contracts = make([]ContractSpec, len(p.Contracts))
	copy(applied.Contracts, p.Contracts)

	names := p.ContractNames()
	for contract, artifact := range variant.Artifacts {
		i := lo.IndexOf(names, contract)
		if i < 0 {
			return nil, &InvalidPlanError{Cause: &UnknownReferenceError{
				From:      "variant " + name,
				Reference: contract,
				Known:     names,
			}}
		}
		applied.Contracts[i].Artifact = artifact
	}

	return &applied, nil
}
