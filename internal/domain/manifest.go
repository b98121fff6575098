package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ManifestTimeLayout is the ISO-8601 layout (UTC, millisecond precision) of manifest timestamps
const ManifestTimeLayout = "2006-01-02T15:04:05.000Z"

// DeploymentManifest is the persisted snapshot of one successful run
type DeploymentManifest struct {
	Network   string            `json:"network"`
	ChainID   uint64            `json:"chainId,omitempty"`
	Deployer  string            `json:"deployer"`
	Timestamp string            `json:"timestamp"`
	RunID     string            `json:"runId,omitempty"`
	Contracts map[string]string `json:"contracts"`
}

// NewDeploymentManifest builds a manifest from the deployed contracts of a run
func NewDeploymentManifest(network string, deployer Signer, at time.Time, deployed []*DeployedContract) *DeploymentManifest {
	contracts := lo.SliceToMap(deployed, func(d *DeployedContract) (string, string) {
		return d.Name, d.Address.Hex()
	})

	return &DeploymentManifest{
		Network:   network,
		Deployer:  deployer.Address.Hex(),
		Timestamp: at.UTC().Format(ManifestTimeLayout),
		Contracts: contracts,
	}
}

// ContractNames returns the manifest's contract names, sorted
func (m *DeploymentManifest) ContractNames() []string {
	names := lo.Keys(m.Contracts)
	sort.Strings(names)
	return names
}

// VerificationInstruction carries what an explorer verifier needs to
// recompute a contract's creation bytecode.
type VerificationInstruction struct {
	ContractName string   `json:"contractName"`
	Artifact     string   `json:"artifact"`
	Address      string   `json:"address"`
	Args         []string `json:"args"`
}

// Command renders the hardhat verify invocation for the instruction
func (v VerificationInstruction) Command(network string) string {
	parts := []string{"npx hardhat verify", "--network", network, v.Address}
	for _, arg := range v.Args {
		if strings.ContainsAny(arg, " \t\"'") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// NewVerificationInstruction builds the instruction for a deployed contract
func NewVerificationInstruction(d *DeployedContract) VerificationInstruction {
	return VerificationInstruction{
		ContractName: d.Name,
		Artifact:     d.Artifact,
		Address:      d.Address.Hex(),
		Args:         lo.Map(d.Args, func(arg any, _ int) string { return FormatArg(arg) }),
	}
}

// ContractCheck is the on-chain state of one manifest entry
type ContractCheck struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	HasCode bool   `json:"hasCode"`
	Reason  string `json:"reason,omitempty"`
}
