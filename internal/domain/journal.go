package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RunRecord is the journal entry of a run, rewritten at every state
// transition. Unlike the manifest it exists for failed runs too, so an
// operator can see which contracts a failed attempt left on chain.
type RunRecord struct {
	RunID          string              `json:"runId"`
	Plan           string              `json:"plan"`
	Variant        string              `json:"variant,omitempty"`
	Network        string              `json:"network"`
	Deployer       string              `json:"deployer,omitempty"`
	StartedAt      time.Time           `json:"startedAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	State          RunState            `json:"state"`
	FailedAt       RunState            `json:"failedAt,omitempty"`
	Error          string              `json:"error,omitempty"`
	OnChainEffects bool                `json:"onChainEffects"`
	Pending        *PendingContract    `json:"pending,omitempty"`
	Deployed       []*DeployedContract `json:"deployed"`
	Grants         []*AppliedGrant     `json:"grants"`
}

// PendingContract is a creation that was broadcast but not yet confirmed.
// It stays in the journal when confirmation fails, since the contract may
// still be mined at Address.
type PendingContract struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
	TxHash  common.Hash    `json:"txHash"`
}
