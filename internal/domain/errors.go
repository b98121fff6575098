package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArtifact is returned when a compiled artifact has no usable ABI or bytecode
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrUnsupportedArgType is returned when a literal cannot be converted to a constructor input type
	ErrUnsupportedArgType = errors.New("unsupported argument type")

	// ErrNoSigner is returned when no deployer key is configured for a network
	ErrNoSigner = errors.New("no deployer key configured")

	// ErrAborted is returned when the operator declines to broadcast
	ErrAborted = errors.New("deployment aborted by operator")
)

// InvalidPlanError is returned when a plan fails validation. It is always
// raised before any chain interaction.
type InvalidPlanError struct {
	Cause error
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("invalid deployment plan: %v", e.Cause)
}

func (e *InvalidPlanError) Unwrap() error { return e.Cause }

// CyclicDependencyError lists the contracts left in a dependency cycle
type CyclicDependencyError struct {
	Contracts []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected involving contracts: %s", strings.Join(e.Contracts, ", "))
}

// UnknownReferenceError is returned when a plan names a contract it does not declare
type UnknownReferenceError struct {
	From      string
	Reference string
	Known     []string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown contract '%s'", e.From, e.Reference)
}

// DuplicateContractError is returned when two contracts share a name
type DuplicateContractError struct {
	Name string
}

func (e *DuplicateContractError) Error() string {
	return fmt.Sprintf("contract '%s' is declared more than once", e.Name)
}

// UnknownVariantError is returned when a plan variant is not declared
type UnknownVariantError struct {
	Name  string
	Known []string
}

func (e *UnknownVariantError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown variant '%s': plan declares no variants", e.Name)
	}
	return fmt.Sprintf("unknown variant '%s' (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// UnknownNetworkError is returned when a network is neither built in nor configured
type UnknownNetworkError struct {
	Name  string
	Known []string
}

func (e *UnknownNetworkError) Error() string {
	return fmt.Sprintf("network '%s' is not configured in rails.toml and no RPC URL is set in the environment", e.Name)
}

// UnresolvedDependencyError is returned by the executor when a name has no
// recorded address at the time it is needed.
type UnresolvedDependencyError struct {
	Contract  string
	Reference string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("%s: dependency '%s' has not been deployed", e.Contract, e.Reference)
}

// DeploymentFailedError is returned when the chain rejects, reverts or times
// out a contract creation.
type DeploymentFailedError struct {
	ContractName string
	TxHash       common.Hash
	Cause        error
}

func (e *DeploymentFailedError) Error() string {
	if e.TxHash != (common.Hash{}) {
		return fmt.Sprintf("deployment of %s failed (tx %s): %v", e.ContractName, e.TxHash.Hex(), e.Cause)
	}
	return fmt.Sprintf("deployment of %s failed: %v", e.ContractName, e.Cause)
}

func (e *DeploymentFailedError) Unwrap() error { return e.Cause }

// RoleGrantFailedError is returned when a grantRole transaction fails
type RoleGrantFailedError struct {
	Grant  RoleGrant
	TxHash common.Hash
	Cause  error
}

func (e *RoleGrantFailedError) Error() string {
	if e.TxHash != (common.Hash{}) {
		return fmt.Sprintf("role grant %s failed (tx %s): %v", e.Grant, e.TxHash.Hex(), e.Cause)
	}
	return fmt.Sprintf("role grant %s failed: %v", e.Grant, e.Cause)
}

func (e *RoleGrantFailedError) Unwrap() error { return e.Cause }

// ManifestPersistenceError is returned when the manifest could not be
// written after every chain operation succeeded.
type ManifestPersistenceError struct {
	Location string
	Cause    error
}

func (e *ManifestPersistenceError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("failed to persist manifest to %s: %v", e.Location, e.Cause)
	}
	return fmt.Sprintf("failed to persist manifest: %v", e.Cause)
}

func (e *ManifestPersistenceError) Unwrap() error { return e.Cause }

// RunError is the terminal Failed state of a run: the state the run was in,
// the error that stopped it and what had already reached the chain.
type RunError struct {
	State    RunState
	Cause    error
	Deployed []string
	Granted  int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed while %s: %v", e.State.Description(), e.Cause)
}

func (e *RunError) Unwrap() error { return e.Cause }

// OnChainEffects reports whether the failed run may have left state on chain.
func (e *RunError) OnChainEffects() bool {
	switch e.State {
	case StateNotStarted, StateValidatingPlan:
		return false
	}
	if len(e.Deployed) > 0 || e.Granted > 0 {
		return true
	}
	// A creation that was broadcast and then reverted still consumed a nonce
	var deployErr *DeploymentFailedError
	if errors.As(e.Cause, &deployErr) {
		return deployErr.TxHash != (common.Hash{})
	}
	return false
}

// IsLocalError reports whether err is guaranteed free of on-chain side effects
func IsLocalError(err error) bool {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return !runErr.OnChainEffects()
	}
	var planErr *InvalidPlanError
	return errors.As(err, &planErr)
}
