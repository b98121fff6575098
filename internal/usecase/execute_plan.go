package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/samber/lo"
)

// Progress stages emitted by ExecutePlan
const (
	StageStateChanged    = "state_changed"
	StageRunStarted      = "run_started"
	StageDeploying       = "deploying"
	StageDeploySubmitted = "deploy_submitted"
	StageDeployed        = "deployed"
	StageGranting        = "granting"
	StageGrantSubmitted  = "grant_submitted"
	StageGranted         = "granted"
	StageManifestWritten = "manifest_written"
	StageRunCompleted    = "run_completed"
	StageRunFailed       = "run_failed"
)

// RunStartedInfo is the metadata of the StageRunStarted event
type RunStartedInfo struct {
	RunID     string
	Plan      string
	Variant   string
	Network   string
	ChainID   uint64
	Signer    *domain.Signer
	Order     []string
	Grants    int
	LocalOnly bool
}

// SubmittedInfo is the metadata of the *_submitted events
type SubmittedInfo struct {
	Name   string
	TxHash common.Hash
}

// ExecutePlan drives a deployment plan against a chain client. It is the
// deployment run state machine: one instance may execute many runs, each
// with its own in-memory deployed set.
type ExecutePlan struct {
	config   *config.RuntimeConfig
	journal  RunJournal
	progress ProgressSink
	log      *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// NewExecutePlan creates a new ExecutePlan use case
func NewExecutePlan(
	cfg *config.RuntimeConfig,
	journal RunJournal,
	progress ProgressSink,
	log *slog.Logger,
) *ExecutePlan {
	return &ExecutePlan{
		config:   cfg,
		journal:  journal,
		progress: progress,
		log:      log.With("component", "ExecutePlan"),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// RunResult is the outcome of a successful run
type RunResult struct {
	RunID        string
	Plan         string
	Variant      string
	Network      string
	ChainID      uint64
	Signer       *domain.Signer
	Deployed     []*domain.DeployedContract
	Grants       []*domain.AppliedGrant
	Manifest     *domain.DeploymentManifest
	Verification []domain.VerificationInstruction
	LocalNetwork bool
	Duration     time.Duration
}

// Execute runs the plan: validate, deploy every contract in dependency
// order, apply the role grants, then persist the manifest. Every failure is
// returned as a *domain.RunError and stops the run; nothing is retried or
// rolled back and no manifest is written.
func (uc *ExecutePlan) Execute(
	ctx context.Context,
	plan *domain.DeploymentPlan,
	client ChainClient,
	manifests ManifestSink,
) (*RunResult, error) {
	r := uc.newRun(plan, client)

	// Validation
	r.enter(ctx, domain.StateValidatingPlan)
	if err := plan.Validate(); err != nil {
		return nil, r.fail(ctx, err)
	}
	order, err := plan.TopologicalOrder()
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	// Deployments
	r.enter(ctx, domain.StateDeployingContracts)
	signer, err := client.CurrentSigner(ctx)
	if err != nil {
		return nil, r.fail(ctx, fmt.Errorf("failed to resolve signer: %w", err))
	}
	r.record.Deployer = signer.Address.Hex()

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageRunStarted,
		Message: plan.Name,
		Metadata: RunStartedInfo{
			RunID:     r.record.RunID,
			Plan:      plan.Name,
			Variant:   plan.Variant,
			Network:   r.result.Network,
			ChainID:   r.result.ChainID,
			Signer:    signer,
			Order:     lo.Map(order, func(c domain.ContractSpec, _ int) string { return c.Name }),
			Grants:    len(plan.Grants),
			LocalOnly: r.result.LocalNetwork,
		},
	})

	for i, spec := range order {
		deployed, err := uc.deployContract(ctx, r, client, spec, i+1, len(order))
		if err != nil {
			return nil, r.fail(ctx, err)
		}
		r.recordDeployment(ctx, deployed)
	}

	// Role grants
	r.enter(ctx, domain.StateGrantingRoles)
	for i, grant := range plan.Grants {
		applied, err := uc.applyGrant(ctx, r, client, grant, i+1, len(plan.Grants))
		if err != nil {
			return nil, r.fail(ctx, err)
		}
		r.recordGrant(ctx, applied)
	}

	// Manifest
	r.enter(ctx, domain.StatePersistingManifest)
	manifest := domain.NewDeploymentManifest(r.result.Network, *signer, uc.now(), r.result.Deployed)
	manifest.ChainID = r.result.ChainID
	manifest.RunID = r.record.RunID

	if err := manifests.WriteManifest(ctx, manifest); err != nil {
		persistErr := &domain.ManifestPersistenceError{Cause: err}
		if located, ok := manifests.(interface{ Location() string }); ok {
			persistErr.Location = located.Location()
		}
		return nil, r.fail(ctx, persistErr)
	}
	r.result.Manifest = manifest
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageManifestWritten,
		Message:  "Deployment manifest saved",
		Metadata: manifest,
	})

	if !r.result.LocalNetwork {
		r.result.Verification = lo.Map(r.result.Deployed, func(d *domain.DeployedContract, _ int) domain.VerificationInstruction {
			return domain.NewVerificationInstruction(d)
		})
	}

	r.enter(ctx, domain.StateComplete)
	r.result.Signer = signer
	r.result.Duration = uc.now().Sub(r.record.StartedAt)
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageRunCompleted,
		Message:  plan.Name,
		Metadata: r.result,
	})

	return r.result, nil
}

func (uc *ExecutePlan) deployContract(
	ctx context.Context,
	r *run,
	client ChainClient,
	spec domain.ContractSpec,
	current, total int,
) (*domain.DeployedContract, error) {
	args := make([]any, len(spec.Args))
	for i, arg := range spec.Args {
		if !arg.IsRef() {
			args[i] = arg.Value
			continue
		}
		address, ok := r.addresses[arg.Ref]
		if !ok {
			return nil, &domain.UnresolvedDependencyError{Contract: spec.Name, Reference: arg.Ref}
		}
		args[i] = address
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeploying,
		Current:  current,
		Total:    total,
		Message:  spec.Name,
		Metadata: spec,
	})

	artifact := spec.ArtifactName()
	pending, err := client.Deploy(ctx, artifact, args)
	if err != nil {
		return nil, &domain.DeploymentFailedError{ContractName: spec.Name, Cause: err}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeploySubmitted,
		Current:  current,
		Total:    total,
		Message:  fmt.Sprintf("Waiting for %s deployment", spec.Name),
		Spinner:  true,
		Metadata: SubmittedInfo{Name: spec.Name, TxHash: pending.TxHash()},
	})
	r.record.Pending = &domain.PendingContract{Name: spec.Name, Address: pending.Address(), TxHash: pending.TxHash()}
	r.save(ctx)

	receipt, err := uc.confirm(ctx, pending.Confirm)
	if err != nil {
		return nil, &domain.DeploymentFailedError{ContractName: spec.Name, TxHash: pending.TxHash(), Cause: err}
	}

	// Record the values as submitted so verification matches the bytecode
	if submitted := pending.Args(); submitted != nil {
		args = submitted
	}
	deployed := &domain.DeployedContract{
		Name:     spec.Name,
		Artifact: artifact,
		Address:  pending.Address(),
		Args:     args,
		Receipt:  receipt,
	}
	uc.log.Debug("contract deployed", "contract", spec.Name, "address", deployed.Address.Hex(), "tx", receipt.TxHash.Hex())

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeployed,
		Current:  current,
		Total:    total,
		Message:  spec.Name,
		Metadata: deployed,
	})

	return deployed, nil
}

func (uc *ExecutePlan) applyGrant(
	ctx context.Context,
	r *run,
	client ChainClient,
	grant domain.RoleGrant,
	current, total int,
) (*domain.AppliedGrant, error) {
	target, ok := r.addresses[grant.On]
	if !ok {
		return nil, &domain.UnresolvedDependencyError{Contract: "grant " + grant.String(), Reference: grant.On}
	}
	grantee, ok := r.addresses[grant.Grantee]
	if !ok {
		return nil, &domain.UnresolvedDependencyError{Contract: "grant " + grant.String(), Reference: grant.Grantee}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageGranting,
		Current:  current,
		Total:    total,
		Message:  grant.String(),
		Metadata: grant,
	})

	roleID, err := client.QueryRole(ctx, target, grant.Role)
	if err != nil {
		return nil, &domain.RoleGrantFailedError{Grant: grant, Cause: fmt.Errorf("failed to read %s: %w", grant.Role, err)}
	}

	call := domain.ContractCall{Method: "grantRole", Args: []any{[32]byte(roleID), grantee}}
	pending, err := client.SendTransaction(ctx, target, call)
	if err != nil {
		return nil, &domain.RoleGrantFailedError{Grant: grant, Cause: err}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageGrantSubmitted,
		Current:  current,
		Total:    total,
		Message:  fmt.Sprintf("Waiting for %s", grant),
		Spinner:  true,
		Metadata: SubmittedInfo{Name: grant.String(), TxHash: pending.TxHash()},
	})

	receipt, err := uc.confirm(ctx, pending.Confirm)
	if err != nil {
		return nil, &domain.RoleGrantFailedError{Grant: grant, TxHash: pending.TxHash(), Cause: err}
	}

	applied := &domain.AppliedGrant{
		Grant:   grant,
		RoleID:  roleID,
		Target:  target,
		Grantee: grantee,
		Receipt: receipt,
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageGranted,
		Current:  current,
		Total:    total,
		Message:  grant.String(),
		Metadata: applied,
	})

	return applied, nil
}

// confirm blocks on a confirmation, bounded by the configured confirm timeout
func (uc *ExecutePlan) confirm(ctx context.Context, wait func(context.Context) (*domain.Receipt, error)) (*domain.Receipt, error) {
	if uc.config.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.ConfirmTimeout)
		defer cancel()
	}
	return wait(ctx)
}

// run holds the state of one execution
type run struct {
	uc        *ExecutePlan
	record    *domain.RunRecord
	result    *RunResult
	addresses map[string]common.Address
}

func (uc *ExecutePlan) newRun(plan *domain.DeploymentPlan, client ChainClient) *run {
	startedAt := uc.now()
	network := client.NetworkName()

	record := &domain.RunRecord{
		RunID:     uc.newRunID(),
		Plan:      plan.Name,
		Variant:   plan.Variant,
		Network:   network,
		StartedAt: startedAt,
		UpdatedAt: startedAt,
		State:     domain.StateNotStarted,
		Deployed:  []*domain.DeployedContract{},
		Grants:    []*domain.AppliedGrant{},
	}

	return &run{
		uc:     uc,
		record: record,
		result: &RunResult{
			RunID:        record.RunID,
			Plan:         plan.Name,
			Variant:      plan.Variant,
			Network:      network,
			ChainID:      client.ChainID(),
			LocalNetwork: uc.config.IsLocalNetwork(network),
		},
		addresses: make(map[string]common.Address, len(plan.Contracts)),
	}
}

// enter moves the run to the next state, emits the transition and
// rewrites the journal.
func (r *run) enter(ctx context.Context, next domain.RunState) {
	if !r.record.State.CanTransition(next) {
		panic(fmt.Sprintf("invalid run transition %s -> %s", r.record.State, next))
	}
	r.record.State = next

	r.uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageStateChanged,
		Message:  next.Description(),
		Metadata: next,
	})
	r.save(ctx)
}

// fail moves the run to Failed and returns the error describing it
func (r *run) fail(ctx context.Context, cause error) error {
	runErr := &domain.RunError{
		State:    r.record.State,
		Cause:    cause,
		Deployed: lo.Map(r.result.Deployed, func(d *domain.DeployedContract, _ int) string { return d.Name }),
		Granted:  len(r.result.Grants),
	}

	r.record.FailedAt = r.record.State
	r.record.State = domain.StateFailed
	r.record.Error = cause.Error()
	r.record.OnChainEffects = runErr.OnChainEffects()
	r.save(ctx)
	if p := r.record.Pending; p != nil {
		r.uc.progress.Info(fmt.Sprintf("%s was broadcast in %s and may still be mined at %s", p.Name, p.TxHash.Hex(), p.Address.Hex()))
	}

	r.uc.log.Debug("run failed", "state", runErr.State, "error", cause)
	r.uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageRunFailed,
		Message:  runErr.Error(),
		Metadata: runErr,
	})

	return runErr
}

func (r *run) recordDeployment(ctx context.Context, deployed *domain.DeployedContract) {
	r.addresses[deployed.Name] = deployed.Address
	r.record.Pending = nil
	r.result.Deployed = append(r.result.Deployed, deployed)
	r.record.Deployed = append(r.record.Deployed, deployed)
	r.save(ctx)
}

func (r *run) recordGrant(ctx context.Context, applied *domain.AppliedGrant) {
	r.result.Grants = append(r.result.Grants, applied)
	r.record.Grants = append(r.record.Grants, applied)
	r.save(ctx)
}

// save rewrites the journal. Journal failures never fail the run.
func (r *run) save(ctx context.Context) {
	r.record.UpdatedAt = r.uc.now()
	if err := r.uc.journal.Save(ctx, r.record); err != nil {
		r.uc.log.Warn("failed to save run journal", "run", r.record.RunID, "error", err)
		r.uc.progress.Error(fmt.Sprintf("run journal not saved: %v", err))
	}
}
