package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/stretchr/testify/mock"
)

var deployerAddress = common.HexToAddress("0x00000000000000000000000000000000000000d0")

// fakeChain is an in-memory ChainClient. It assigns sequential addresses,
// records every chain call and fails on demand.
type fakeChain struct {
	mu      sync.Mutex
	network string
	chainID uint64

	calls     []string
	deployed  map[string]common.Address
	deployArg map[string][]any
	sent      []domain.ContractCall
	nonce     int64

	failSubmit  map[string]error
	failConfirm map[string]error
	convert     func(args []any) []any
	failQuery   error
	failSend    error
	failSigner  error
}

func newFakeChain(network string) *fakeChain {
	return &fakeChain{
		network:     network,
		chainID:     421614,
		deployed:    make(map[string]common.Address),
		deployArg:   make(map[string][]any),
		failSubmit:  make(map[string]error),
		failConfirm: make(map[string]error),
	}
}

// addressOf returns the address the fake assigns to the n-th creation (1-based)
func addressOf(n int64) common.Address {
	return common.BigToAddress(big.NewInt(0x1000 + n))
}

func txHashOf(n int64) common.Hash {
	return common.BigToHash(big.NewInt(0xabc000 + n))
}

func (f *fakeChain) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeChain) NetworkName() string { return f.network }
func (f *fakeChain) ChainID() uint64     { return f.chainID }
func (f *fakeChain) Close()              {}

func (f *fakeChain) CurrentSigner(ctx context.Context) (*domain.Signer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("signer")
	if f.failSigner != nil {
		return nil, f.failSigner
	}
	return &domain.Signer{Address: deployerAddress, Balance: big.NewInt(1e18)}, nil
}

func (f *fakeChain) Deploy(ctx context.Context, artifact string, args []any) (usecase.PendingDeployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("deploy:" + artifact)
	if err := f.failSubmit[artifact]; err != nil {
		return nil, err
	}
	f.nonce++
	f.deployArg[artifact] = args
	submitted := args
	if f.convert != nil {
		submitted = f.convert(args)
	}
	return &fakePending{
		chain:   f,
		label:   "deploy:" + artifact,
		args:    submitted,
		address: addressOf(f.nonce),
		txHash:  txHashOf(f.nonce),
		err:     f.failConfirm[artifact],
		onOK:    func(addr common.Address) { f.deployed[artifact] = addr },
	}, nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, target common.Address, call domain.ContractCall) (usecase.PendingTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("send:%s:%s", call.Method, target.Hex()))
	if f.failSend != nil {
		return nil, f.failSend
	}
	f.nonce++
	f.sent = append(f.sent, call)
	return &fakePending{chain: f, label: "send:" + call.Method, txHash: txHashOf(f.nonce)}, nil
}

func (f *fakeChain) QueryRole(ctx context.Context, contract common.Address, roleName string) (domain.RoleID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("query:" + roleName)
	if f.failQuery != nil {
		return domain.RoleID{}, f.failQuery
	}
	return domain.RoleID(common.BytesToHash([]byte(roleName))), nil
}

// indexOf returns the position of the first call with the given label, -1 if absent
func (f *fakeChain) indexOf(call string) int {
	for i, c := range f.calls {
		if c == call {
			return i
		}
	}
	return -1
}

// lastIndexWithPrefix returns the position of the last call with the given prefix
func (f *fakeChain) lastIndexWithPrefix(prefix string) int {
	last := -1
	for i, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			last = i
		}
	}
	return last
}

type fakePending struct {
	chain   *fakeChain
	label   string
	args    []any
	address common.Address
	txHash  common.Hash
	err     error
	onOK    func(common.Address)
}

func (p *fakePending) Address() common.Address { return p.address }
func (p *fakePending) TxHash() common.Hash     { return p.txHash }
func (p *fakePending) Args() []any             { return p.args }

func (p *fakePending) Confirm(ctx context.Context) (*domain.Receipt, error) {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	p.chain.record("confirm:" + p.label)
	if p.err != nil {
		return nil, p.err
	}
	if p.onOK != nil {
		p.onOK(p.address)
	}
	return &domain.Receipt{TxHash: p.txHash, BlockNumber: uint64(len(p.chain.calls)), GasUsed: 21000}, nil
}

// memoryManifests records every manifest written
type memoryManifests struct {
	writes []*domain.DeploymentManifest
	err    error
}

func (m *memoryManifests) ReadManifest(ctx context.Context) (*domain.DeploymentManifest, error) {
	if len(m.writes) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.writes[len(m.writes)-1], nil
}

func (m *memoryManifests) Location() string { return "memory://deployment.json" }

func (m *memoryManifests) WriteManifest(ctx context.Context, manifest *domain.DeploymentManifest) error {
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, manifest)
	return nil
}

// memoryJournal keeps a copy of every saved record
type memoryJournal struct {
	saves []domain.RunRecord
}

func (j *memoryJournal) Save(ctx context.Context, record *domain.RunRecord) error {
	j.saves = append(j.saves, *record)
	return nil
}

func (j *memoryJournal) Load(ctx context.Context, planName string) (*domain.RunRecord, error) {
	if len(j.saves) == 0 {
		return nil, domain.ErrNotFound
	}
	last := j.saves[len(j.saves)-1]
	return &last, nil
}

func (j *memoryJournal) Path(planName string) string { return "memory://" + planName }

func (j *memoryJournal) last() domain.RunRecord {
	return j.saves[len(j.saves)-1]
}

// MockRunJournal is a mock implementation of RunJournal
type MockRunJournal struct {
	mock.Mock
}

func (m *MockRunJournal) Save(ctx context.Context, record *domain.RunRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRunJournal) Load(ctx context.Context, planName string) (*domain.RunRecord, error) {
	args := m.Called(ctx, planName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunRecord), args.Error(1)
}

func (m *MockRunJournal) Path(planName string) string {
	return m.Called(planName).String(0)
}

// MockProgressSink is a mock implementation of ProgressSink
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockProgressSink) Error(message string) { m.errors = append(m.errors, message) }

func (m *MockProgressSink) stages() []string {
	stages := make([]string, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}

func (m *MockProgressSink) states() []domain.RunState {
	var states []domain.RunState
	for _, e := range m.events {
		if e.Stage == usecase.StageStateChanged {
			states = append(states, e.Metadata.(domain.RunState))
		}
	}
	return states
}

// MockPlanLoader is a mock implementation of PlanLoader
type MockPlanLoader struct {
	mock.Mock
}

func (m *MockPlanLoader) Load(ctx context.Context, path string) (*domain.DeploymentPlan, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentPlan), args.Error(1)
}

// fakeConnector hands out a fixed chain client
type fakeConnector struct {
	chain     *fakeChain
	err       error
	connected []string
}

func (c *fakeConnector) Connect(ctx context.Context, network *config.Network) (usecase.ChainClient, error) {
	c.connected = append(c.connected, network.Name)
	if c.err != nil {
		return nil, c.err
	}
	return c.chain, nil
}

// MockBroadcastConfirmer is a mock implementation of BroadcastConfirmer
type MockBroadcastConfirmer struct {
	mock.Mock
}

func (m *MockBroadcastConfirmer) ConfirmBroadcast(ctx context.Context, summary usecase.BroadcastSummary) (bool, error) {
	args := m.Called(ctx, summary)
	return args.Bool(0), args.Error(1)
}

// staticResolver resolves from a fixed table
type staticResolver map[string]*config.Network

func (r staticResolver) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r staticResolver) Resolve(name string) (*config.Network, error) {
	network, ok := r[name]
	if !ok || network == nil {
		return nil, &domain.UnknownNetworkError{Name: name, Known: r.Names()}
	}
	return network, nil
}

// MockContractChecker is a mock implementation of ContractChecker
type MockContractChecker struct {
	mock.Mock
}

func (m *MockContractChecker) CheckContracts(ctx context.Context, network *config.Network, contracts map[string]common.Address) ([]domain.ContractCheck, error) {
	args := m.Called(ctx, network, contracts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractCheck), args.Error(1)
}

var errBoom = errors.New("boom")

func testRuntimeConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		LocalNetworks: []string{"hardhat", "simulated", "anvil", "localhost"},
	}
}
