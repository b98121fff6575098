package domain

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// RunState is a state of the deployment run state machine
type RunState string

const (
	StateNotStarted         RunState = "not_started"
	StateValidatingPlan     RunState = "validating_plan"
	StateDeployingContracts RunState = "deploying_contracts"
	StateGrantingRoles      RunState = "granting_roles"
	StatePersistingManifest RunState = "persisting_manifest"
	StateComplete           RunState = "complete"
	StateFailed             RunState = "failed"
)

// runTransitions lists the forward transitions; Failed is reachable from
// every non-terminal state and is checked separately.
var runTransitions = map[RunState]RunState{
	StateNotStarted:         StateValidatingPlan,
	StateValidatingPlan:     StateDeployingContracts,
	StateDeployingContracts: StateGrantingRoles,
	StateGrantingRoles:      StatePersistingManifest,
	StatePersistingManifest: StateComplete,
}

// IsTerminal reports whether no transition leaves the state
func (s RunState) IsTerminal() bool {
	return s == StateComplete || s == StateFailed
}

// CanTransition reports whether the state machine allows s -> next
func (s RunState) CanTransition(next RunState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	return runTransitions[s] == next
}

// Description returns a lowercase phrase for messages ("deploying contracts")
func (s RunState) Description() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Receipt is the confirmation evidence of a chain operation
type Receipt struct {
	TxHash      common.Hash `json:"txHash"`
	BlockNumber uint64      `json:"blockNumber"`
	GasUsed     uint64      `json:"gasUsed"`
}

// RoleID is the opaque identifier of an access-control role
type RoleID [32]byte

func (r RoleID) Hex() string {
	return common.Hash(r).Hex()
}

func (r RoleID) MarshalText() ([]byte, error) {
	return []byte(r.Hex()), nil
}

func (r *RoleID) UnmarshalText(text []byte) error {
	var h common.Hash
	if err := h.UnmarshalText(text); err != nil {
		return err
	}
	*r = RoleID(h)
	return nil
}

// ContractCall describes a state-changing call on a deployed contract
type ContractCall struct {
	Method string
	Args   []any
}

func (c ContractCall) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = FormatArg(arg)
	}
	return fmt.Sprintf("%s(%s)", c.Method, strings.Join(args, ", "))
}

// DeployedContract is the executor's record of one confirmed deployment
type DeployedContract struct {
	Name     string         `json:"name"`
	Artifact string         `json:"artifact"`
	Address  common.Address `json:"address"`
	Args     []any          `json:"args,omitempty"`
	Receipt  *Receipt       `json:"receipt,omitempty"`
}

// AppliedGrant is the executor's record of one confirmed role grant
type AppliedGrant struct {
	Grant   RoleGrant      `json:"grant"`
	RoleID  RoleID         `json:"roleId"`
	Target  common.Address `json:"target"`
	Grantee common.Address `json:"grantee"`
	Receipt *Receipt       `json:"receipt,omitempty"`
}

// Signer is the account that signs every transaction of a run
type Signer struct {
	Address common.Address
	Balance *big.Int
}

// FormatArg renders a resolved constructor argument exactly as it was
// submitted, which is what verification tools expect.
func FormatArg(arg any) string {
	switch v := arg.(type) {
	case common.Address:
		return v.Hex()
	case *common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case []byte:
		return "0x" + common.Bytes2Hex(v)
	case [32]byte:
		return common.Hash(v).Hex()
	case RoleID:
		return v.Hex()
	}

	// Fixed-size bytesN values arrive as [N]byte
	rv := reflect.ValueOf(arg)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return "0x" + common.Bytes2Hex(b)
	}
	return fmt.Sprint(arg)
}
