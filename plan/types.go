// Package plan holds the solver's data model: the typed execution graph a
// resolver contract's response decodes into.
// Types in this package are immutable once built; the codec package is the
// only producer.
package plan

import (
	"math/big"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

// Account is a chain-qualified address, re-exported for callers that only
// import plan.
type Account = xtypes.Account

// FormulaKind discriminates Formula's two variants.
type FormulaKind int

const (
	FormulaConstant FormulaKind = iota
	FormulaVariable
)

// Formula is the plan's trivial expression language: a constant uint256 or a
// reference to another variable's (uint256-decoding) value.
type Formula struct {
	Kind     FormulaKind
	Constant *big.Int
	VarIdx   int
}

func ConstantFormula(v *big.Int) Formula { return Formula{Kind: FormulaConstant, Constant: v} }
func VariableFormula(varIdx int) Formula { return Formula{Kind: FormulaVariable, VarIdx: varIdx} }

// ArgumentKind discriminates Argument's two variants.
type ArgumentKind int

const (
	ArgumentVariable ArgumentKind = iota
	ArgumentLiteral
)

// Argument is a call argument: either bound to a variable slot or a literal
// AbiEncodedValue.
type Argument struct {
	Kind    ArgumentKind
	VarIdx  int
	Literal abiwire.Value
}

func VariableArgument(varIdx int) Argument { return Argument{Kind: ArgumentVariable, VarIdx: varIdx} }
func LiteralArgument(v abiwire.Value) Argument {
	return Argument{Kind: ArgumentLiteral, Literal: v}
}

// RevertPolicyKind enumerates the control outcomes a revert-policy entry can
// name. Retry is parsed but always rejected at fill time.
type RevertPolicyKind int

const (
	RevertPolicyDrop RevertPolicyKind = iota
	RevertPolicyIgnore
	RevertPolicyRetry
)

type RevertPolicyEntry struct {
	Policy         RevertPolicyKind
	ExpectedReason []byte
}

type SpendsERC20 struct {
	Token         Account
	AmountFormula Formula
	Spender       Account
	Receiver      Account
}

type RequiredBefore struct {
	Deadline uint64 // unix seconds
}

type RequiredFillerUntil struct {
	ExclusiveFiller Account
	Deadline        uint64 // unix seconds
}

type RequiredCallResult struct {
	Target   Account
	Selector [4]byte
	Arguments []Argument
	Result   abiwire.Value
}

// Attributes is a step's sparse attribute set. Singleton fields are nil when
// absent; list fields accumulate.
type Attributes struct {
	SpendsERC20           []SpendsERC20
	SpendsEstimatedGas    *Formula
	RevertPolicy          []RevertPolicyEntry
	RequiredBefore        *RequiredBefore
	RequiredFillerUntil   *RequiredFillerUntil
	RequiredCallResult    *RequiredCallResult
	WithTimestamp         *int
	WithBlockNumber       *int
	WithEffectiveGasPrice *int
}

// Step is the plan's only variant of a chain call today.
type Step struct {
	Target     Account
	Selector   [4]byte
	Arguments  []Argument
	Attributes Attributes
	Payments   []Payment
}

// Payment is always the ERC20 variant.
type Payment struct {
	Token                 Account
	Sender                Account
	AmountFormula         Formula
	RecipientVarIdx       int
	EstimatedDelaySeconds uint64
}

// VariableRoleKind discriminates VariableRole's six variants.
type VariableRoleKind int

const (
	RolePaymentRecipient VariableRoleKind = iota
	RolePaymentChain
	RolePricing
	RoleTxOutput
	RoleWitness
	RoleQuery
)

type WitnessRole struct {
	Kind      string
	Data      []byte
	Variables []int
}

type QueryRole struct {
	Target      Account
	Selector    [4]byte
	Arguments   []Argument
	BlockNumber *uint64 // nil means "latest"
}

// VariableRole names how a variable's value is produced.
type VariableRole struct {
	Kind                    VariableRoleKind
	PaymentRecipientChainID *big.Int
	Witness                 *WitnessRole
	Query                   *QueryRole
}

// Assumption is an account whose behavior the plan depends on; it must be
// whitelisted for its kind before the plan may be filled.
type Assumption struct {
	Trusted Account
	Kind    string
}

// ResolvedOrder is the complete decoded plan.
type ResolvedOrder struct {
	Steps       []Step
	Variables   []VariableRole
	Assumptions []Assumption
	Payments    []Payment
}
