package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/plan"
)

func testAccount(n byte) xtypes.Account {
	var addr xtypes.Address
	addr[19] = n
	return xtypes.NewAccount(addr, big.NewInt(int64(n)))
}

func TestDecodeFormula_Constant(t *testing.T) {
	t.Parallel()

	method := formulaContractABI.GetMethod("Constant")
	args, err := method.Inputs.Encode(map[string]interface{}{"value": big.NewInt(42)})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	f, err := DecodeFormula(raw)
	require.NoError(t, err)
	assert.Equal(t, plan.FormulaConstant, f.Kind)
	assert.Equal(t, 0, f.Constant.Cmp(big.NewInt(42)))
}

func TestDecodeFormula_Variable(t *testing.T) {
	t.Parallel()

	method := formulaContractABI.GetMethod("Variable")
	args, err := method.Inputs.Encode(map[string]interface{}{"varIdx": big.NewInt(7)})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	f, err := DecodeFormula(raw)
	require.NoError(t, err)
	assert.Equal(t, plan.FormulaVariable, f.Kind)
	assert.Equal(t, 7, f.VarIdx)
}

func TestDecodePayment_ERC20(t *testing.T) {
	t.Parallel()

	method := paymentContractABI.GetMethod("ERC20")
	formulaMethod := formulaContractABI.GetMethod("Constant")
	formulaArgs, err := formulaMethod.Inputs.Encode(map[string]interface{}{"value": big.NewInt(100)})
	require.NoError(t, err)
	formulaBytes := append(append([]byte{}, formulaMethod.ID()...), formulaArgs...)

	args, err := method.Inputs.Encode(map[string]interface{}{
		"token":                  xtypes.EncodeAccount(testAccount(1)),
		"sender":                 xtypes.EncodeAccount(testAccount(2)),
		"amountFormula":          formulaBytes,
		"recipientVarIdx":        big.NewInt(3),
		"estimatedDelaySeconds":  big.NewInt(0),
	})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	p, err := DecodePayment(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, p.RecipientVarIdx)
	assert.Equal(t, uint64(0), p.EstimatedDelaySeconds)
	assert.Equal(t, plan.FormulaConstant, p.AmountFormula.Kind)
	assert.True(t, p.Token.Equal(testAccount(1)))
}

func TestDecodeVariableRole_PaymentRecipient(t *testing.T) {
	t.Parallel()

	method := variableRoleContractABI.GetMethod("PaymentRecipient")
	args, err := method.Inputs.Encode(map[string]interface{}{"chainId": big.NewInt(8453)})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	v, err := DecodeVariableRole(raw)
	require.NoError(t, err)
	assert.Equal(t, plan.RolePaymentRecipient, v.Kind)
	assert.Equal(t, 0, v.PaymentRecipientChainID.Cmp(big.NewInt(8453)))
}

func TestDecodeVariableRole_Witness(t *testing.T) {
	t.Parallel()

	method := variableRoleContractABI.GetMethod("Witness")
	args, err := method.Inputs.Encode(map[string]interface{}{
		"kind":      "signature",
		"data":      []byte{0xde, 0xad},
		"variables": []*big.Int{big.NewInt(0), big.NewInt(2)},
	})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	v, err := DecodeVariableRole(raw)
	require.NoError(t, err)
	assert.Equal(t, plan.RoleWitness, v.Kind)
	assert.Equal(t, "signature", v.Witness.Kind)
	assert.Equal(t, []int{0, 2}, v.Witness.Variables)
}

func TestDecodeVariableRole_Query(t *testing.T) {
	t.Parallel()

	method := variableRoleContractABI.GetMethod("Query")
	argBytes := abiwire.Encode(abiwire.EncodeUint256(big.NewInt(1)))
	args, err := method.Inputs.Encode(map[string]interface{}{
		"target":         xtypes.EncodeAccount(testAccount(9)),
		"selector":       [4]byte{0xAA, 0xBB, 0xCC, 0xDD},
		"arguments":      [][]byte{argBytes},
		"hasBlockNumber": true,
		"blockNumber":    big.NewInt(12345),
	})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	v, err := DecodeVariableRole(raw)
	require.NoError(t, err)
	assert.Equal(t, plan.RoleQuery, v.Kind)
	require.NotNil(t, v.Query.BlockNumber)
	assert.Equal(t, uint64(12345), *v.Query.BlockNumber)
	assert.Len(t, v.Query.Arguments, 1)
}

func TestApplyAttribute_DuplicateSingletonRejected(t *testing.T) {
	t.Parallel()

	method := attributesContractABI.GetMethod("RequiredBefore")
	args, err := method.Inputs.Encode(map[string]interface{}{"deadline": big.NewInt(1000)})
	require.NoError(t, err)
	raw := append(append([]byte{}, method.ID()...), args...)

	var attrs plan.Attributes
	require.NoError(t, applyAttribute(&attrs, raw))

	err = applyAttribute(&attrs, raw)
	assert.ErrorContains(t, err, "duplicate RequiredBefore")
}

func TestApplyAttribute_RevertPolicyAccumulates(t *testing.T) {
	t.Parallel()

	method := attributesContractABI.GetMethod("RevertPolicy")
	var attrs plan.Attributes

	for _, policy := range []int64{0, 1} {
		args, err := method.Inputs.Encode(map[string]interface{}{
			"policy":         big.NewInt(policy),
			"expectedReason": []byte{0xDE, 0xAD},
		})
		require.NoError(t, err)
		raw := append(append([]byte{}, method.ID()...), args...)
		require.NoError(t, applyAttribute(&attrs, raw))
	}

	assert.Len(t, attrs.RevertPolicy, 2)
	assert.Equal(t, plan.RevertPolicyDrop, attrs.RevertPolicy[0].Policy)
	assert.Equal(t, plan.RevertPolicyIgnore, attrs.RevertPolicy[1].Policy)
}
