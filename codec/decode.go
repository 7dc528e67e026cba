package codec

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"

	ethabi "github.com/umbracle/ethgo/abi"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/plan"
)

// dispatch matches raw's leading 4-byte selector against one of the named
// methods in abiDef and ABI-decodes the remainder, following the
// selector-then-Inputs.Decode idiom of state/runtime/precompiled/engine_execute.go.
func dispatch(raw []byte, abiDef *ethabi.ABI, names []string) (string, map[string]interface{}, error) {
	if len(raw) < 4 {
		return "", nil, fmt.Errorf("codec: entity blob of %d bytes too short for a function selector", len(raw))
	}
	for _, name := range names {
		method := abiDef.GetMethod(name)
		if method == nil {
			continue
		}
		if !bytes.Equal(raw[:4], method.ID()) {
			continue
		}
		vals, err := method.Inputs.Decode(raw[4:])
		if err != nil {
			return "", nil, fmt.Errorf("codec: failed to decode %s: %w", name, err)
		}
		m, ok := vals.(map[string]interface{})
		if !ok {
			return "", nil, fmt.Errorf("codec: unexpected decode shape for %s", name)
		}
		return name, m, nil
	}
	return "", nil, fmt.Errorf("codec: unrecognized entity selector 0x%x", raw[:min(4, len(raw))])
}

func toBytesValue(v interface{}) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = byte(rv.Index(i).Uint())
		}
		return out, nil
	}
	return nil, fmt.Errorf("codec: expected bytes-like value, got %T", v)
}

func fieldBytes(m map[string]interface{}, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("codec: missing field %q", key)
	}
	return toBytesValue(v)
}

func fieldBytes4(m map[string]interface{}, key string) ([4]byte, error) {
	b, err := fieldBytes(m, key)
	if err != nil {
		return [4]byte{}, err
	}
	if len(b) != 4 {
		return [4]byte{}, fmt.Errorf("codec: field %q must be 4 bytes, got %d", key, len(b))
	}
	var out [4]byte
	copy(out[:], b)
	return out, nil
}

func fieldBytesList(m map[string]interface{}, key string) ([][]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("codec: missing field %q", key)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("codec: field %q is not a list", key)
	}
	out := make([][]byte, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		b, err := toBytesValue(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("codec: field %q[%d]: %w", key, i, err)
		}
		out[i] = b
	}
	return out, nil
}

func fieldBigInt(m map[string]interface{}, key string) (*big.Int, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("codec: missing field %q", key)
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("codec: field %q has unexpected type %T", key, v)
	}
	return n, nil
}

func fieldBigIntList(m map[string]interface{}, key string) ([]*big.Int, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("codec: missing field %q", key)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("codec: field %q is not a list", key)
	}
	out := make([]*big.Int, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		n, ok := rv.Index(i).Interface().(*big.Int)
		if !ok {
			return nil, fmt.Errorf("codec: field %q[%d] has unexpected type", key, i)
		}
		out[i] = n
	}
	return out, nil
}

func fieldString(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("codec: missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("codec: field %q has unexpected type %T", key, v)
	}
	return s, nil
}

func fieldBool(m map[string]interface{}, key string) (bool, error) {
	v, ok := m[key]
	if !ok {
		return false, fmt.Errorf("codec: missing field %q", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("codec: field %q has unexpected type %T", key, v)
	}
	return b, nil
}

func decodeAccountField(m map[string]interface{}, key string) (xtypes.Account, error) {
	b, err := fieldBytes(m, key)
	if err != nil {
		return xtypes.Account{}, err
	}
	return xtypes.DecodeAccount(b)
}

func decodeVarIdxField(m map[string]interface{}, key string) (int, error) {
	n, err := fieldBigInt(m, key)
	if err != nil {
		return 0, err
	}
	return safeIndex(n)
}

// DecodeArgument dispatches the raw wire form of a call argument: any
// 32-byte encoding is a variable index, otherwise a wrapped AbiEncodedValue.
func DecodeArgument(raw []byte) (plan.Argument, error) {
	if len(raw) == 32 {
		idx, err := safeIndex(new(big.Int).SetBytes(raw))
		if err != nil {
			return plan.Argument{}, err
		}
		return plan.VariableArgument(idx), nil
	}
	v, err := abiwire.Decode(raw)
	if err != nil {
		return plan.Argument{}, err
	}
	return plan.LiteralArgument(v), nil
}

func DecodeArguments(raws [][]byte) ([]plan.Argument, error) {
	out := make([]plan.Argument, len(raws))
	for i, raw := range raws {
		a, err := DecodeArgument(raw)
		if err != nil {
			return nil, fmt.Errorf("codec: argument %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}

// DecodeFormula decodes a Constant or Variable formula entity.
func DecodeFormula(raw []byte) (plan.Formula, error) {
	name, vals, err := dispatch(raw, formulaContractABI, []string{"Constant", "Variable"})
	if err != nil {
		return plan.Formula{}, err
	}
	switch name {
	case "Constant":
		v, err := fieldBigInt(vals, "value")
		if err != nil {
			return plan.Formula{}, err
		}
		return plan.ConstantFormula(v), nil
	case "Variable":
		idx, err := decodeVarIdxField(vals, "varIdx")
		if err != nil {
			return plan.Formula{}, err
		}
		return plan.VariableFormula(idx), nil
	default:
		return plan.Formula{}, fmt.Errorf("codec: unhandled formula kind %q", name)
	}
}

func decodeRevertPolicyKind(n *big.Int) (plan.RevertPolicyKind, error) {
	switch n.Int64() {
	case 0:
		return plan.RevertPolicyDrop, nil
	case 1:
		return plan.RevertPolicyIgnore, nil
	case 2:
		return plan.RevertPolicyRetry, nil
	default:
		return 0, fmt.Errorf("codec: unrecognized revert policy code %s", n)
	}
}

// applyAttribute decodes one attribute entity and merges it into attrs,
// erroring on a duplicate singleton attribute.
func applyAttribute(attrs *plan.Attributes, raw []byte) error {
	name, vals, err := dispatch(raw, attributesContractABI, []string{
		"SpendsERC20", "SpendsEstimatedGas", "RevertPolicy", "RequiredBefore",
		"RequiredFillerUntil", "RequiredCallResult",
		"WithTimestamp", "WithBlockNumber", "WithEffectiveGasPrice",
	})
	if err != nil {
		return err
	}

	switch name {
	case "SpendsERC20":
		token, err := decodeAccountField(vals, "token")
		if err != nil {
			return err
		}
		formulaBytes, err := fieldBytes(vals, "amountFormula")
		if err != nil {
			return err
		}
		formula, err := DecodeFormula(formulaBytes)
		if err != nil {
			return err
		}
		spender, err := decodeAccountField(vals, "spender")
		if err != nil {
			return err
		}
		receiver, err := decodeAccountField(vals, "receiver")
		if err != nil {
			return err
		}
		attrs.SpendsERC20 = append(attrs.SpendsERC20, plan.SpendsERC20{
			Token: token, AmountFormula: formula, Spender: spender, Receiver: receiver,
		})
		return nil

	case "SpendsEstimatedGas":
		if attrs.SpendsEstimatedGas != nil {
			return fmt.Errorf("codec: duplicate SpendsEstimatedGas attribute")
		}
		formulaBytes, err := fieldBytes(vals, "amountFormula")
		if err != nil {
			return err
		}
		formula, err := DecodeFormula(formulaBytes)
		if err != nil {
			return err
		}
		attrs.SpendsEstimatedGas = &formula
		return nil

	case "RevertPolicy":
		var policyN *big.Int
		if code, ok := vals["policy"].(uint8); ok {
			// ethgo decodes an ABI uint8 field as a Go uint8, not *big.Int.
			policyN = big.NewInt(int64(code))
		} else {
			policyN, err = fieldBigInt(vals, "policy")
			if err != nil {
				return err
			}
		}
		reason, err := fieldBytes(vals, "expectedReason")
		if err != nil {
			return err
		}
		kind, err := decodeRevertPolicyKind(policyN)
		if err != nil {
			return err
		}
		attrs.RevertPolicy = append(attrs.RevertPolicy, plan.RevertPolicyEntry{Policy: kind, ExpectedReason: reason})
		return nil

	case "RequiredBefore":
		if attrs.RequiredBefore != nil {
			return fmt.Errorf("codec: duplicate RequiredBefore attribute")
		}
		d, err := fieldBigInt(vals, "deadline")
		if err != nil {
			return err
		}
		sec, err := safeUint64(d)
		if err != nil {
			return err
		}
		attrs.RequiredBefore = &plan.RequiredBefore{Deadline: sec}
		return nil

	case "RequiredFillerUntil":
		if attrs.RequiredFillerUntil != nil {
			return fmt.Errorf("codec: duplicate RequiredFillerUntil attribute")
		}
		filler, err := decodeAccountField(vals, "exclusiveFiller")
		if err != nil {
			return err
		}
		d, err := fieldBigInt(vals, "deadline")
		if err != nil {
			return err
		}
		sec, err := safeUint64(d)
		if err != nil {
			return err
		}
		attrs.RequiredFillerUntil = &plan.RequiredFillerUntil{ExclusiveFiller: filler, Deadline: sec}
		return nil

	case "RequiredCallResult":
		if attrs.RequiredCallResult != nil {
			return fmt.Errorf("codec: duplicate RequiredCallResult attribute")
		}
		target, err := decodeAccountField(vals, "target")
		if err != nil {
			return err
		}
		selector, err := fieldBytes4(vals, "selector")
		if err != nil {
			return err
		}
		argBytes, err := fieldBytesList(vals, "arguments")
		if err != nil {
			return err
		}
		args, err := DecodeArguments(argBytes)
		if err != nil {
			return err
		}
		resultBytes, err := fieldBytes(vals, "result")
		if err != nil {
			return err
		}
		result, err := abiwire.Decode(resultBytes)
		if err != nil {
			return err
		}
		attrs.RequiredCallResult = &plan.RequiredCallResult{
			Target: target, Selector: selector, Arguments: args, Result: result,
		}
		return nil

	case "WithTimestamp":
		if attrs.WithTimestamp != nil {
			return fmt.Errorf("codec: duplicate WithTimestamp attribute")
		}
		idx, err := decodeVarIdxField(vals, "varIdx")
		if err != nil {
			return err
		}
		attrs.WithTimestamp = &idx
		return nil

	case "WithBlockNumber":
		if attrs.WithBlockNumber != nil {
			return fmt.Errorf("codec: duplicate WithBlockNumber attribute")
		}
		idx, err := decodeVarIdxField(vals, "varIdx")
		if err != nil {
			return err
		}
		attrs.WithBlockNumber = &idx
		return nil

	case "WithEffectiveGasPrice":
		if attrs.WithEffectiveGasPrice != nil {
			return fmt.Errorf("codec: duplicate WithEffectiveGasPrice attribute")
		}
		idx, err := decodeVarIdxField(vals, "varIdx")
		if err != nil {
			return err
		}
		attrs.WithEffectiveGasPrice = &idx
		return nil

	default:
		return fmt.Errorf("codec: unhandled attribute kind %q", name)
	}
}

// DecodePayment decodes the ERC20 payment entity.
func DecodePayment(raw []byte) (plan.Payment, error) {
	_, vals, err := dispatch(raw, paymentContractABI, []string{"ERC20"})
	if err != nil {
		return plan.Payment{}, err
	}

	token, err := decodeAccountField(vals, "token")
	if err != nil {
		return plan.Payment{}, err
	}
	sender, err := decodeAccountField(vals, "sender")
	if err != nil {
		return plan.Payment{}, err
	}
	formulaBytes, err := fieldBytes(vals, "amountFormula")
	if err != nil {
		return plan.Payment{}, err
	}
	formula, err := DecodeFormula(formulaBytes)
	if err != nil {
		return plan.Payment{}, err
	}
	recipientVarIdx, err := decodeVarIdxField(vals, "recipientVarIdx")
	if err != nil {
		return plan.Payment{}, err
	}
	delayN, err := fieldBigInt(vals, "estimatedDelaySeconds")
	if err != nil {
		return plan.Payment{}, err
	}
	delay, err := safeUint64(delayN)
	if err != nil {
		return plan.Payment{}, err
	}

	return plan.Payment{
		Token: token, Sender: sender, AmountFormula: formula,
		RecipientVarIdx: recipientVarIdx, EstimatedDelaySeconds: delay,
	}, nil
}

// DecodeVariableRole decodes one of the six VariableRole kinds.
func DecodeVariableRole(raw []byte) (plan.VariableRole, error) {
	name, vals, err := dispatch(raw, variableRoleContractABI, []string{
		"PaymentRecipient", "PaymentChain", "Pricing", "TxOutput", "Witness", "Query",
	})
	if err != nil {
		return plan.VariableRole{}, err
	}

	switch name {
	case "PaymentRecipient":
		chainID, err := fieldBigInt(vals, "chainId")
		if err != nil {
			return plan.VariableRole{}, err
		}
		return plan.VariableRole{Kind: plan.RolePaymentRecipient, PaymentRecipientChainID: chainID}, nil

	case "PaymentChain":
		return plan.VariableRole{Kind: plan.RolePaymentChain}, nil

	case "Pricing":
		return plan.VariableRole{Kind: plan.RolePricing}, nil

	case "TxOutput":
		return plan.VariableRole{Kind: plan.RoleTxOutput}, nil

	case "Witness":
		kind, err := fieldString(vals, "kind")
		if err != nil {
			return plan.VariableRole{}, err
		}
		data, err := fieldBytes(vals, "data")
		if err != nil {
			return plan.VariableRole{}, err
		}
		varsN, err := fieldBigIntList(vals, "variables")
		if err != nil {
			return plan.VariableRole{}, err
		}
		vars := make([]int, len(varsN))
		for i, n := range varsN {
			idx, err := safeIndex(n)
			if err != nil {
				return plan.VariableRole{}, fmt.Errorf("codec: witness variable %d: %w", i, err)
			}
			vars[i] = idx
		}
		return plan.VariableRole{Kind: plan.RoleWitness, Witness: &plan.WitnessRole{
			Kind: kind, Data: data, Variables: vars,
		}}, nil

	case "Query":
		target, err := decodeAccountField(vals, "target")
		if err != nil {
			return plan.VariableRole{}, err
		}
		selector, err := fieldBytes4(vals, "selector")
		if err != nil {
			return plan.VariableRole{}, err
		}
		argBytes, err := fieldBytesList(vals, "arguments")
		if err != nil {
			return plan.VariableRole{}, err
		}
		args, err := DecodeArguments(argBytes)
		if err != nil {
			return plan.VariableRole{}, err
		}
		hasBlockNumber, err := fieldBool(vals, "hasBlockNumber")
		if err != nil {
			return plan.VariableRole{}, err
		}
		var blockNumber *uint64
		if hasBlockNumber {
			n, err := fieldBigInt(vals, "blockNumber")
			if err != nil {
				return plan.VariableRole{}, err
			}
			bn, err := safeUint64(n)
			if err != nil {
				return plan.VariableRole{}, err
			}
			blockNumber = &bn
		}
		return plan.VariableRole{Kind: plan.RoleQuery, Query: &plan.QueryRole{
			Target: target, Selector: selector, Arguments: args, BlockNumber: blockNumber,
		}}, nil

	default:
		return plan.VariableRole{}, fmt.Errorf("codec: unhandled variable role kind %q", name)
	}
}

// DecodeStep decodes a full Step entity.
func DecodeStep(raw []byte) (plan.Step, error) {
	method := stepContractABI.GetMethod("Call")
	if len(raw) < 4 {
		return plan.Step{}, fmt.Errorf("codec: step blob too short for a function selector")
	}
	if !bytes.Equal(raw[:4], method.ID()) {
		return plan.Step{}, fmt.Errorf("codec: step blob has unexpected selector")
	}
	vals, err := method.Inputs.Decode(raw[4:])
	if err != nil {
		return plan.Step{}, fmt.Errorf("codec: failed to decode step: %w", err)
	}
	m, ok := vals.(map[string]interface{})
	if !ok {
		return plan.Step{}, fmt.Errorf("codec: unexpected step decode shape")
	}

	target, err := decodeAccountField(m, "target")
	if err != nil {
		return plan.Step{}, err
	}
	selector, err := fieldBytes4(m, "selector")
	if err != nil {
		return plan.Step{}, err
	}
	argBytes, err := fieldBytesList(m, "arguments")
	if err != nil {
		return plan.Step{}, err
	}
	args, err := DecodeArguments(argBytes)
	if err != nil {
		return plan.Step{}, err
	}

	attrBytes, err := fieldBytesList(m, "attributes")
	if err != nil {
		return plan.Step{}, err
	}
	var attrs plan.Attributes
	for i, ab := range attrBytes {
		if err := applyAttribute(&attrs, ab); err != nil {
			return plan.Step{}, fmt.Errorf("codec: attribute %d: %w", i, err)
		}
	}

	paymentBytes, err := fieldBytesList(m, "payments")
	if err != nil {
		return plan.Step{}, err
	}
	payments := make([]plan.Payment, len(paymentBytes))
	for i, pb := range paymentBytes {
		p, err := DecodePayment(pb)
		if err != nil {
			return plan.Step{}, fmt.Errorf("codec: payment %d: %w", i, err)
		}
		payments[i] = p
	}

	return plan.Step{
		Target: target, Selector: selector, Arguments: args, Attributes: attrs, Payments: payments,
	}, nil
}
