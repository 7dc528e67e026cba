// Package codec decodes a resolver contract's response into the plan
// package's typed data model. Every wire entity — steps, attributes,
// formulas, payments, variable roles — is an ABI-encoded function call whose
// function name is the entity's kind tag; this file holds those mini-ABI
// definitions, following the single-source-of-truth ABI-constant idiom of
// contracts/engineabi/abi.go.
package codec

import ethabi "github.com/umbracle/ethgo/abi"

const resolveABI = `[{"type":"function","name":"resolve",
  "inputs":[{"name":"payload","type":"bytes"}],
  "outputs":[{"name":"order","type":"tuple","components":[
    {"name":"steps","type":"bytes[]"},
    {"name":"variables","type":"bytes[]"},
    {"name":"assumptions","type":"tuple[]","components":[
      {"name":"trusted","type":"bytes"},
      {"name":"kind","type":"string"}]},
    {"name":"payments","type":"bytes[]"}]}]}]`

const stepABI = `[{"type":"function","name":"Call",
  "inputs":[
    {"name":"target","type":"bytes"},
    {"name":"selector","type":"bytes4"},
    {"name":"arguments","type":"bytes[]"},
    {"name":"attributes","type":"bytes[]"},
    {"name":"payments","type":"bytes[]"}]}]`

const attributesABI = `[
  {"type":"function","name":"SpendsERC20","inputs":[
    {"name":"token","type":"bytes"},
    {"name":"amountFormula","type":"bytes"},
    {"name":"spender","type":"bytes"},
    {"name":"receiver","type":"bytes"}]},
  {"type":"function","name":"SpendsEstimatedGas","inputs":[
    {"name":"amountFormula","type":"bytes"}]},
  {"type":"function","name":"RevertPolicy","inputs":[
    {"name":"policy","type":"uint8"},
    {"name":"expectedReason","type":"bytes"}]},
  {"type":"function","name":"RequiredBefore","inputs":[
    {"name":"deadline","type":"uint256"}]},
  {"type":"function","name":"RequiredFillerUntil","inputs":[
    {"name":"exclusiveFiller","type":"bytes"},
    {"name":"deadline","type":"uint256"}]},
  {"type":"function","name":"RequiredCallResult","inputs":[
    {"name":"target","type":"bytes"},
    {"name":"selector","type":"bytes4"},
    {"name":"arguments","type":"bytes[]"},
    {"name":"result","type":"bytes"}]},
  {"type":"function","name":"WithTimestamp","inputs":[
    {"name":"varIdx","type":"uint256"}]},
  {"type":"function","name":"WithBlockNumber","inputs":[
    {"name":"varIdx","type":"uint256"}]},
  {"type":"function","name":"WithEffectiveGasPrice","inputs":[
    {"name":"varIdx","type":"uint256"}]}]`

const formulaABI = `[
  {"type":"function","name":"Constant","inputs":[{"name":"value","type":"uint256"}]},
  {"type":"function","name":"Variable","inputs":[{"name":"varIdx","type":"uint256"}]}]`

const paymentABI = `[{"type":"function","name":"ERC20","inputs":[
  {"name":"token","type":"bytes"},
  {"name":"sender","type":"bytes"},
  {"name":"amountFormula","type":"bytes"},
  {"name":"recipientVarIdx","type":"uint256"},
  {"name":"estimatedDelaySeconds","type":"uint256"}]}]`

const variableRoleABI = `[
  {"type":"function","name":"PaymentRecipient","inputs":[{"name":"chainId","type":"uint256"}]},
  {"type":"function","name":"PaymentChain","inputs":[]},
  {"type":"function","name":"Pricing","inputs":[]},
  {"type":"function","name":"TxOutput","inputs":[]},
  {"type":"function","name":"Witness","inputs":[
    {"name":"kind","type":"string"},
    {"name":"data","type":"bytes"},
    {"name":"variables","type":"uint256[]"}]},
  {"type":"function","name":"Query","inputs":[
    {"name":"target","type":"bytes"},
    {"name":"selector","type":"bytes4"},
    {"name":"arguments","type":"bytes[]"},
    {"name":"hasBlockNumber","type":"bool"},
    {"name":"blockNumber","type":"uint256"}]}]`

var (
	resolveContractABI = ethabi.MustNewABI(resolveABI)
	stepContractABI     = ethabi.MustNewABI(stepABI)
	attributesContractABI = ethabi.MustNewABI(attributesABI)
	formulaContractABI     = ethabi.MustNewABI(formulaABI)
	paymentContractABI     = ethabi.MustNewABI(paymentABI)
	variableRoleContractABI = ethabi.MustNewABI(variableRoleABI)
)
