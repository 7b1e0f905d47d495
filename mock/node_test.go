// Copyright 2025 Sonic Labs
// This file is part of Ethmock, a mock execution node for contract tests.
//
// Ethmock is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Ethmock is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Ethmock. If not, see <http://www.gnu.org/licenses/>.

package mock

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/0xsoniclabs/ethmock/logger"
	"github.com/0xsoniclabs/ethmock/rpc"
	"github.com/0xsoniclabs/ethmock/txsig"
)

const testAbiJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"deposit","stateMutability":"payable",
	 "inputs":[],"outputs":[]},
	{"type":"function","name":"stats","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"total","type":"uint256"},{"name":"active","type":"bool"}]}
]`

type transferParams struct {
	To     common.Address
	Amount *big.Int
}

type statsResult struct {
	Total  *big.Int
	Active bool
}

func testAbi(t *testing.T) abi.ABI {
	t.Helper()
	contractAbi, err := abi.JSON(strings.NewReader(testAbiJSON))
	require.NoError(t, err)
	return contractAbi
}

func newTestNode(chainID uint64) *Node {
	return NewNodeWithLogger(chainID, logger.NewLogger("critical", "EthMock-Test"))
}

func deployToken(t *testing.T) (*Node, *Contract) {
	t.Helper()
	node := newTestNode(1337)
	return node, node.Deploy(testAbi(t))
}

func packCall(t *testing.T, name string, args ...interface{}) []byte {
	t.Helper()
	data, err := testAbi(t).Pack(name, args...)
	require.NoError(t, err)
	return data
}

func view(n *Node, to common.Address, data []byte) (interface{}, error) {
	return n.Execute("eth_call", map[string]interface{}{
		"to":   to.Hex(),
		"data": hexutil.Encode(data),
	})
}

func signedTx(t *testing.T, key *ecdsa.PrivateKey, chainID, nonce uint64, to common.Address, data []byte) []byte {
	t.Helper()
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(chainID))
	tx, err := types.SignNewTx(key, signer, &types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      100_000,
		GasPrice: big.NewInt(1),
		Data:     data,
	})
	require.NoError(t, err)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestNode_BlockNumberStartsAtZero(t *testing.T) {
	node := newTestNode(1337)

	result, err := node.Execute("eth_blockNumber")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(0), result)
}

func TestNode_DispatchLogsRpcRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	log.EXPECT().Debugf("rpc request %s", "eth_blockNumber")

	node := NewNodeWithLogger(1337, log)
	result, err := node.Execute("eth_blockNumber")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(0), result)
}

func TestNode_ChainID(t *testing.T) {
	node := newTestNode(1337)

	result, err := node.Execute("eth_chainId")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(1337), result)

	node.UpdateChainID(5)
	result, err = node.Execute("eth_chainId")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(5), result)
}

func TestNode_GasPrice(t *testing.T) {
	node := newTestNode(1337)

	result, err := node.Execute("eth_gasPrice")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(1), result)

	node.UpdateGasPrice(42)
	result, err = node.Execute("eth_gasPrice")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(42), result)
}

func TestNode_TransactionCount(t *testing.T) {
	address := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("earliest block is always zero", func(t *testing.T) {
		node := newTestNode(1337)
		result, err := node.Execute("eth_getTransactionCount", address.Hex(), "earliest")
		require.NoError(t, err)
		assert.Equal(t, hexutil.Uint64(0), result)
	})

	t.Run("block zero is always zero", func(t *testing.T) {
		node := newTestNode(1337)
		result, err := node.Execute("eth_getTransactionCount", address.Hex(), "0x0")
		require.NoError(t, err)
		assert.Equal(t, hexutil.Uint64(0), result)
	})

	t.Run("pending returns stored nonce", func(t *testing.T) {
		node := newTestNode(1337)
		result, err := node.Execute("eth_getTransactionCount", address.Hex())
		require.NoError(t, err)
		assert.Equal(t, hexutil.Uint64(0), result)
	})

	t.Run("historical block fails the test", func(t *testing.T) {
		node := newTestNode(1337)
		assert.Panics(t, func() {
			_, _ = node.Execute("eth_getTransactionCount", address.Hex(), "0x5")
		})
	})
}

func TestNode_EstimateGas(t *testing.T) {
	node, contract := deployToken(t)

	t.Run("returns placeholder", func(t *testing.T) {
		result, err := node.Execute("eth_estimateGas", map[string]interface{}{
			"to": contract.Address().Hex(),
		})
		require.NoError(t, err)
		assert.Equal(t, hexutil.Uint64(1), result)
	})

	t.Run("missing recipient fails the test", func(t *testing.T) {
		assert.PanicsWithValue(t, "call's 'to' field is empty", func() {
			_, _ = node.Execute("eth_estimateGas", map[string]interface{}{})
		})
	})

	t.Run("earliest block fails the test", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = node.Execute("eth_estimateGas", map[string]interface{}{
				"to": contract.Address().Hex(),
			}, "earliest")
		})
	})

	t.Run("historical block fails the test", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = node.Execute("eth_estimateGas", map[string]interface{}{
				"to": contract.Address().Hex(),
			}, "0x9")
		})
	})
}

func TestNode_DeployAddressesAreSequential(t *testing.T) {
	node := newTestNode(1337)
	contractAbi := testAbi(t)

	first := node.Deploy(contractAbi)
	second := node.Deploy(contractAbi)

	assert.Equal(t, common.BigToAddress(big.NewInt(1)), first.Address())
	assert.Equal(t, common.BigToAddress(big.NewInt(2)), second.Address())
}

func TestNode_Call_ReturnsConfiguredValue(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Times(1).
		Returns(big.NewInt(42))

	result, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	values, err := testAbi(t).Unpack("balanceOf", result.(hexutil.Bytes))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), values[0])

	// the single allowed call is used up; the next one has no match left
	assert.PanicsWithValue(t,
		fmt.Sprintf("unexpected call to balanceOf(address) on contract %v", contract.Address()),
		func() {
			_, _ = view(node, contract.Address(), packCall(t, "balanceOf", owner))
		})
}

func TestNode_Call_DefaultReturnsZeroValues(t *testing.T) {
	node, contract := deployToken(t)

	ExpectMethod[struct{}, statsResult](contract, "stats")

	result, err := view(node, contract.Address(), packCall(t, "stats"))
	require.NoError(t, err)

	values, err := testAbi(t).Unpack("stats", result.(hexutil.Bytes))
	require.NoError(t, err)
	assert.Zero(t, values[0].(*big.Int).Sign())
	assert.Equal(t, false, values[1])
}

func TestNode_Call_MultiOutputResult(t *testing.T) {
	node, contract := deployToken(t)

	ExpectMethod[struct{}, statsResult](contract, "stats").
		Returns(statsResult{Total: big.NewInt(7), Active: true})

	result, err := view(node, contract.Address(), packCall(t, "stats"))
	require.NoError(t, err)

	values, err := testAbi(t).Unpack("stats", result.(hexutil.Bytes))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), values[0])
	assert.Equal(t, true, values[1])
}

func TestNode_Call_RevertBecomesRpcError(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		ReturnsError("out of tokens")

	_, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.Error(t, err)

	rpcErr, ok := err.(*rpc.Error)
	require.True(t, ok)
	assert.Equal(t, rpc.CodeServerError, rpcErr.Code)
	assert.Equal(t, "execution reverted: out of tokens", rpcErr.Message)
}

func TestNode_Call_InsertionOrderDeterminesPriority(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	// both expectations match; the earlier-registered one must win
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").Returns(big.NewInt(1))
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").Returns(big.NewInt(2))

	result, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	values, err := testAbi(t).Unpack("balanceOf", result.(hexutil.Bytes))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), values[0])
}

func TestNode_Call_ExhaustedExpectationFallsThrough(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Times(1).
		Returns(big.NewInt(1))
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Returns(big.NewInt(2))

	expected := []int64{1, 2, 2}
	for _, want := range expected {
		result, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
		require.NoError(t, err)

		values, err := testAbi(t).Unpack("balanceOf", result.(hexutil.Bytes))
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(want), values[0])
	}
}

func TestNode_Call_UnmatchedPredicateFallsThrough(t *testing.T) {
	node, contract := deployToken(t)
	alice := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	bob := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		WithFn(func(owner common.Address) bool { return owner == alice }).
		Returns(big.NewInt(100))
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Returns(big.NewInt(0))

	for owner, want := range map[common.Address]int64{alice: 100, bob: 0} {
		result, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
		require.NoError(t, err)

		values, err := testAbi(t).Unpack("balanceOf", result.(hexutil.Bytes))
		require.NoError(t, err)
		assert.Zero(t, values[0].(*big.Int).Cmp(big.NewInt(want)))
	}
}

func TestNode_Call_NonPayableValueGuard(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	// an expectation exists, but the guard must fire before any matching
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").Returns(big.NewInt(1))

	assert.Panics(t, func() {
		_, _ = node.Execute("eth_call", map[string]interface{}{
			"to":    contract.Address().Hex(),
			"data":  hexutil.Encode(packCall(t, "balanceOf", owner)),
			"value": "0x1",
		})
	})
}

func TestNode_Call_PayableMethodAcceptsValue(t *testing.T) {
	node, contract := deployToken(t)

	ExpectMethod[struct{}, struct{}](contract, "deposit")

	_, err := node.Execute("eth_call", map[string]interface{}{
		"to":    contract.Address().Hex(),
		"data":  hexutil.Encode(packCall(t, "deposit")),
		"value": "0x100",
	})
	require.NoError(t, err)
}

func TestNode_Call_UnknownContractFailsTheTest(t *testing.T) {
	node := newTestNode(1337)

	assert.Panics(t, func() {
		_, _ = node.Execute("eth_call", map[string]interface{}{
			"to":   common.HexToAddress("0xdead").Hex(),
			"data": "0x01020304",
		})
	})
}

func TestNode_Call_UnknownSelectorFailsTheTest(t *testing.T) {
	node, contract := deployToken(t)

	assert.Panics(t, func() {
		_, _ = view(node, contract.Address(), []byte{0xde, 0xad, 0xbe, 0xef})
	})
}

func TestNode_Call_ShortCallDataFailsTheTest(t *testing.T) {
	node, contract := deployToken(t)

	assert.Panics(t, func() {
		_, _ = view(node, contract.Address(), []byte{0x01})
	})
}

func TestNode_Call_DoesNotAdvanceBlockOrNonce(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").Returns(big.NewInt(1))

	_, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	block, err := node.Execute("eth_blockNumber")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(0), block)

	nonce, err := node.Execute("eth_getTransactionCount", owner.Hex())
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(0), nonce)
}

func TestNode_SendRawTransaction_EndToEnd(t *testing.T) {
	node, contract := deployToken(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	ExpectMethod[transferParams, bool](contract, "transfer").
		Times(1).
		WithFn(func(params transferParams) bool {
			return params.To == recipient && params.Amount.Cmp(big.NewInt(10)) == 0
		}).
		Returns(true)

	raw := signedTx(t, key, 1337, 0, contract.Address(), packCall(t, "transfer", recipient, big.NewInt(10)))
	result, err := node.Execute("eth_sendRawTransaction", hexutil.Encode(raw))
	require.NoError(t, err)

	hash, ok := result.(common.Hash)
	require.True(t, ok)

	// transaction was mined immediately: block and nonce advanced
	block, err := node.Execute("eth_blockNumber")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(1), block)

	nonce, err := node.Execute("eth_getTransactionCount", sender.Hex())
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(1), nonce)

	receiptValue, err := node.Execute("eth_getTransactionReceipt", hash.Hex())
	require.NoError(t, err)
	receipt := receiptValue.(*Receipt)
	assert.Equal(t, hash, receipt.TransactionHash)
	assert.Equal(t, hexutil.Uint64(1), receipt.BlockNumber)
	assert.Equal(t, hexutil.Uint64(1), receipt.Status)
	assert.Equal(t, sender, receipt.From)
	require.NotNil(t, receipt.To)
	assert.Equal(t, contract.Address(), *receipt.To)
}

func TestNode_SendRawTransaction_NonceMismatchFailsTheTest(t *testing.T) {
	node, contract := deployToken(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	ExpectMethod[transferParams, bool](contract, "transfer").Returns(true)

	raw := signedTx(t, key, 1337, 7, contract.Address(), packCall(t, "transfer", recipient, big.NewInt(1)))
	assert.Panics(t, func() {
		_, _ = node.Execute("eth_sendRawTransaction", hexutil.Encode(raw))
	})
}

func TestNode_SendRawTransaction_ConfirmationsAdvanceExtraBlocks(t *testing.T) {
	node, contract := deployToken(t)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	sender := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	hash := common.HexToHash("0x01")
	data := packCall(t, "transfer", recipient, big.NewInt(1))

	ctrl := gomock.NewController(t)
	verifier := NewMockVerifier(ctrl)
	verifier.EXPECT().Recover(gomock.Any(), uint64(1337)).Return(&txsig.Tx{
		From:     sender,
		To:       contract.Address(),
		Nonce:    0,
		Gas:      21_000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
		Data:     data,
		Hash:     hash,
	}, nil)
	node.verifier = verifier

	ExpectMethod[transferParams, bool](contract, "transfer").
		Confirmations(3).
		Returns(true)

	_, err := node.Execute("eth_sendRawTransaction", "0x00")
	require.NoError(t, err)

	// 1 block for the transaction itself plus 3 confirmations
	block, err := node.Execute("eth_blockNumber")
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(4), block)

	// the receipt records the block the transaction was mined in
	receiptValue, err := node.Execute("eth_getTransactionReceipt", hash.Hex())
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(1), receiptValue.(*Receipt).BlockNumber)
}

func TestNode_SendRawTransaction_RevertIsRecordedInReceipt(t *testing.T) {
	node, contract := deployToken(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	ExpectMethod[transferParams, bool](contract, "transfer").
		ReturnsError("insufficient balance")

	raw := signedTx(t, key, 1337, 0, contract.Address(), packCall(t, "transfer", recipient, big.NewInt(1)))

	// the transaction is mined despite the revert; only the receipt records it
	result, err := node.Execute("eth_sendRawTransaction", hexutil.Encode(raw))
	require.NoError(t, err)
	hash := result.(common.Hash)

	receiptValue, err := node.Execute("eth_getTransactionReceipt", hash.Hex())
	require.NoError(t, err)
	assert.Equal(t, hexutil.Uint64(0), receiptValue.(*Receipt).Status)
}

func TestNode_SendRawTransaction_InvalidSignatureFailsTheTest(t *testing.T) {
	node := newTestNode(1337)

	assert.Panics(t, func() {
		_, _ = node.Execute("eth_sendRawTransaction", "0x0102")
	})
}

func TestNode_SendTransaction_IsRejected(t *testing.T) {
	node, contract := deployToken(t)

	assert.PanicsWithValue(t,
		"mock node can't sign transactions, use offline signing with private key",
		func() {
			_, _ = node.Execute("eth_sendTransaction", map[string]interface{}{
				"to": contract.Address().Hex(),
			})
		})
}

func TestNode_ReceiptForUnknownHashFailsTheTest(t *testing.T) {
	node := newTestNode(1337)

	assert.Panics(t, func() {
		_, _ = node.Execute("eth_getTransactionReceipt", common.HexToHash("0x01").Hex())
	})
}

func TestNode_UnsupportedMethodFailsTheTest(t *testing.T) {
	node := newTestNode(1337)

	assert.PanicsWithValue(t, `mock node does not support rpc method "eth_getLogs"`, func() {
		_, _ = node.Execute("eth_getLogs")
	})
}

func TestNode_ExecuteRequest(t *testing.T) {
	t.Run("wraps result into a response", func(t *testing.T) {
		node := newTestNode(1337)
		response := node.ExecuteRequest(rpc.NewRequest("eth_blockNumber"))

		require.Nil(t, response.Error)
		assert.Equal(t, hexutil.Uint64(0), response.Result)
	})

	t.Run("wraps revert into an error response", func(t *testing.T) {
		node, contract := deployToken(t)
		owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

		ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
			ReturnsError("no such account")

		response := node.ExecuteRequest(rpc.NewRequest("eth_call", map[string]interface{}{
			"to":   contract.Address().Hex(),
			"data": hexutil.Encode(packCall(t, "balanceOf", owner)),
		}))

		require.NotNil(t, response.Error)
		assert.Equal(t, rpc.CodeServerError, response.Error.Code)
		assert.Equal(t, "execution reverted: no such account", response.Error.Message)
		assert.Nil(t, response.Result)
	})

	t.Run("notifications fail the test", func(t *testing.T) {
		node := newTestNode(1337)
		assert.PanicsWithValue(t, "rpc notifications are not supported", func() {
			node.ExecuteRequest(&rpc.Request{Version: rpc.Version, Method: "eth_blockNumber"})
		})
	})

	t.Run("parameters by map fail the test", func(t *testing.T) {
		node := newTestNode(1337)
		request := rpc.NewRequest("eth_blockNumber")
		request.Params = map[string]interface{}{"block": "latest"}

		assert.PanicsWithValue(t, "passing arguments by map is not supported", func() {
			node.ExecuteRequest(request)
		})
	})
}

func TestNode_Sequence_OutOfOrderCallFailsTheTest(t *testing.T) {
	node, contract := deployToken(t)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	seq := NewSequence()
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Times(1).
		Returns(big.NewInt(1)).
		InSequence(seq)
	ExpectMethod[transferParams, bool](contract, "transfer").
		Times(1).
		Returns(true).
		InSequence(seq)

	// transfer is second in the sequence, so calling it first must abort
	assert.PanicsWithValue(t,
		fmt.Sprintf("out of order call to transfer(address,uint256) on contract %v", contract.Address()),
		func() {
			_, _ = view(node, contract.Address(), packCall(t, "transfer", recipient, big.NewInt(1)))
		})
}

func TestNode_Sequence_InOrderCallsSucceed(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	seq := NewSequence()
	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Times(1).
		Returns(big.NewInt(1)).
		InSequence(seq)
	ExpectMethod[transferParams, bool](contract, "transfer").
		Times(1).
		Returns(true).
		InSequence(seq)

	_, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	_, err = view(node, contract.Address(), packCall(t, "transfer", recipient, big.NewInt(1)))
	require.NoError(t, err)
}

func TestNode_Checkpoint_UnmetExpectationFailsTheTest(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Times(2).
		Returns(big.NewInt(1))

	_, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	assert.Panics(t, func() {
		node.Checkpoint()
	})
}

func TestNode_Checkpoint_ClearsExpectations(t *testing.T) {
	node, contract := deployToken(t)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	expectation := ExpectMethod[common.Address, *big.Int](contract, "balanceOf").
		Times(1).
		Returns(big.NewInt(1))

	_, err := view(node, contract.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	node.Checkpoint()

	// the expectation list is gone, so any call is now unexpected
	assert.Panics(t, func() {
		_, _ = view(node, contract.Address(), packCall(t, "balanceOf", owner))
	})

	// and the handle issued before the checkpoint is stale
	assert.Panics(t, func() {
		expectation.Times(2)
	})
}

func TestContract_CheckpointCoversSingleContract(t *testing.T) {
	node := newTestNode(1337)
	contractAbi := testAbi(t)
	first := node.Deploy(contractAbi)
	second := node.Deploy(contractAbi)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	ExpectMethod[common.Address, *big.Int](first, "balanceOf").Returns(big.NewInt(1))
	ExpectMethod[common.Address, *big.Int](second, "balanceOf").Returns(big.NewInt(2))

	first.Checkpoint()

	// the second contract's expectations survive
	result, err := view(node, second.Address(), packCall(t, "balanceOf", owner))
	require.NoError(t, err)

	values, err := contractAbi.Unpack("balanceOf", result.(hexutil.Bytes))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), values[0])
}
