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
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/0xsoniclabs/ethmock/rpc"
)

// Receipt is the transaction receipt synthesized for every processed
// state-changing transaction. The mock mines transactions immediately, so a
// receipt exists as soon as eth_sendRawTransaction returns.
type Receipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockHash         *common.Hash    `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	GasUsed           *hexutil.Uint64 `json:"gasUsed"`
	ContractAddress   *common.Address `json:"contractAddress"`
	Logs              []*types.Log    `json:"logs"`
	LogsBloom         types.Bloom     `json:"logsBloom"`
	Status            hexutil.Uint64  `json:"status"`
}

// Execute runs a single RPC method with positional parameters and returns
// its result. Contract reverts come back as *rpc.Error; any misuse of the
// mock panics.
func (n *Node) Execute(method string, params ...interface{}) (interface{}, error) {
	return n.dispatch(method, params)
}

// ExecuteRequest runs a full JSON-RPC request and envelopes the outcome.
// Notifications and by-name parameters are not supported and fail the test.
func (n *Node) ExecuteRequest(req *rpc.Request) *rpc.Response {
	if req.IsNotification() {
		panic("rpc notifications are not supported")
	}

	var params []interface{}
	switch p := req.Params.(type) {
	case nil:
	case []interface{}:
		params = p
	case map[string]interface{}:
		panic("passing arguments by map is not supported")
	default:
		panic(fmt.Sprintf("unknown or invalid rpc params type %T", req.Params))
	}

	result, err := n.dispatch(req.Method, params)

	response := &rpc.Response{Version: rpc.Version, ID: req.ID}
	if err != nil {
		var rpcErr *rpc.Error
		if !errors.As(err, &rpcErr) {
			rpcErr = &rpc.Error{Code: rpc.CodeServerError, Message: err.Error()}
		}
		response.Error = rpcErr
	} else {
		response.Result = result
	}
	return response
}

func (n *Node) dispatch(method string, params []interface{}) (interface{}, error) {
	n.log.Debugf("rpc request %s", method)

	args := rpc.NewParser(method, params)
	switch method {
	case "eth_blockNumber":
		return n.blockNumber(args)
	case "eth_chainId":
		return n.chainIDValue(args)
	case "eth_getTransactionCount":
		return n.transactionCount(args)
	case "eth_gasPrice":
		return n.gasPriceValue(args)
	case "eth_estimateGas":
		return n.estimateGas(args)
	case "eth_call":
		return n.call(args)
	case "eth_sendTransaction":
		return n.sendTransaction(args)
	case "eth_sendRawTransaction":
		return n.sendRawTransaction(args)
	case "eth_getTransactionReceipt":
		return n.transactionReceipt(args)
	default:
		panic(fmt.Sprintf("mock node does not support rpc method %q", method))
	}
}

func (n *Node) blockNumber(args *rpc.Parser) (interface{}, error) {
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()
	return hexutil.Uint64(n.block), nil
}

func (n *Node) chainIDValue(args *rpc.Parser) (interface{}, error) {
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()
	return hexutil.Uint64(n.chainID), nil
}

func (n *Node) transactionCount(args *rpc.Parser) (interface{}, error) {
	address := args.Address()
	block := args.BlockNumberOpt()
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()

	bn := rpc.PendingBlockNumber
	if block != nil {
		bn = *block
	}
	switch {
	case bn == rpc.EarliestBlockNumber:
		return hexutil.Uint64(0), nil
	case bn.IsNumber() && bn.Uint64() == 0:
		return hexutil.Uint64(0), nil
	case bn.IsNumber() && bn.Uint64() != n.block:
		panic("mock node does not support returning transaction count for specific block number")
	default:
		return hexutil.Uint64(n.nonces[address]), nil
	}
}

func (n *Node) gasPriceValue(args *rpc.Parser) (interface{}, error) {
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()
	return hexutil.Uint64(n.gasPrice), nil
}

// estimateGas validates the request the way a real node would but returns a
// constant placeholder; the mock does not model gas costs.
func (n *Node) estimateGas(args *rpc.Parser) (interface{}, error) {
	request := args.CallRequest()
	block := args.BlockNumberOpt()
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.checkBlock(block)
	if request.To == nil {
		panic("call's 'to' field is empty")
	}

	return hexutil.Uint64(1), nil
}

func (n *Node) call(args *rpc.Parser) (interface{}, error) {
	request := args.CallRequest()
	block := args.BlockNumberOpt()
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.checkBlock(block)

	var from common.Address
	if request.From != nil {
		from = *request.From
	}
	if request.To == nil {
		panic("call's 'to' field is empty")
	}
	to := *request.To

	gas := uint64(1)
	if request.Gas != nil {
		gas = *request.Gas
	}
	gasPrice := request.GasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int).SetUint64(n.gasPrice)
	}
	value := request.Value
	if value == nil {
		value = new(big.Int)
	}

	context := &CallContext{
		IsViewCall: true,
		From:       from,
		To:         to,
		Nonce:      n.nonces[from],
		Gas:        gas,
		GasPrice:   gasPrice,
		Value:      value,
	}

	result := n.contract(to).processTx(context, request.Data)
	if result.err != nil {
		return nil, rpc.NewRevertError(result.err.Error())
	}
	return hexutil.Bytes(result.output), nil
}

func (n *Node) sendTransaction(args *rpc.Parser) (interface{}, error) {
	args.CallRequest()
	args.Done()

	panic("mock node can't sign transactions, use offline signing with private key")
}

func (n *Node) sendRawTransaction(args *rpc.Parser) (interface{}, error) {
	raw := args.Bytes()
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()

	tx, err := n.verifier.Recover(raw, n.chainID)
	if err != nil {
		panic(fmt.Sprintf("invalid raw transaction: %v", err))
	}

	nonce := n.nonces[tx.From]
	if nonce != tx.Nonce {
		panic(fmt.Sprintf("nonce mismatch for account %v: expected %d, got %d", tx.From, nonce, tx.Nonce))
	}
	n.nonces[tx.From] = nonce + 1

	context := &CallContext{
		IsViewCall: false,
		From:       tx.From,
		To:         tx.To,
		Nonce:      tx.Nonce,
		Gas:        tx.Gas,
		GasPrice:   tx.GasPrice,
		Value:      tx.Value,
	}

	result := n.contract(tx.To).processTx(context, tx.Data)

	n.block++

	status := hexutil.Uint64(1)
	if result.err != nil {
		status = 0
	}
	to := tx.To
	n.receipts[tx.Hash] = &Receipt{
		TransactionHash:   tx.Hash,
		BlockNumber:       hexutil.Uint64(n.block),
		From:              tx.From,
		To:                &to,
		CumulativeGasUsed: 1,
		Logs:              []*types.Log{},
		Status:            status,
	}

	n.block += result.confirmations

	return tx.Hash, nil
}

func (n *Node) transactionReceipt(args *rpc.Parser) (interface{}, error) {
	hash := args.Hash()
	args.Done()

	n.mu.Lock()
	defer n.mu.Unlock()

	receipt, ok := n.receipts[hash]
	if !ok {
		panic(fmt.Sprintf("there is no transaction with hash %v", hash))
	}
	return receipt, nil
}

// checkBlock rejects block selectors the mock cannot serve: it has a single
// current snapshot and no history.
func (n *Node) checkBlock(block *rpc.BlockNumber) {
	if block == nil {
		return
	}
	switch {
	case *block == rpc.EarliestBlockNumber:
		panic("mock node does not support executing methods on earliest block")
	case block.IsNumber() && block.Uint64() != n.block:
		panic("mock node does not support executing methods on non-last block")
	}
}
