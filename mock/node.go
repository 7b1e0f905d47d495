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

// Package mock implements a mock Ethereum execution node for contract-level
// tests. The node accepts a restricted subset of the eth JSON-RPC protocol,
// keeps minimal chain state (block height, nonces, gas price, deployed
// contracts, receipts) and routes contract calls to per-method expectations
// configured through a fluent API, in the manner of a mock-object framework.
//
// Misusing the mock - calling an unregistered method, sending a wrong nonce,
// querying historical blocks - fails the test immediately with a panic.
// Contract-level failures configured through ReturnsError are the only
// recoverable errors and surface as "execution reverted" RPC errors.
//
// A single mutex serializes all operations. Calling back into the node from
// a predicate or return function deadlocks; keep those closures free of
// side effects.
package mock

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xsoniclabs/ethmock/logger"
	"github.com/0xsoniclabs/ethmock/txsig"
)

// Verifier recovers the sender and payload of a raw signed transaction.
type Verifier interface {
	Recover(raw []byte, chainID uint64) (*txsig.Tx, error)
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(raw []byte, chainID uint64) (*txsig.Tx, error)

func (f VerifierFunc) Recover(raw []byte, chainID uint64) (*txsig.Tx, error) {
	return f(raw, chainID)
}

// Node is the mock execution node. All chain state lives behind one mutex;
// every RPC and every configuration change holds it for its full duration.
type Node struct {
	mu       sync.Mutex
	log      logger.Logger
	verifier Verifier

	chainID        uint64
	gasPrice       uint64
	block          uint64
	addressCounter uint64
	nonces         map[common.Address]uint64
	contracts      map[common.Address]*contract
	receipts       map[common.Hash]*Receipt
}

// NewNode creates a mock node for the given chain id.
func NewNode(chainID uint64) *Node {
	return NewNodeWithLogger(chainID, logger.NewLogger("info", "EthMock"))
}

// NewNodeWithLogger creates a mock node logging through the given logger.
func NewNodeWithLogger(chainID uint64, log logger.Logger) *Node {
	return &Node{
		log:       log,
		verifier:  VerifierFunc(txsig.Recover),
		chainID:   chainID,
		gasPrice:  1,
		nonces:    make(map[common.Address]uint64),
		contracts: make(map[common.Address]*contract),
		receipts:  make(map[common.Hash]*Receipt),
	}
}

// Deploy registers a mocked contract with the given ABI and returns a
// handle for configuring expectations on it. Contract addresses are derived
// from a monotonic counter and are never reused.
func (n *Node) Deploy(contractAbi abi.ABI) *Contract {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.addressCounter++
	address := common.BigToAddress(new(big.Int).SetUint64(n.addressCounter))
	n.contracts[address] = newContract(address, contractAbi)

	n.log.Debugf("deployed mocked contract at %v", address)
	return &Contract{node: n, address: address}
}

// UpdateGasPrice changes the gas price reported by eth_gasPrice.
func (n *Node) UpdateGasPrice(gasPrice uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gasPrice = gasPrice
}

// UpdateChainID changes the chain id reported by eth_chainId. Raw
// transactions received afterwards must be signed for the new id.
func (n *Node) UpdateChainID(chainID uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = chainID
}

// Checkpoint verifies that every expectation on every deployed contract
// reached its minimum call count, then drops all expectations. Previously
// issued expectation handles become stale.
func (n *Node) Checkpoint() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, c := range n.contracts {
		c.checkpoint()
	}
}

// contract returns the deployed contract at the given address, failing the
// test if there is none. Callers must hold the node lock.
func (n *Node) contract(address common.Address) *contract {
	c, ok := n.contracts[address]
	if !ok {
		panic(fmt.Sprintf("there is no mocked contract with address %v", address))
	}
	return c
}
