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
	"github.com/ethereum/go-ethereum/common"
)

// Contract is a handle for a deployed mocked contract.
type Contract struct {
	node    *Node
	address common.Address
}

// Address returns the address the contract was deployed at.
func (c *Contract) Address() common.Address {
	return c.address
}

// Checkpoint verifies that every expectation on this contract reached its
// minimum call count, then drops them all. Handles issued for this contract
// become stale.
func (c *Contract) Checkpoint() {
	c.node.mu.Lock()
	defer c.node.mu.Unlock()

	c.node.contract(c.address).checkpoint()
}

// ExpectMethod registers a new expectation for the named method and returns
// its typed handle. P is the method's decoded parameter tuple (the bare
// parameter type for one parameter, a struct with matching field names for
// several); R is the result tuple. An unconfigured expectation matches every
// call any number of times and returns zero values.
//
// Overloaded methods follow go-ethereum's ABI naming: the first overload
// keeps its name, later ones get a numeric suffix.
func ExpectMethod[P any, R any](c *Contract, name string) *Expectation[P, R] {
	c.node.mu.Lock()
	defer c.node.mu.Unlock()

	m := c.node.contract(c.address).methodByName(name)
	return expect[P, R](c, m)
}

// ExpectSelector registers a new expectation for the method with the given
// 4-byte selector.
func ExpectSelector[P any, R any](c *Contract, selector [4]byte) *Expectation[P, R] {
	c.node.mu.Lock()
	defer c.node.mu.Unlock()

	m := c.node.contract(c.address).method(selector)
	return expect[P, R](c, m)
}

func expect[P any, R any](c *Contract, m *method) *Expectation[P, R] {
	index, generation := m.expect(newExpectation[P, R]())

	var selector [4]byte
	copy(selector[:], m.fn.ID)
	return &Expectation[P, R]{
		node:       c.node,
		address:    c.address,
		selector:   selector,
		index:      index,
		generation: generation,
	}
}
