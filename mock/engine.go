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

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xsoniclabs/ethmock/abiutil"
)

// txResult is the outcome of a matched call: either encoded return data or
// a revert error, plus the number of extra confirmation blocks to mine.
type txResult struct {
	output        []byte
	err           error
	confirmations uint64
}

// contract is a deployed mocked contract: an address and its methods,
// indexed by 4-byte selector. Built once at deploy time and never changed.
type contract struct {
	address common.Address
	methods map[[4]byte]*method
}

func newContract(address common.Address, contractAbi abi.ABI) *contract {
	methods := make(map[[4]byte]*method, len(contractAbi.Methods))
	for _, fn := range contractAbi.Methods {
		var selector [4]byte
		copy(selector[:], fn.ID)
		methods[selector] = newMethod(address, fn)
	}
	return &contract{address: address, methods: methods}
}

// method returns the method with the given selector, failing the test if
// the contract does not declare it.
func (c *contract) method(selector [4]byte) *method {
	m, ok := c.methods[selector]
	if !ok {
		panic(fmt.Sprintf("contract %v does not have a method with selector 0x%x", c.address, selector))
	}
	return m
}

// methodByName returns the method with the given ABI name. Overloaded
// methods follow go-ethereum's naming, e.g. "transfer" and "transfer0".
func (c *contract) methodByName(name string) *method {
	for _, m := range c.methods {
		if m.fn.Name == name {
			return m
		}
	}
	panic(fmt.Sprintf("contract %v does not have a method named %q", c.address, name))
}

func (c *contract) processTx(tx *CallContext, data []byte) *txResult {
	if len(data) < 4 {
		panic(fmt.Sprintf("transaction to contract %v has invalid call data", c.address))
	}
	var selector [4]byte
	copy(selector[:], data[:4])
	return c.method(selector).processTx(tx, data)
}

// checkpoint verifies that every expectation reached its minimum call count
// and then drops all expectations, invalidating issued handles.
func (c *contract) checkpoint() {
	for _, m := range c.methods {
		m.verify()
		m.reset()
	}
}

// method is an ABI function descriptor together with its configured
// expectations. Expectations are scanned in insertion order; the generation
// counter invalidates handles issued before the last reset.
type method struct {
	description  string
	fn           abi.Method
	generation   uint64
	expectations []anyExpectation
}

func newMethod(address common.Address, fn abi.Method) *method {
	return &method{
		description: fmt.Sprintf("%s on contract %v", fn.Sig, address),
		fn:          fn,
	}
}

// expect appends a new expectation and returns its handle coordinates.
func (m *method) expect(e anyExpectation) (index int, generation uint64) {
	m.expectations = append(m.expectations, e)
	return len(m.expectations) - 1, m.generation
}

// processTx decodes the call data and routes it to the first matching
// expectation. An unmatched call is a test-configuration bug and fails the
// test rather than returning an error.
func (m *method) processTx(tx *CallContext, data []byte) *txResult {
	if tx.Value != nil && tx.Value.Sign() != 0 && m.fn.StateMutability != "payable" {
		panic(fmt.Sprintf("call to non-payable %s with non-zero value %v", m.description, tx.Value))
	}

	values, err := m.fn.Inputs.Unpack(data[4:])
	if err != nil {
		panic(fmt.Sprintf("unable to decode input for %s: %v", m.description, err))
	}

	for _, e := range m.expectations {
		if !e.isActive() {
			continue
		}
		if result, ok := e.processTx(tx, m.description, &m.fn, values); ok {
			return result
		}
	}

	panic(fmt.Sprintf("unexpected call to %s", m.description))
}

func (m *method) verify() {
	for i, e := range m.expectations {
		used, required := e.usage()
		if used < required {
			panic(fmt.Sprintf("expectation %d for %s was called %d times, expected at least %d",
				i, m.description, used, required))
		}
	}
}

func (m *method) reset() {
	m.expectations = nil
	m.generation++
}

// anyExpectation is the type-erased capability interface the engine uses to
// evaluate expectations of arbitrary parameter and result types uniformly.
// Typed behavior is recovered only by the handle that created the
// expectation, never inside the engine.
type anyExpectation interface {
	// isActive reports whether the expectation may still be matched.
	isActive() bool

	// usage returns the number of matched calls and the required minimum.
	usage() (used, required uint64)

	// processTx attempts to match and consume the call. The second return
	// is false when the call does not match and the scan should continue.
	processTx(tx *CallContext, description string, fn *abi.Method, values []interface{}) (*txResult, bool)
}

type predicateKind int

const (
	predicateAny predicateKind = iota
	predicateObj
	predicateFn
	predicateCtxFn
)

type returnsKind int

const (
	returnsDefault returnsKind = iota
	returnsError
	returnsConst
	returnsFn
	returnsCtxFn
)

// expectation is one configured call contract for a method, parameterized
// by the decoded parameter tuple P and the result tuple R.
type expectation[P any, R any] struct {
	times         TimesRange
	used          uint64
	checked       bool
	confirmations uint64

	predicateKind  predicateKind
	predicate      Predicate[P]
	predicateFn    func(P) bool
	predicateCtxFn func(*CallContext, P) bool

	allowCalls        bool
	allowTransactions bool

	returnsKind  returnsKind
	returnsMsg   string
	returnsValue R
	returnsFn    func(P) (R, error)
	returnsCtxFn func(*CallContext, P) (R, error)

	sequence *seqHandle
}

func newExpectation[P any, R any]() *expectation[P, R] {
	return &expectation[P, R]{
		allowCalls:        true,
		allowTransactions: true,
	}
}

func (e *expectation[P, R]) isActive() bool {
	return e.times.CanCall(e.used)
}

func (e *expectation[P, R]) usage() (uint64, uint64) {
	return e.used, e.times.LowerBound()
}

func (e *expectation[P, R]) processTx(tx *CallContext, description string, fn *abi.Method, values []interface{}) (*txResult, bool) {
	e.checked = true

	if tx.IsViewCall && !e.allowCalls || !tx.IsViewCall && !e.allowTransactions {
		return nil, false
	}
	if !e.times.CanCall(e.used) {
		return nil, false
	}

	params, err := abiutil.ConvertTuple[P](fn.Inputs, values)
	if err != nil {
		panic(fmt.Sprintf("unable to decode input for %s: %v", description, err))
	}

	if !e.matches(tx, params) {
		return nil, false
	}

	e.used++
	if e.sequence != nil {
		e.sequence.verify(description)
		if e.used == e.times.LowerBound() {
			e.sequence.satisfy()
		}
	}

	output, err := e.result(tx, description, fn, params)
	return &txResult{output: output, err: err, confirmations: e.confirmations}, true
}

func (e *expectation[P, R]) matches(tx *CallContext, params P) bool {
	switch e.predicateKind {
	case predicateObj:
		return e.predicate.Eval(params)
	case predicateFn:
		return e.predicateFn(params)
	case predicateCtxFn:
		return e.predicateCtxFn(tx, params)
	default:
		return true
	}
}

// result produces the call outcome. A returned error is a contract revert;
// failures to encode the configured value fail the test instead.
func (e *expectation[P, R]) result(tx *CallContext, description string, fn *abi.Method, params P) ([]byte, error) {
	switch e.returnsKind {
	case returnsError:
		return nil, errors.New(e.returnsMsg)
	case returnsConst:
		return e.pack(description, fn, e.returnsValue)
	case returnsFn:
		value, err := e.returnsFn(params)
		if err != nil {
			return nil, err
		}
		return e.pack(description, fn, value)
	case returnsCtxFn:
		value, err := e.returnsCtxFn(tx, params)
		if err != nil {
			return nil, err
		}
		return e.pack(description, fn, value)
	default:
		output, err := abiutil.ZeroOutput(fn.Outputs)
		if err != nil {
			panic(fmt.Sprintf("unable to encode default output for %s: %v", description, err))
		}
		return output, nil
	}
}

func (e *expectation[P, R]) pack(description string, fn *abi.Method, value R) ([]byte, error) {
	output, err := abiutil.PackOutput(fn.Outputs, value)
	if err != nil {
		panic(fmt.Sprintf("unable to encode output for %s: %v", description, err))
	}
	return output, nil
}
