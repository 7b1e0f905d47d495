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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Predicate matches a decoded parameter tuple. It is the object form of a
// matcher; plain functions can be installed with WithFn and WithCtxFn.
type Predicate[P any] interface {
	Eval(params P) bool
}

// Expectation is a typed handle for configuring one registered expectation.
// Configuration is append-only: every setter panics once the expectation has
// been evaluated against a call, and every setter panics if the handle went
// stale because the owning method's expectations were reset.
type Expectation[P any, R any] struct {
	node       *Node
	address    common.Address
	selector   [4]byte
	index      int
	generation uint64
}

// update resolves the engine expectation behind this handle and applies f
// to it under the node lock.
func (e *Expectation[P, R]) update(f func(exp *expectation[P, R])) *Expectation[P, R] {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()

	m := e.node.contract(e.address).method(e.selector)
	if m.generation != e.generation {
		panic(fmt.Sprintf("expectation handle for %s is no longer valid", m.description))
	}

	exp, ok := m.expectations[e.index].(*expectation[P, R])
	if !ok {
		panic(fmt.Sprintf("expectation for %s was registered with different parameter types", m.description))
	}
	if exp.checked {
		panic(fmt.Sprintf("can not modify expectation for %s after it has been matched against a call", m.description))
	}

	f(exp)
	return e
}

// Times requires the expectation to be matched exactly n times.
func (e *Expectation[P, R]) Times(n uint64) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.times = Exactly(n)
	})
}

// TimesRange constrains the number of matched calls to the given range.
func (e *Expectation[P, R]) TimesRange(r TimesRange) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.times = r
	})
}

// With installs a predicate object as the matcher.
func (e *Expectation[P, R]) With(predicate Predicate[P]) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.predicateKind = predicateObj
		exp.predicate = predicate
	})
}

// WithFn installs a matcher over the decoded parameters.
func (e *Expectation[P, R]) WithFn(fn func(params P) bool) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.predicateKind = predicateFn
		exp.predicateFn = fn
	})
}

// WithCtxFn installs a matcher over the transaction context and the decoded
// parameters.
func (e *Expectation[P, R]) WithCtxFn(fn func(tx *CallContext, params P) bool) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.predicateKind = predicateCtxFn
		exp.predicateCtxFn = fn
	})
}

// Returns makes every matched call return the given value.
func (e *Expectation[P, R]) Returns(value R) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.returnsKind = returnsConst
		exp.returnsValue = value
	})
}

// ReturnsFn computes the result from the decoded parameters. A returned
// error reverts the call with that message.
func (e *Expectation[P, R]) ReturnsFn(fn func(params P) (R, error)) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.returnsKind = returnsFn
		exp.returnsFn = fn
	})
}

// ReturnsCtxFn computes the result from the transaction context and the
// decoded parameters. A returned error reverts the call with that message.
func (e *Expectation[P, R]) ReturnsCtxFn(fn func(tx *CallContext, params P) (R, error)) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.returnsKind = returnsCtxFn
		exp.returnsCtxFn = fn
	})
}

// ReturnsError reverts every matched call with the given message.
func (e *Expectation[P, R]) ReturnsError(msg string) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.returnsKind = returnsError
		exp.returnsMsg = msg
	})
}

// ReturnsDefault restores the default behavior of returning the canonical
// zero value for every declared output.
func (e *Expectation[P, R]) ReturnsDefault() *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.returnsKind = returnsDefault
	})
}

// Confirmations makes the node mine n extra blocks after a transaction
// matched by this expectation.
func (e *Expectation[P, R]) Confirmations(n uint64) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.confirmations = n
	})
}

// AllowCalls controls whether view calls may match this expectation.
func (e *Expectation[P, R]) AllowCalls(allow bool) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.allowCalls = allow
	})
}

// AllowTransactions controls whether state-changing transactions may match
// this expectation.
func (e *Expectation[P, R]) AllowTransactions(allow bool) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		exp.allowTransactions = allow
	})
}

// InSequence adds the expectation to a sequence. Its times range must
// require at least one call, otherwise the sequence obligation could never
// gate anything.
func (e *Expectation[P, R]) InSequence(s *Sequence) *Expectation[P, R] {
	return e.update(func(exp *expectation[P, R]) {
		if exp.times.LowerBound() == 0 {
			panic("expectation added to a sequence must be required to be called at least once")
		}
		exp.sequence = s.add()
	})
}
