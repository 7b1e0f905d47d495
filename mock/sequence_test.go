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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_ObligationsAreSatisfiedInOrder(t *testing.T) {
	seq := NewSequence()
	first := seq.add()
	second := seq.add()

	assert.NotPanics(t, func() { first.verify("first") })
	first.satisfy()

	assert.NotPanics(t, func() { second.verify("second") })
	second.satisfy()
}

func TestSequence_OutOfOrderCallPanics(t *testing.T) {
	seq := NewSequence()
	seq.add()
	second := seq.add()

	assert.PanicsWithValue(t, "out of order call to second", func() {
		second.verify("second")
	})
}

func TestSequence_RepeatedSatisfyIsIdempotent(t *testing.T) {
	seq := NewSequence()
	first := seq.add()
	second := seq.add()

	first.satisfy()
	first.satisfy()

	// the second obligation must still be the next one in line
	assert.NotPanics(t, func() { second.verify("second") })
}
