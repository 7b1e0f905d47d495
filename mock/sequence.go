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
	"sync"
)

// Sequence imposes a relative order on expectations, possibly across
// methods and contracts. Expectations join a sequence in declaration order
// via Expectation.InSequence; a call that matches an expectation before all
// earlier members reached their minimum call count fails the test.
type Sequence struct {
	mu        sync.Mutex
	issued    int
	satisfied int
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) add() *seqHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &seqHandle{seq: s, index: s.issued}
	s.issued++
	return h
}

// seqHandle is one expectation's membership in a sequence.
type seqHandle struct {
	seq   *Sequence
	index int
}

// verify panics unless every obligation declared before this one has been
// satisfied.
func (h *seqHandle) verify(description string) {
	h.seq.mu.Lock()
	defer h.seq.mu.Unlock()

	if h.index > h.seq.satisfied {
		panic(fmt.Sprintf("out of order call to %s", description))
	}
}

// satisfy marks this obligation as met. Obligations are satisfied strictly
// in declaration order, so a repeat call past the minimum count is a no-op.
func (h *seqHandle) satisfy() {
	h.seq.mu.Lock()
	defer h.seq.mu.Unlock()

	if h.index == h.seq.satisfied {
		h.seq.satisfied++
	}
}
