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

import "fmt"

// TimesRange is an inclusive range of allowed call counts for an
// expectation. The upper end may be unbounded. The zero value allows any
// number of calls, including none.
type TimesRange struct {
	lower   uint64
	upper   uint64
	bounded bool
}

// Exactly requires precisely n calls.
func Exactly(n uint64) TimesRange {
	return TimesRange{lower: n, upper: n, bounded: true}
}

// AtLeast requires n or more calls.
func AtLeast(n uint64) TimesRange {
	return TimesRange{lower: n}
}

// AtMost allows up to n calls.
func AtMost(n uint64) TimesRange {
	return TimesRange{upper: n, bounded: true}
}

// Between requires between lo and hi calls, inclusive.
func Between(lo, hi uint64) TimesRange {
	if lo > hi {
		panic(fmt.Sprintf("invalid times range [%d, %d]", lo, hi))
	}
	return TimesRange{lower: lo, upper: hi, bounded: true}
}

// CanCall reports whether another call is allowed after used calls so far.
func (r TimesRange) CanCall(used uint64) bool {
	return !r.bounded || used < r.upper
}

// LowerBound returns the minimum number of required calls.
func (r TimesRange) LowerBound() uint64 {
	return r.lower
}

func (r TimesRange) String() string {
	if !r.bounded {
		return fmt.Sprintf("[%d, ∞)", r.lower)
	}
	return fmt.Sprintf("[%d, %d]", r.lower, r.upper)
}
