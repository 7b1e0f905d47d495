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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CallContext describes the call or transaction currently being matched.
// Predicates and return functions receive it alongside the decoded
// parameters when they opt into transaction context.
type CallContext struct {
	// IsViewCall distinguishes eth_call from a state-changing transaction.
	IsViewCall bool

	// From is the caller, or the recovered sender for transactions.
	From common.Address

	// To is the contract being called.
	To common.Address

	// Nonce is the sender's transaction counter. For view calls it is
	// looked up but not consumed.
	Nonce uint64

	// Gas is the gas limit attached to the call.
	Gas uint64

	// GasPrice is the gas price attached to the call.
	GasPrice *big.Int

	// Value is the amount of native currency sent along.
	Value *big.Int
}
