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

// Package txsig decodes raw signed transactions and recovers their senders.
// It is pure signature verification; the node consumes it behind an
// interface so the engine can be tested with stubbed recovery.
package txsig

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Tx is the decoded form of a raw signed transaction.
type Tx struct {
	From     common.Address
	To       common.Address
	Nonce    uint64
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
	Hash     common.Hash
}

// Recover decodes raw transaction bytes and recovers the sender address
// for the given chain id. Contract-creation payloads are rejected: the mock
// node deploys contracts through its API, not through transactions.
func Recover(raw []byte, chainID uint64) (*Tx, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrap(err, "cannot decode raw transaction")
	}

	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(chainID))
	from, err := types.Sender(signer, tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot recover transaction sender")
	}

	if tx.To() == nil {
		return nil, errors.New("contract creation transactions are not supported")
	}

	return &Tx{
		From:     from,
		To:       *tx.To(),
		Nonce:    tx.Nonce(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
		Hash:     tx.Hash(),
	}, nil
}
