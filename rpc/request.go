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

// Package rpc defines the JSON-RPC surface of the mock node: request and
// response envelopes, the error type used for contract reverts, and the
// positional-parameter parser that turns untyped request arguments into
// typed values.
package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Version is the protocol version stamped on every envelope.
const Version = "2.0"

// CodeServerError is the error code carried by contract reverts.
const CodeServerError = -32000

// Request is a single JSON-RPC request. Params holds the decoded "params"
// member; the mock only accepts positional (array) parameters.
type Request struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  interface{}     `json:"params,omitempty"`
}

// NewRequest builds a positional-parameter request with a fixed id.
func NewRequest(method string, params ...interface{}) *Request {
	return &Request{
		Version: Version,
		ID:      json.RawMessage("1"),
		Method:  method,
		Params:  params,
	}
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a single JSON-RPC response.
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object. Contract-level failures reach callers
// through this type; everything else in the mock fails the test instead.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewRevertError wraps a contract revert message into the RPC error shape
// real nodes use for failed execution.
func NewRevertError(msg string) *Error {
	return &Error{
		Code:    CodeServerError,
		Message: fmt.Sprintf("execution reverted: %s", msg),
	}
}

// BlockNumber selects a block: a concrete number or one of the
// "earliest", "latest" and "pending" tags.
type BlockNumber int64

const (
	EarliestBlockNumber BlockNumber = -3
	LatestBlockNumber   BlockNumber = -2
	PendingBlockNumber  BlockNumber = -1
)

// ParseBlockNumber decodes a block selector from its RPC string form.
func ParseBlockNumber(s string) (BlockNumber, error) {
	switch s {
	case "earliest":
		return EarliestBlockNumber, nil
	case "latest":
		return LatestBlockNumber, nil
	case "pending":
		return PendingBlockNumber, nil
	}
	n, err := hexutil.DecodeUint64(s)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q: %w", s, err)
	}
	return BlockNumber(n), nil
}

// IsNumber reports whether the selector names a concrete block.
func (bn BlockNumber) IsNumber() bool {
	return bn >= 0
}

// Uint64 returns the concrete block number; only valid when IsNumber is true.
func (bn BlockNumber) Uint64() uint64 {
	return uint64(bn)
}

func (bn BlockNumber) String() string {
	switch bn {
	case EarliestBlockNumber:
		return "earliest"
	case LatestBlockNumber:
		return "latest"
	case PendingBlockNumber:
		return "pending"
	}
	return hexutil.Uint64(bn).String()
}
