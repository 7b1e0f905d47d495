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

package rpc

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallRequest mirrors the request object of eth_call, eth_estimateGas and
// eth_sendTransaction. Absent optional fields stay nil.
type CallRequest struct {
	From     *common.Address
	To       *common.Address
	Gas      *uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
}

// Parser consumes the positional parameters of a single RPC request one by
// one. The mock node has no use for recoverable parameter errors: a request
// with a wrong number or shape of arguments means the test itself is broken,
// so every mismatch panics with a message naming the method.
type Parser struct {
	method string
	params []interface{}
	next   int
}

// NewParser creates a parser over the positional parameters of the given
// RPC method.
func NewParser(method string, params []interface{}) *Parser {
	return &Parser{method: method, params: params}
}

func (p *Parser) take() interface{} {
	if p.next >= len(p.params) {
		panic(fmt.Sprintf("%s: missing argument %d", p.method, p.next+1))
	}
	arg := p.params[p.next]
	p.next++
	return arg
}

func (p *Parser) str() string {
	arg := p.take()
	s, ok := arg.(string)
	if !ok {
		panic(fmt.Sprintf("%s: argument %d is not a string", p.method, p.next))
	}
	return s
}

// Address consumes the next argument as a hex-encoded address.
func (p *Parser) Address() common.Address {
	s := p.str()
	if !common.IsHexAddress(s) {
		panic(fmt.Sprintf("%s: argument %d is not a valid address", p.method, p.next))
	}
	return common.HexToAddress(s)
}

// Hash consumes the next argument as a 32-byte hex-encoded hash.
func (p *Parser) Hash() common.Hash {
	s := p.str()
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		panic(fmt.Sprintf("%s: argument %d is not a valid hash", p.method, p.next))
	}
	return common.BytesToHash(b)
}

// Bytes consumes the next argument as a hex-encoded byte string.
func (p *Parser) Bytes() []byte {
	s := p.str()
	b, err := hexutil.Decode(s)
	if err != nil {
		panic(fmt.Sprintf("%s: argument %d is not valid hex data: %v", p.method, p.next, err))
	}
	return b
}

// CallRequest consumes the next argument as a call request object.
func (p *Parser) CallRequest() CallRequest {
	arg := p.take()
	fields, ok := arg.(map[string]interface{})
	if !ok {
		panic(fmt.Sprintf("%s: argument %d is not a call request object", p.method, p.next))
	}

	var request CallRequest
	if s, ok := p.field(fields, "from"); ok {
		addr := p.address(s, "from")
		request.From = &addr
	}
	if s, ok := p.field(fields, "to"); ok {
		addr := p.address(s, "to")
		request.To = &addr
	}
	if s, ok := p.field(fields, "gas"); ok {
		gas := p.quantity64(s, "gas")
		request.Gas = &gas
	}
	if s, ok := p.field(fields, "gasPrice"); ok {
		request.GasPrice = p.quantity(s, "gasPrice")
	}
	if s, ok := p.field(fields, "value"); ok {
		request.Value = p.quantity(s, "value")
	}
	if s, ok := p.field(fields, "data"); ok {
		data, err := hexutil.Decode(s)
		if err != nil {
			panic(fmt.Sprintf("%s: 'data' field is not valid hex data: %v", p.method, err))
		}
		request.Data = data
	}
	return request
}

func (p *Parser) field(fields map[string]interface{}, name string) (string, bool) {
	v, ok := fields[name]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		panic(fmt.Sprintf("%s: %q field is not a string", p.method, name))
	}
	return s, true
}

func (p *Parser) address(s, name string) common.Address {
	if !common.IsHexAddress(s) {
		panic(fmt.Sprintf("%s: %q field is not a valid address", p.method, name))
	}
	return common.HexToAddress(s)
}

func (p *Parser) quantity(s, name string) *big.Int {
	v, err := hexutil.DecodeBig(s)
	if err != nil {
		panic(fmt.Sprintf("%s: %q field is not a valid quantity: %v", p.method, name, err))
	}
	return v
}

func (p *Parser) quantity64(s, name string) uint64 {
	v, err := hexutil.DecodeUint64(s)
	if err != nil {
		panic(fmt.Sprintf("%s: %q field is not a valid quantity: %v", p.method, name, err))
	}
	return v
}

// BlockNumberOpt consumes the optional trailing block selector. Returns nil
// when the argument is not present.
func (p *Parser) BlockNumberOpt() *BlockNumber {
	if p.next >= len(p.params) {
		return nil
	}
	s := p.str()
	bn, err := ParseBlockNumber(s)
	if err != nil {
		panic(fmt.Sprintf("%s: argument %d is not a valid block number: %v", p.method, p.next, err))
	}
	return &bn
}

// Done asserts that every argument has been consumed.
func (p *Parser) Done() {
	if p.next < len(p.params) {
		panic(fmt.Sprintf("%s: unexpected argument %d", p.method, p.next+1))
	}
}
