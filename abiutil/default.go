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

package abiutil

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ZeroValue produces the canonical zero value for the given ABI type in its
// Go representation: empty slices, zeroed arrays and structs, and allocated
// big integers where the type maps to *big.Int.
func ZeroValue(t abi.Type) interface{} {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		if t.GetType() == bigIntType {
			return new(big.Int)
		}
		return reflect.Zero(t.GetType()).Interface()
	case abi.BoolTy:
		return false
	case abi.StringTy:
		return ""
	case abi.AddressTy:
		return common.Address{}
	case abi.HashTy:
		return common.Hash{}
	case abi.BytesTy:
		return []byte{}
	case abi.FixedBytesTy, abi.FunctionTy:
		return reflect.Zero(t.GetType()).Interface()
	case abi.SliceTy:
		return reflect.MakeSlice(t.GetType(), 0, 0).Interface()
	case abi.ArrayTy:
		arr := reflect.New(t.GetType()).Elem()
		for i := 0; i < t.Size; i++ {
			arr.Index(i).Set(reflect.ValueOf(ZeroValue(*t.Elem)))
		}
		return arr.Interface()
	case abi.TupleTy:
		tuple := reflect.New(t.GetType()).Elem()
		for i, elem := range t.TupleElems {
			tuple.Field(i).Set(reflect.ValueOf(ZeroValue(*elem)))
		}
		return tuple.Interface()
	default:
		panic(fmt.Sprintf("abiutil: cannot synthesize zero value for abi type %v", t.String()))
	}
}

// ZeroOutput encodes the canonical zero value for every output in args,
// producing the return data of a method nobody configured a result for.
func ZeroOutput(args abi.Arguments) ([]byte, error) {
	vals := make([]interface{}, len(args))
	for i, arg := range args {
		vals[i] = ZeroValue(arg.Type)
	}
	return args.Pack(vals...)
}
