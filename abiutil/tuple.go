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

// Package abiutil supplements go-ethereum's ABI package with the tuple
// conversions the expectation engine needs: turning unpacked parameter
// values into statically typed tuples, packing typed results back into
// return data, and synthesizing canonical zero values for output types.
package abiutil

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ConvertTuple converts values unpacked by args.Unpack into the typed tuple
// P. For a single parameter P is the parameter's own Go type; for several
// parameters P is a struct whose fields match the parameter names. A
// conversion failure means the expectation was registered with types that do
// not fit the method's ABI.
func ConvertTuple[P any](args abi.Arguments, values []interface{}) (P, error) {
	var params P
	if len(args.NonIndexed()) == 0 {
		return params, nil
	}
	if err := args.Copy(&params, values); err != nil {
		return params, err
	}
	return params, nil
}

// PackOutput ABI-encodes v as the output tuple described by args. A single
// output is packed directly; several outputs require v to be a struct whose
// fields are packed in declaration order, matched by name where the ABI
// names its outputs.
func PackOutput(args abi.Arguments, v interface{}) ([]byte, error) {
	switch len(args) {
	case 0:
		return []byte{}, nil
	case 1:
		return args.Pack(v)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("abiutil: cannot pack %T as a tuple of %d outputs", v, len(args))
	}

	vals := make([]interface{}, 0, len(args))
	for i, arg := range args {
		var field reflect.Value
		if arg.Name != "" {
			field = rv.FieldByName(abi.ToCamelCase(arg.Name))
		}
		if !field.IsValid() {
			if i >= rv.NumField() {
				return nil, fmt.Errorf("abiutil: %T has no field for output %d", v, i)
			}
			field = rv.Field(i)
		}
		if !field.CanInterface() {
			return nil, fmt.Errorf("abiutil: cannot pack %T as a tuple of %d outputs", v, len(args))
		}
		vals = append(vals, field.Interface())
	}
	return args.Pack(vals...)
}
