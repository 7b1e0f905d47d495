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

package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/0xsoniclabs/ethmock/abiutil"
	"github.com/0xsoniclabs/ethmock/logger"
)

var abiApp = &cli.App{
	Name:      "ethmock-abi",
	Usage:     "Inspects contract ABI files used with the ethmock node.",
	Copyright: "(c) 2025 Sonic Labs",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
	},
	Commands: []*cli.Command{
		&selectorsCommand,
		&zeroCommand,
	},
}

var selectorsCommand = cli.Command{
	Action:    selectorsAction,
	Name:      "selectors",
	Usage:     "Print signature, 4-byte selector and mutability of every function in an ABI file.",
	ArgsUsage: "<abi.json>",
}

var zeroCommand = cli.Command{
	Action:    zeroAction,
	Name:      "zero",
	Usage:     "Print the canonical zero return encoding of a function, as produced by an unconfigured expectation.",
	ArgsUsage: "<abi.json> <method>",
}

func loadAbi(ctx *cli.Context) (abi.ABI, error) {
	path := ctx.Args().Get(0)
	if path == "" {
		return abi.ABI{}, fmt.Errorf("missing ABI file argument")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("cannot read ABI file: %w", err)
	}

	contractAbi, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("cannot parse ABI file %s: %w", path, err)
	}
	return contractAbi, nil
}

// selectorsAction lists the selector table of an ABI file
func selectorsAction(ctx *cli.Context) error {
	contractAbi, err := loadAbi(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(contractAbi.Methods))
	for name := range contractAbi.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := contractAbi.Methods[name]
		fmt.Printf("0x%x  %s  %s\n", m.ID, m.Sig, m.StateMutability)
	}

	log := logger.NewLogger(ctx.String(logger.LogLevelFlag.Name), "Ethmock-Abi")
	log.Infof("%d functions", len(names))
	return nil
}

// zeroAction prints the default return data of one method
func zeroAction(ctx *cli.Context) error {
	contractAbi, err := loadAbi(ctx)
	if err != nil {
		return err
	}

	name := ctx.Args().Get(1)
	method, ok := contractAbi.Methods[name]
	if !ok {
		return fmt.Errorf("ABI has no method named %q", name)
	}

	output, err := abiutil.ZeroOutput(method.Outputs)
	if err != nil {
		return fmt.Errorf("cannot encode zero output for %s: %w", method.Sig, err)
	}

	fmt.Println(hexutil.Encode(output))
	return nil
}

func main() {
	if err := abiApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
