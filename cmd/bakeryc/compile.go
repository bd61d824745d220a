// Copyright 2024 The Bakery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bakerylang/bakery/compile"
)

func newCompileCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "compile <recipe-file> <data-file>",
		Short: "Compile a recipe/data file pair to bakery's binary encoding.",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompile,
	}

	c.Flags().StringP("out", "o", "", "Output file for the compiled bytes (default: stdout).")
	c.Flags().Bool("print_errs", true, "Print accumulated diagnostics to stderr on failure.")
	c.Flags().Bool("dump_ir", false, "Pretty-print the resolved recipe tree instead of emitting.")

	return c
}

func runCompile(cmd *cobra.Command, args []string) error {
	recipePath, dataPath := args[0], args[1]
	out := viper.GetString("out")
	printErrs := viper.GetBool("print_errs")
	dumpIR := viper.GetBool("dump_ir")

	return compileFiles(recipePath, dataPath, out, printErrs, dumpIR)
}

// compileFiles is the thin file-I/O host over compile.Compiler: it reads a
// recipe/data file pair, compiles them, and writes the result to outPath
// (or stdout).
func compileFiles(recipePath, dataPath, outPath string, printErrs, dumpIR bool) error {
	rec, err := os.ReadFile(recipePath)
	if err != nil {
		return fmt.Errorf("reading recipe file: %w", err)
	}
	dat, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("reading data file: %w", err)
	}

	if dumpIR {
		return dumpRecipeIR(compile.New(nil), string(rec))
	}

	sink, closeSink, err := openSink(outPath)
	if err != nil {
		return err
	}
	defer closeSink()

	c := compile.New(sink)
	if err := c.Compile(string(rec), string(dat), printErrs); err != nil {
		return err
	}
	return nil
}

// dumpRecipeIR parses and resolves rec against a fresh root+natives (no
// data, no emission) and pretty-prints the resulting tree, for --dump_ir.
// It reuses compile.Compiler.ResolveRecipe rather than reimplementing the
// recipe-attach/resolve sequence.
func dumpRecipeIR(c *compile.Compiler, rec string) error {
	recID, err := c.ResolveRecipe(rec)
	if err != nil {
		return err
	}
	fmt.Println(compile.DumpIR(c.Store(), recID))
	return nil
}

func openSink(outPath string) (*os.File, func(), error) {
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}