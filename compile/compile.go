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

// Package compile wires the recipe/data grammar (parse), the type resolver
// (resolve) and the binary emitter (emit) into the single top-level
// operation a host calls: compile.
package compile

import (
	"io"

	"github.com/golang/glog"

	"github.com/bakerylang/bakery/diag"
	"github.com/bakerylang/bakery/emit"
	"github.com/bakerylang/bakery/parse"
	"github.com/bakerylang/bakery/resolve"
	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// Compiler owns one tree and one output sink; the diagnostics accumulated by
// a Compile call are returned as its error. A Compiler is not safe for
// concurrent use:
// callers needing to compile concurrently should use one Compiler per
// goroutine.
type Compiler struct {
	store *tree.Store
	sink  io.Writer

	Paths *diag.PathIndex // populated during Resolve, nil until the first Compile or ResolveRecipe call
}

// New returns a Compiler writing compiled output to sink.
func New(sink io.Writer) *Compiler {
	return &Compiler{store: tree.New(), sink: sink}
}

// Store exposes the underlying tree.Store, for hosts using the
// callback-style recipe builder ahead of calling Compile, or for --dump_ir
// style introspection after one.
func (c *Compiler) Store() *tree.Store { return c.store }

// Compile parses rec and dat, resolves the recipe tree, and emits dat's
// binary encoding to the Compiler's sink. Returns a non-nil *diag.Reporter
// error if any diagnostic was accumulated during the compile; printErrs
// additionally logs every diagnostic via glog before returning.
func (c *Compiler) Compile(rec, dat string, printErrs bool) error {
	c.store.Clear()
	root := CreateRootStruct(c.store)
	schema.PopulateNatives(c.store, root)

	rep := diag.NewReporter()
	c.Paths = diag.NewPathIndex()

	recID, err := parse.ParseRecipeString(c.store, rec)
	if err != nil {
		rep.Report(parseErrDiagnostic(err, rec, true))
	} else {
		c.store.Attach(root, recID)
		resolve.New(c.store, rep, c.Paths).Resolve(root)

		// A failed resolve pass may leave dangling TypeRefs; the tree is not
		// safe to emit from in that case.
		if rep.Len() == 0 {
			var dataID tree.ID
			if schema.Get(c.store, recID).Kind == schema.RecStruct {
				dataID, err = parse.ParseDatMapString(c.store, dat)
			} else {
				dataID, err = parse.ParseDatValueString(c.store, dat)
			}
			if err != nil {
				rep.Report(parseErrDiagnostic(err, dat, false))
			} else {
				e := emit.New(c.store, rep, c.sink)
				// e.Write already reports diag.IOError on sink failure; its
				// returned error only signals the caller the write aborted.
				_ = e.Write(recID, dataID)
			}
		}
	}

	if printErrs {
		rep.Print(c.store)
	}
	if rep.Len() > 0 {
		return rep
	}
	return nil
}

// ResolveRecipe parses and resolves rec against a freshly cleared store
// (root + natives), without parsing or emitting any data. It powers
// introspection hosts like cmd/bakeryc's --dump_ir that want the resolved
// tree without supplying a data document.
func (c *Compiler) ResolveRecipe(rec string) (tree.ID, error) {
	c.store.Clear()
	root := CreateRootStruct(c.store)
	schema.PopulateNatives(c.store, root)

	rep := diag.NewReporter()
	c.Paths = diag.NewPathIndex()

	recID, err := parse.ParseRecipeString(c.store, rec)
	if err != nil {
		rep.Report(parseErrDiagnostic(err, rec, true))
		return 0, rep
	}
	c.store.Attach(root, recID)
	resolve.New(c.store, rep, c.Paths).Resolve(root)
	if rep.Len() > 0 {
		return recID, rep
	}
	return recID, nil
}

// parseErrDiagnostic converts a *parse.ParseError into the equivalent
// diag.Diagnostic, attaching src so IncompleteRecParse can render a
// line/column position.
func parseErrDiagnostic(err error, src string, isRec bool) *diag.Diagnostic {
	perr, ok := err.(*parse.ParseError)
	if !ok {
		glog.Errorf("compile: unexpected parse error type %T", err)
		return &diag.Diagnostic{Kind: diag.IncompleteDatParse}
	}
	if isRec {
		return &diag.Diagnostic{Kind: diag.IncompleteRecParse, Offset: perr.Offset, Src: src}
	}
	return &diag.Diagnostic{Kind: diag.IncompleteDatParse}
}