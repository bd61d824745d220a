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

package emit

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/bakerylang/bakery/diag"
	"github.com/bakerylang/bakery/parse"
	"github.com/bakerylang/bakery/resolve"
	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// newRootWithNatives returns a fresh store seeded with the builtin types
// every recipe scope resolves against.
func newRootWithNatives(t *testing.T) (*tree.Store, tree.ID) {
	t.Helper()
	store := tree.New()
	root := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	schema.PopulateNatives(store, root)
	return store, root
}

// compileAndEmit exercises the emitter end to end: parse recipe as a single
// type expression, attach it under root, resolve the whole tree, parse data
// against the same entry point the recipe's kind implies, then emit.
func compileAndEmit(t *testing.T, recipe, data string) ([]byte, *diag.Reporter, *tree.Store) {
	t.Helper()
	store, root := newRootWithNatives(t)

	recID, err := parse.ParseRecipeString(store, recipe)
	if err != nil {
		t.Fatalf("recipe parse error: %v", err)
	}
	store.Attach(root, recID)

	rep := diag.NewReporter()
	resolve.New(store, rep, nil).Resolve(root)
	if rep.Len() != 0 {
		t.Fatalf("unexpected resolve diagnostics: %s", rep.String(store))
	}

	var dataID tree.ID
	if schema.Get(store, recID).Kind == schema.RecStruct {
		dataID, err = parse.ParseDatMapString(store, data)
	} else {
		dataID, err = parse.ParseDatValueString(store, data)
	}
	if err != nil {
		t.Fatalf("data parse error: %v", err)
	}

	var buf bytes.Buffer
	e := New(store, rep, &buf)
	if werr := e.Write(recID, dataID); werr != nil {
		t.Fatalf("write error: %v", werr)
	}
	return buf.Bytes(), rep, store
}

// wantHex compares got against the hex-encoded want, reporting a unified
// diff of the hex dumps on mismatch rather than two opaque byte slices.
func wantHex(t *testing.T, got []byte, want string) {
	t.Helper()
	w, err := hex.DecodeString(strings.ReplaceAll(want, " ", ""))
	if err != nil {
		t.Fatalf("bad want hex %q: %v", want, err)
	}
	if !bytes.Equal(got, w) {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(hex.EncodeToString(got)),
			B:        difflib.SplitLines(hex.EncodeToString(w)),
			FromFile: "got",
			ToFile:   "want",
			Context:  1,
			Eol:      "\n",
		})
		t.Fatalf("got %x, want %s\n%s", got, want, diff)
	}
}

// A signed 8-bit literal encodes as a single little-endian byte.
func TestEmitSignedInt8(t *testing.T) {
	got, rep, store := compileAndEmit(t, "i8", "42")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}
	wantHex(t, got, "2a")
}

// An unsigned 32-bit literal encodes as four little-endian bytes.
func TestEmitUnsignedInt32(t *testing.T) {
	got, rep, _ := compileAndEmit(t, "u32", "554524088")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	wantHex(t, got, "b85d0d21")
}

// A bool value encodes as its enum tag's single byte.
func TestEmitBool(t *testing.T) {
	got, rep, _ := compileAndEmit(t, "bool", "true")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	wantHex(t, got, "01")
}

// An enum variant with an inline tuple payload encodes its tag followed by
// the payload's own emitted bytes.
func TestEmitEnumWithTuplePayloads(t *testing.T) {
	got, rep, store := compileAndEmit(t, "enum { A(u32), B(bool), C(i32, bool) }", "C(1627069767, false)")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}
	wantHex(t, got, "02000000471dfb6000")
}

// A tuple encodes its members pairwise in declared order.
func TestEmitTuple(t *testing.T) {
	got, rep, store := compileAndEmit(t, "(bool, u32)", "(true, 3017113990)")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}
	wantHex(t, got, "018681d5b3")
}

// A list encodes its element count followed by each element in order.
func TestEmitList(t *testing.T) {
	got, rep, store := compileAndEmit(t, "x: List<u8>", "x: [1,2,3,4]")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}
	wantHex(t, got, "0400000000000000 01020304")
}

// A generic struct instantiated with another generic instantiation as its
// type argument substitutes correctly at each nesting level.
func TestEmitNestedGenericStruct(t *testing.T) {
	rec := "struct{ struct Vector<T>{x:T,y:T}, v:Vector<Vector<u32>> }"
	data := "v:{x:{x:1,y:2},y:{x:3,y:4}}"
	got, rep, store := compileAndEmit(t, rec, data)
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}
	wantHex(t, got, "01000000020000000300000004000000")
}

// A decimal literal with a fractional part encodes as an IEEE-754 float32.
func TestEmitFloat32(t *testing.T) {
	got, rep, _ := compileAndEmit(t, "f32", "3.141592653589793")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	wantHex(t, got, "db0f4940")
}

// The "NaN" literal encodes as a float32 bit pattern with the exponent
// field all set and a nonzero mantissa.
func TestEmitFloat32NaN(t *testing.T) {
	got, rep, _ := compileAndEmit(t, "f32", "NaN")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	if len(got) != 4 {
		t.Fatalf("got %d bytes, want 4", len(got))
	}
	bits := binary.LittleEndian.Uint32(got)
	if bits&0x7f800000 != 0x7f800000 {
		t.Fatalf("bits %#08x does not have exponent field all set", bits)
	}
	if bits&0x007fffff == 0 {
		t.Fatalf("bits %#08x has zero mantissa, want a NaN payload", bits)
	}
}

// A missing struct member reports UndefinedValue; a duplicate member
// reports RedefinedValue.
func TestEmitMissingAndDuplicateMember(t *testing.T) {
	_, rep, _ := compileAndEmit(t, "struct{x:i32,y:i32}", "x:1")
	if rep.Len() != 1 || rep.Diagnostics()[0].Kind != diag.UndefinedValue {
		t.Fatalf("expected one UndefinedValue diagnostic, got: %v", rep.Diagnostics())
	}

	_, rep2, _ := compileAndEmit(t, "struct{x:i32,y:i32}", "x:1,x:2")
	found := false
	for _, d := range rep2.Diagnostics() {
		if d.Kind == diag.RedefinedValue {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a RedefinedValue diagnostic, got: %v", rep2.Diagnostics())
	}
}

// Determinism: encoding the same struct value twice yields identical bytes.
func TestEmitDeterministicStructEncoding(t *testing.T) {
	got1, rep1, store1 := compileAndEmit(t, "struct{x:i32,y:i32}", "x:1,y:2")
	if rep1.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep1.String(store1))
	}
	got2, rep2, store2 := compileAndEmit(t, "struct{x:i32,y:i32}", "x:1,y:2")
	if rep2.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep2.String(store2))
	}
	if !bytes.Equal(got1, got2) {
		t.Fatalf("got %x and %x, want identical encodings", got1, got2)
	}
}

// Integer bounds: an i8 value outside [-128,127] reports ValueOutOfBounds
// rather than silently truncating or panicking.
func TestEmitIntegerOutOfBounds(t *testing.T) {
	_, rep, _ := compileAndEmit(t, "i8", "128")
	if rep.Len() != 1 || rep.Diagnostics()[0].Kind != diag.ValueOutOfBounds {
		t.Fatalf("expected ValueOutOfBounds, got: %v", rep.Diagnostics())
	}
}

// A negative signed value's final byte has its high bit set.
func TestEmitNegativeIntegerHighBitSet(t *testing.T) {
	got, rep, _ := compileAndEmit(t, "i8", "-1")
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	wantHex(t, got, "ff")
}

func TestEmitTupleSizeMismatch(t *testing.T) {
	_, rep, _ := compileAndEmit(t, "(bool, u32)", "(true)")
	if rep.Len() != 1 || rep.Diagnostics()[0].Kind != diag.TupleSizeMismatch {
		t.Fatalf("expected one TupleSizeMismatch diagnostic, got: %v", rep.Diagnostics())
	}
}