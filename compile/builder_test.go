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

package compile

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/bakerylang/bakery/diag"
	"github.com/bakerylang/bakery/emit"
	"github.com/bakerylang/bakery/parse"
	"github.com/bakerylang/bakery/resolve"
	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// TestBuilderConstructsStructEquivalentToText builds "struct{x:i32,y:i32}"
// via the callback-style builder instead of text and checks it emits the
// same bytes as the text-parsed equivalent.
func TestBuilderConstructsStructEquivalentToText(t *testing.T) {
	store := tree.New()
	root := CreateRootStruct(store)
	schema.PopulateNatives(store, root)

	i32ID, ok := findNative(store, root, "i32")
	if !ok {
		t.Fatal("native i32 not found")
	}

	structID := CreateStruct(store, root, true, "Point")
	CreateStructMember(store, structID, "x", CreateTupleMemberType(store, i32ID))
	CreateStructMember(store, structID, "y", CreateTupleMemberType(store, i32ID))

	rep := diag.NewReporter()
	resolve.New(store, rep, nil).Resolve(root)
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}

	dataID, err := parse.ParseDatMapString(store, "x:1,y:2")
	if err != nil {
		t.Fatalf("data parse error: %v", err)
	}

	var buf bytes.Buffer
	e := emit.New(store, rep, &buf)
	if werr := e.Write(structID, dataID); werr != nil {
		t.Fatalf("write error: %v", werr)
	}
	if rep.Len() != 0 {
		t.Fatalf("unexpected emit diagnostics: %s", rep.String(store))
	}
	if got, want := buf.Bytes(), []byte{1, 0, 0, 0, 2, 0, 0, 0}; !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestBuilderTupleAndEnum(t *testing.T) {
	store := tree.New()
	root := CreateRootStruct(store)
	schema.PopulateNatives(store, root)

	u8ID, _ := findNative(store, root, "u8")

	enumID := CreateEnum(store, root, true, "Color", u8ID)
	CreateEnumMember(store, enumID, "Red", big.NewInt(0))
	CreateEnumMember(store, enumID, "Green", big.NewInt(1))

	tupleID := CreateTuple(store, root, true)
	CreateTupleMember(store, tupleID, enumID)
	CreateTupleMember(store, tupleID, u8ID)

	rep := diag.NewReporter()
	resolve.New(store, rep, nil).Resolve(root)
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", rep.String(store))
	}

	dataID, err := parse.ParseDatValueString(store, "(Green, 9)")
	if err != nil {
		t.Fatalf("data parse error: %v", err)
	}

	var buf bytes.Buffer
	e := emit.New(store, rep, &buf)
	if werr := e.Write(tupleID, dataID); werr != nil {
		t.Fatalf("write error: %v", werr)
	}
	if rep.Len() != 0 {
		t.Fatalf("unexpected emit diagnostics: %s", rep.String(store))
	}
	if got, want := buf.Bytes(), []byte{1, 9}; !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// findNative looks up a PopulateNatives-seeded type by name directly under
// root, avoiding a dependency on the resolver in builder-only tests.
func findNative(store *tree.Store, root tree.ID, name string) (tree.ID, bool) {
	for _, child := range store.Children(root) {
		n := schema.Get(store, child)
		if n.HasName && n.Name == name {
			return child, true
		}
	}
	return 0, false
}

// CreateTupleMemberType is a tiny local helper turning an already-resolved
// type ID into a RecTypeInst wrapper: the text parser always produces
// RecTypeInst nodes for struct-member types even though the callback
// builder's CreateStructMember takes a bare type node directly; used here
// only to keep this test's struct member types shaped exactly like the
// text-parsed case for a fair byte-for-byte comparison.
func CreateTupleMemberType(store *tree.Store, targetID tree.ID) tree.ID {
	return schema.Create(store, schema.Anonymous(schema.Node{
		Kind: schema.RecTypeInst, Type: schema.IDRef(targetID),
	}))
}