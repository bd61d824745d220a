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

package diag

import (
	"testing"

	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

func TestNodePathOmitsRoot(t *testing.T) {
	store := tree.New()
	root := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	member := schema.CreateChild(store, root, schema.Named("x", schema.Node{Kind: schema.RecStructMember}))
	if got, want := NodePath(store, member), "x"; got != want {
		t.Fatalf("NodePath = %q, want %q", got, want)
	}
}

func TestNodePathNestedJoinsWithDoubleColon(t *testing.T) {
	store := tree.New()
	root := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	vec := schema.CreateChild(store, root, schema.Named("Vector", schema.Node{Kind: schema.RecStruct}))
	member := schema.CreateChild(store, vec, schema.Named("x", schema.Node{Kind: schema.RecStructMember}))
	if got, want := NodePath(store, member), "Vector::x"; got != want {
		t.Fatalf("NodePath = %q, want %q", got, want)
	}
}

func TestNodePathAnonymousRendersAsQuestionMark(t *testing.T) {
	store := tree.New()
	root := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	anon := schema.CreateChild(store, root, schema.Anonymous(schema.Node{Kind: schema.RecTuple}))
	if got, want := NodePath(store, anon), "?"; got != want {
		t.Fatalf("NodePath = %q, want %q", got, want)
	}
}

func TestReporterStringRendersUnresolvedType(t *testing.T) {
	store := tree.New()
	root := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	member := schema.CreateChild(store, root, schema.Named("x", schema.Node{Kind: schema.RecStructMember}))

	r := NewReporter()
	r.Report(&Diagnostic{Kind: UnresolvedType, Path: "nope", Node: member})
	want := `Error: unresolved typename "nope" for x`
	if got := r.String(store); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}

func TestPathIndexDetectsShadowing(t *testing.T) {
	store := tree.New()
	root := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	a := schema.CreateChild(store, root, schema.Named("Dup", schema.Node{Kind: schema.RecStruct}))
	b := schema.CreateChild(store, root, schema.Named("Dup", schema.Node{Kind: schema.RecStruct}))

	idx := NewPathIndex()
	idx.Register(store, a)
	idx.Register(store, b)

	shadowed := idx.Shadowed()
	if len(shadowed) != 1 || shadowed[0] != "Dup" {
		t.Fatalf("Shadowed() = %v, want [\"Dup\"]", shadowed)
	}
	if got := idx.LookupPath("Dup"); len(got) != 2 {
		t.Fatalf("LookupPath(\"Dup\") = %v, want 2 entries", got)
	}
}