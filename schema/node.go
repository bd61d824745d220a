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

package schema

import (
	"fmt"
	"math/big"

	"github.com/bakerylang/bakery/tree"
)

// Span is a byte-offset range into a shared, immutable source string.
// Builtin nodes (seeded by PopulateNatives) carry no span.
type Span struct {
	Start, End int
}

// TypeRef identifies a schema type, either lexically (a dotted path exactly
// as written in source) or, after the resolver runs, as a resolved node ID:
// a path XOR an ID.
type TypeRef struct {
	Path     string
	ID       tree.ID
	Resolved bool
}

// PathRef builds an unresolved TypeRef from a lexical path.
func PathRef(path string) TypeRef { return TypeRef{Path: path} }

// IDRef builds a resolved TypeRef pointing directly at id, used by the
// callback-style recipe builder and by builtins that never go through
// name resolution.
func IDRef(id tree.ID) TypeRef { return TypeRef{ID: id, Resolved: true} }

// MustID returns the resolved node ID, panicking if the TypeRef was never
// resolved. Called only after a successful Resolve pass.
func (r TypeRef) MustID() tree.ID {
	if !r.Resolved {
		panic("schema: unresolved TypeRef")
	}
	return r.ID
}

// Node is one element of the unified tree. Every variant listed in Kind
// gets its own subset of these fields; which fields are meaningful is
// determined entirely by Kind, the same flat-struct-plus-tag shape
// yang.Entry uses for YANG schema nodes.
type Node struct {
	Kind Kind

	Name    string
	HasName bool

	Span    Span
	HasSpan bool

	// RecInt
	BitSize uint8
	Signed  bool

	// RecFloat
	FloatSize uint8

	// RecEnum
	EnumKeyType TypeRef

	// RecEnumItem
	EnumValue *big.Int

	// RecTupleMember, RecTypeInst
	Type TypeRef

	// RecGeneric
	GenericIndex uint32

	// DatInt, DatFloat
	Repr string
}

// NameOrAnonymous renders the node's name for diagnostics, or "?" for
// anonymous nodes.
func (n *Node) NameOrAnonymous() string {
	if n.HasName {
		return n.Name
	}
	return "?"
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Kind, n.NameOrAnonymous())
}

// Named returns n with its name set, for any node that carries a source
// identifier: parsed struct/enum names, struct members, generic parameters.
func Named(name string, n Node) Node {
	n.Name, n.HasName = name, true
	return n
}

// Builtin returns a named node with no source span, for nodes seeded by
// PopulateNatives rather than parsed from text.
func Builtin(name string, n Node) Node {
	return Named(name, n)
}

// Anonymous returns a nameless, spanless node, for nodes synthesized by the
// parser or builder that never carry an identifier (e.g. a RecTuple).
func Anonymous(n Node) Node {
	return n
}

// WithSpan attaches a source span to n and returns it.
func WithSpan(n Node, span Span) Node {
	n.Span, n.HasSpan = span, true
	return n
}

// Get fetches the Node payload at id from store, panicking if id does not
// hold a *Node — a program bug, never a user-facing failure.
func Get(store *tree.Store, id tree.ID) *Node {
	n, ok := store.Get(id).(*Node)
	if !ok {
		panic(fmt.Sprintf("schema: node %d is not a *Node", id))
	}
	return n
}

// Create allocates a root node holding n and returns its ID.
func Create(store *tree.Store, n Node) tree.ID {
	return store.Create(&n)
}

// CreateChild allocates a node holding n as a child of parent and returns
// its ID.
func CreateChild(store *tree.Store, parent tree.ID, n Node) tree.ID {
	return store.CreateWithParent(parent, true, &n)
}