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

// Package resolve implements bakery's type resolver: a depth-first
// post-order walk that rewrites every schema.TypeRef from a lexical path to
// a resolved tree.ID, and assigns RecEnumItem tag values.
package resolve

import (
	"math/big"

	"github.com/golang/glog"
	"golang.org/x/exp/slices"

	"github.com/bakerylang/bakery/diag"
	"github.com/bakerylang/bakery/internal/bignum"
	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// Resolver walks a schema.Node tree resolving TypeRefs and enum tag values,
// reporting failures through r. It carries no state beyond the store,
// reporter and optional path index it was constructed with — one Resolver
// per tree walk.
type Resolver struct {
	store *tree.Store
	rep   *diag.Reporter
	paths *diag.PathIndex
}

// New returns a Resolver that reports failures to rep and records every
// node it visits into paths (nil disables path indexing).
func New(store *tree.Store, rep *diag.Reporter, paths *diag.PathIndex) *Resolver {
	return &Resolver{store: store, rep: rep, paths: paths}
}

// Resolve performs the full depth-first post-order resolution pass starting
// at id. Call once per compile, on the compilation root.
func (rv *Resolver) Resolve(id tree.ID) {
	glog.V(2).Infof("resolve: visiting %s", diag.NodePath(rv.store, id))
	if rv.paths != nil {
		rv.paths.Register(rv.store, id)
	}
	n := schema.Get(rv.store, id)
	switch n.Kind {
	case schema.RecInt, schema.RecFloat, schema.RecList, schema.RecMap, schema.RecGeneric:
		// Primitives and generic templates: nothing to resolve.
	case schema.RecStruct, schema.RecTuple, schema.RecStructMember:
		for _, child := range rv.store.Children(id) {
			rv.Resolve(child)
		}
	case schema.RecTupleMember:
		n.Type = rv.resolveTypeRef(n.Type, id)
	case schema.RecEnum:
		rv.resolveEnum(id, n)
	case schema.RecTypeInst:
		rv.resolveTypeInst(id, n)
	default:
		// Dat* nodes and RecEnumItem (visited directly by resolveEnum, never
		// through the generic dispatch) never reach here during a schema walk.
	}
}

// resolveTypeRef resolves ref if it is still a lexical path, reporting
// UnresolvedType against ctx (the node whose field ref came from) on
// failure.
func (rv *Resolver) resolveTypeRef(ref schema.TypeRef, ctx tree.ID) schema.TypeRef {
	if ref.Resolved {
		return ref
	}
	id, ok := rv.resolveTypename(ctx, ref.Path)
	if !ok {
		rv.rep.Report(&diag.Diagnostic{Kind: diag.UnresolvedType, Path: ref.Path, Node: ctx})
		return ref
	}
	return schema.IDRef(id)
}

// resolveTypename performs a lexical-scope walk rooted at scope, searching
// up through parents for a name equal to typename. Composite dotted paths
// are matched as a single opaque string, never dereferenced piecewise.
func (rv *Resolver) resolveTypename(scope tree.ID, typename string) (tree.ID, bool) {
	n := schema.Get(rv.store, scope)
	switch n.Kind {
	case schema.RecStructMember, schema.RecTupleMember:
		parent, ok := rv.store.Parent(scope)
		if !ok {
			return 0, false
		}
		return rv.resolveTypename(parent, typename)
	case schema.RecStruct:
		if idx := slices.IndexFunc(rv.store.Children(scope), func(child tree.ID) bool {
			cn := schema.Get(rv.store, child)
			return cn.HasName && cn.Name == typename
		}); idx >= 0 {
			return rv.store.Children(scope)[idx], true
		}
		parent, ok := rv.store.Parent(scope)
		if !ok {
			return 0, false
		}
		return rv.resolveTypename(parent, typename)
	case schema.RecTuple, schema.RecTypeInst, schema.RecEnumItem:
		parent, ok := rv.store.Parent(scope)
		if !ok {
			return 0, false
		}
		return rv.resolveTypename(parent, typename)
	case schema.RecEnum:
		parent, ok := rv.store.Parent(scope)
		if !ok {
			return 0, false
		}
		return rv.resolveTypename(parent, typename)
	case schema.RecInt, schema.RecFloat, schema.RecList, schema.RecMap, schema.RecGeneric:
		return 0, false
	default:
		return 0, false
	}
}

// resolveEnum resolves a RecEnum's key type and, once it resolves to a
// RecInt, assigns each item's tag value in declaration order:
// auto-increment starting at 0, continuing past an out-of-bounds item
// (EnumValueOutOfBounds is reported but does not halt the walk), recursing
// into each item's optional inline payload.
func (rv *Resolver) resolveEnum(id tree.ID, n *schema.Node) {
	n.EnumKeyType = rv.resolveTypeRef(n.EnumKeyType, id)
	if !n.EnumKeyType.Resolved {
		return
	}
	keyNode := schema.Get(rv.store, n.EnumKeyType.ID)
	if keyNode.Kind != schema.RecInt {
		rv.rep.Report(&diag.Diagnostic{Kind: diag.EnumTypeIsNotInt, Node: n.EnumKeyType.ID})
		return
	}
	min, max := bignum.Bounds(keyNode.BitSize, keyNode.Signed)
	next := big.NewInt(0)
	for _, itemID := range rv.store.Children(id) {
		item := schema.Get(rv.store, itemID)
		if bignum.InRange(next, min, max) {
			item.EnumValue = new(big.Int).Set(next)
		} else {
			rv.rep.Report(&diag.Diagnostic{Kind: diag.EnumValueOutOfBounds, Node: itemID})
		}
		next = new(big.Int).Add(next, big.NewInt(1))
		if payload, ok := rv.store.UniqueChildOrNone(itemID); ok {
			rv.Resolve(payload)
		}
	}
}

// resolveTypeInst resolves a RecTypeInst's target, recurses into its
// generic-argument children, and once the target resolves, validates
// instantiation arity against the target's declared RecGeneric count.
func (rv *Resolver) resolveTypeInst(id tree.ID, n *schema.Node) {
	n.Type = rv.resolveTypeRef(n.Type, id)
	children := rv.store.Children(id)
	for _, child := range children {
		rv.Resolve(child)
	}
	if !n.Type.Resolved {
		return
	}
	expected := schema.NumGenericParams(rv.store, n.Type.ID)
	current := len(children)
	if current != expected {
		rv.rep.Report(&diag.Diagnostic{
			Kind: diag.GenericArgCountMismatch, Node: id, Expected: expected, Current: current,
		})
	}
}