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
	"fmt"

	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// NodePath renders id as the "::"-joined chain of names from root, root
// itself omitted for readability; anonymous nodes render as "?". The parent
// is only ever walked up to (not through) a node whose own parent is root,
// so the synthetic root struct never appears.
func NodePath(store *tree.Store, id tree.ID) string {
	n := schema.Get(store, id)
	parent, hasParent := store.Parent(id)
	if !hasParent {
		return n.NameOrAnonymous()
	}
	if _, grandparentExists := store.Parent(parent); !grandparentExists {
		return n.NameOrAnonymous()
	}
	return NodePath(store, parent) + "::" + n.NameOrAnonymous()
}

// NodePathWithKind additionally parenthesizes the offending node's kind,
// e.g. "Vector::x (RecStructMember)". Reporter's rendering uses the bare
// NodePath, not this form.
func NodePathWithKind(store *tree.Store, id tree.ID) string {
	n := schema.Get(store, id)
	return fmt.Sprintf("%s (%s)", NodePath(store, id), n.Kind)
}

// PathIndex tracks every resolved node's rendered path, keyed by the
// rendered string, so callers can find every node ID that rendered to a
// given path. Two distinct node IDs can render to the same path when one
// shadows the other across nested scopes; this is purely a diagnostic
// aid — shadowing itself is legal — and the index also powers LookupPath
// for tests that need to find a specific node by its rendered path.
type PathIndex struct {
	byKey map[string][]tree.ID
}

// NewPathIndex returns an empty PathIndex.
func NewPathIndex() *PathIndex {
	return &PathIndex{byKey: make(map[string][]tree.ID)}
}

// Register records id's rendered path in the index.
func (p *PathIndex) Register(store *tree.Store, id tree.ID) {
	path := NodePath(store, id)
	p.byKey[path] = append(p.byKey[path], id)
}

// LookupPath returns every node ID registered under the exact rendered path.
func (p *PathIndex) LookupPath(path string) []tree.ID {
	return p.byKey[path]
}

// Shadowed returns the set of rendered paths that more than one distinct
// node ID registered under.
func (p *PathIndex) Shadowed() []string {
	var out []string
	for key, ids := range p.byKey {
		if len(ids) >= 2 {
			out = append(out, key)
		}
	}
	return out
}