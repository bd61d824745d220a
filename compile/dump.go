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
	"github.com/kylelemons/godebug/pretty"

	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// dumpNode is the shape pretty.Sprint walks for --dump_ir: a plain,
// reflection-friendly tree with the node's kind/name folded into a single
// label rather than the full schema.Node, whose TypeRef/EnumValue fields
// read noisily under godebug/pretty's default formatting.
type dumpNode struct {
	Label    string
	Children []*dumpNode `pretty:",omitempty"`
}

// DumpIR renders the subtree rooted at id as a pretty-printed tree, for the
// CLI's --dump_ir flag. It walks node kinds and names rather than resolved
// TypeRef targets, so it is safe to call on a tree that failed to resolve.
func DumpIR(store *tree.Store, id tree.ID) string {
	return pretty.Sprint(buildDump(store, id))
}

func buildDump(store *tree.Store, id tree.ID) *dumpNode {
	n := schema.Get(store, id)
	d := &dumpNode{Label: n.Kind.String() + "(" + n.NameOrAnonymous() + ")"}
	for _, childID := range store.Children(id) {
		d.Children = append(d.Children, buildDump(store, childID))
	}
	return d
}