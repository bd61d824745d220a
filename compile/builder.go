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
	"math/big"

	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// CreateRootStruct allocates a fresh, anonymous, parentless RecStruct node —
// the root every compile starts from.
func CreateRootStruct(store *tree.Store) tree.ID {
	return schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
}

// CreateStruct builds a named RecStruct node, optionally attached under
// parent, for the callback-style recipe builder. Pass hasParent=false to
// build a detached node a caller attaches later.
func CreateStruct(store *tree.Store, parent tree.ID, hasParent bool, name string) tree.ID {
	n := schema.Named(name, schema.Node{Kind: schema.RecStruct})
	return store.CreateWithParent(parent, hasParent, &n)
}

// CreateStructMember builds a RecStructMember named name under parent, whose
// single child is typeID (an already-built recipe type node).
func CreateStructMember(store *tree.Store, parent tree.ID, name string, typeID tree.ID) tree.ID {
	id := schema.CreateChild(store, parent, schema.Named(name, schema.Node{Kind: schema.RecStructMember}))
	store.Attach(id, typeID)
	return id
}

// CreateEnum builds a named RecEnum node keyed by the already-resolved
// keyTypeID, optionally attached under parent. Unlike the text grammar
// (which always defaults the key type to the lexical path "i32"), the
// callback builder takes a caller-resolved key type directly.
func CreateEnum(store *tree.Store, parent tree.ID, hasParent bool, name string, keyTypeID tree.ID) tree.ID {
	n := schema.Named(name, schema.Node{Kind: schema.RecEnum, EnumKeyType: schema.IDRef(keyTypeID)})
	return store.CreateWithParent(parent, hasParent, &n)
}

// CreateEnumMember builds a RecEnumItem under parent holding the given tag
// value. A resolve pass over the enum reassigns every item's tag by
// position (0, 1, 2, ...), replacing this value.
func CreateEnumMember(store *tree.Store, parent tree.ID, name string, value *big.Int) tree.ID {
	return schema.CreateChild(store, parent, schema.Named(name, schema.Node{
		Kind: schema.RecEnumItem, EnumValue: value,
	}))
}

// CreateTuple builds an anonymous RecTuple node, optionally attached under
// parent.
func CreateTuple(store *tree.Store, parent tree.ID, hasParent bool) tree.ID {
	n := schema.Anonymous(schema.Node{Kind: schema.RecTuple})
	return store.CreateWithParent(parent, hasParent, &n)
}

// CreateTupleMember builds a RecTupleMember under parent, referencing the
// already-resolved type ty directly (never a lexical path, unlike the text
// grammar's rec_tuple members).
func CreateTupleMember(store *tree.Store, parent tree.ID, ty tree.ID) tree.ID {
	return schema.CreateChild(store, parent, schema.Anonymous(schema.Node{
		Kind: schema.RecTupleMember, Type: schema.IDRef(ty),
	}))
}