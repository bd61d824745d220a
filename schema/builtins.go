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
	"math/big"

	"github.com/bakerylang/bakery/tree"
)

type intSpec struct {
	name    string
	bitSize uint8
	signed  bool
}

// nativeInts is the native type table: the eight sized integer types every
// recipe scope can see without an import.
var nativeInts = []intSpec{
	{"i8", 8, true}, {"u8", 8, false},
	{"i16", 16, true}, {"u16", 16, false},
	{"i32", 32, true}, {"u32", 32, false},
	{"i64", 64, true}, {"u64", 64, false},
}

// PopulateNatives seeds root with the builtin types every recipe scope
// resolves against: the eight sized integers, f32/f64, bool (expressed as a
// u8-keyed RecEnum), and the generic List/Map containers. It is the single
// entry point a fresh compile calls after creating its root struct.
func PopulateNatives(store *tree.Store, root tree.ID) {
	for _, spec := range nativeInts {
		CreateChild(store, root, Builtin(spec.name, Node{
			Kind: RecInt, BitSize: spec.bitSize, Signed: spec.signed,
		}))
	}
	CreateChild(store, root, Builtin("f32", Node{Kind: RecFloat, FloatSize: 32}))
	CreateChild(store, root, Builtin("f64", Node{Kind: RecFloat, FloatSize: 64}))

	u8 := Create(store, Builtin("u8", Node{Kind: RecInt, BitSize: 8, Signed: false}))
	boolNode := CreateChild(store, root, Builtin("bool", Node{
		Kind: RecEnum, EnumKeyType: IDRef(u8),
	}))
	CreateChild(store, boolNode, Builtin("false", Node{Kind: RecEnumItem, EnumValue: big.NewInt(0)}))
	CreateChild(store, boolNode, Builtin("true", Node{Kind: RecEnumItem, EnumValue: big.NewInt(1)}))

	createGenericContainer(store, root, "List", RecList, 1)
	createGenericContainer(store, root, "Map", RecMap, 2)
}

// createGenericContainer seeds a generic container type (List or Map) with
// n formal RecGeneric parameters.
func createGenericContainer(store *tree.Store, root tree.ID, name string, kind Kind, n uint32) tree.ID {
	id := CreateChild(store, root, Builtin(name, Node{Kind: kind}))
	for i := uint32(0); i < n; i++ {
		CreateChild(store, id, Anonymous(Node{Kind: RecGeneric, GenericIndex: i}))
	}
	return id
}

// NumGenericParams returns the count of RecGeneric children a RecStruct,
// RecList or RecMap node declares; any other kind has none. Used by the
// resolver to validate instantiation arity.
func NumGenericParams(store *tree.Store, id tree.ID) int {
	n := Get(store, id)
	switch n.Kind {
	case RecStruct, RecList, RecMap:
	default:
		return 0
	}
	count := 0
	for _, child := range store.Children(id) {
		if Get(store, child).Kind == RecGeneric {
			count++
		}
	}
	return count
}