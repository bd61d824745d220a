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

// Kind tags the variant a Node's payload holds. bakery models both schema
// ("Rec...") and data ("Dat...") nodes as one tree, the way ygot's
// yang.Entry tags a single struct with a yang.TypeKind rather than using a
// Go sum type.
type Kind int

const (
	// RecInt is a primitive integer type: BitSize in {8,16,32,64}, Signed.
	RecInt Kind = iota
	// RecFloat is an IEEE-754 binary float: FloatSize in {32,64}.
	RecFloat
	// RecList is the generic 1-arg container; its RecGeneric child declares
	// position 0.
	RecList
	// RecMap is the generic 2-arg container; two RecGeneric children declare
	// positions 0 and 1.
	RecMap
	// RecStruct is named or anonymous; children are RecStructMember, nested
	// RecStruct/RecEnum declarations, and RecGeneric parameters.
	RecStruct
	// RecStructMember is named with exactly one child: the member's type.
	RecStructMember
	// RecEnum is an integer-tagged sum; EnumKeyType names the tag's integer
	// type, children are RecEnumItem.
	RecEnum
	// RecEnumItem carries an auto-assigned EnumValue and an optional inline
	// RecTuple/RecStruct payload child.
	RecEnumItem
	// RecTuple's children are RecTupleMember.
	RecTuple
	// RecTupleMember has no children; its type travels in TypeRef.
	RecTupleMember
	// RecTypeInst is a use-site type reference; children are ordered
	// generic-argument RecTypeInst nodes.
	RecTypeInst
	// RecGeneric is a formal type parameter at GenericIndex, named.
	RecGeneric

	// DatInt holds a decimal literal in Repr.
	DatInt
	// DatFloat holds a decimal/scientific/inf/NaN literal in Repr.
	DatFloat
	// DatMap's children are DatMapAssignment.
	DatMap
	// DatMapAssignment has exactly two children: key, value.
	DatMapAssignment
	// DatTuple's children are element value nodes.
	DatTuple
	// DatList's children are element value nodes.
	DatList
	// DatEnum is named (the variant identifier) with zero or one child, an
	// inline DatTuple or DatMap payload.
	DatEnum
)

var kindNames = map[Kind]string{
	RecInt:            "RecInt",
	RecFloat:          "RecFloat",
	RecList:           "RecList",
	RecMap:            "RecMap",
	RecStruct:         "RecStruct",
	RecStructMember:   "RecStructMember",
	RecEnum:           "RecEnum",
	RecEnumItem:       "RecEnumItem",
	RecTuple:          "RecTuple",
	RecTupleMember:    "RecTupleMember",
	RecTypeInst:       "RecTypeInst",
	RecGeneric:        "RecGeneric",
	DatInt:            "DatInt",
	DatFloat:          "DatFloat",
	DatMap:            "DatMap",
	DatMapAssignment:  "DatMapAssignment",
	DatTuple:          "DatTuple",
	DatList:           "DatList",
	DatEnum:           "DatEnum",
}

// String implements fmt.Stringer, used by debug tracing and test failure
// messages.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MayBeGeneric reports whether a RecTypeInst targeting a node of this kind
// must push a generic-substitution frame before emitting it.
func (k Kind) MayBeGeneric() bool {
	switch k {
	case RecStruct, RecList, RecMap:
		return true
	default:
		return false
	}
}