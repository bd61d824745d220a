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

// Package diag implements bakery's structured diagnostics: one Diagnostic
// per accumulated compile-time error, carrying the node IDs needed to
// render it, plus node-path rendering and a path-collision index.
package diag

import (
	"fmt"

	"github.com/bakerylang/bakery/tree"
)

// Kind discriminates the diagnostic variants a compile can accumulate.
type Kind int

const (
	IncompleteRecParse Kind = iota
	IncompleteDatParse
	UnresolvedType
	EnumTypeIsNotInt
	EnumValueOutOfBounds
	GenericArgCountMismatch
	DataNotStruct
	ExpectedDatStruct
	ExpectedDatInt
	ExpectedDatFloat
	ExpectedDatIdentifier
	UndefinedValue
	RedefinedValue
	TupleSizeMismatch
	EnumUndefinedName
	EnumUndefinedData
	ValueOutOfBounds
	IOError
)

var kindNames = map[Kind]string{
	IncompleteRecParse:      "IncompleteRecParse",
	IncompleteDatParse:      "IncompleteDatParse",
	UnresolvedType:          "UnresolvedType",
	EnumTypeIsNotInt:        "EnumTypeIsNotInt",
	EnumValueOutOfBounds:    "EnumValueOutOfBounds",
	GenericArgCountMismatch: "GenericArgCountMismatch",
	DataNotStruct:           "DataNotStruct",
	ExpectedDatStruct:       "ExpectedDatStruct",
	ExpectedDatInt:          "ExpectedDatInt",
	ExpectedDatFloat:        "ExpectedDatFloat",
	ExpectedDatIdentifier:   "ExpectedDatIdentifier",
	UndefinedValue:          "UndefinedValue",
	RedefinedValue:          "RedefinedValue",
	TupleSizeMismatch:       "TupleSizeMismatch",
	EnumUndefinedName:       "EnumUndefinedName",
	EnumUndefinedData:       "EnumUndefinedData",
	ValueOutOfBounds:        "ValueOutOfBounds",
	IOError:                 "IOError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownDiagnostic"
}

// Diagnostic is one accumulated compile-time error. Which fields are
// meaningful depends on Kind — a flattened per-variant payload, the same
// tagged-struct shape schema.Node uses for nodes.
type Diagnostic struct {
	Kind Kind

	// Node-bearing kinds; not every kind uses every field.
	Node      tree.ID
	HasNode   bool
	OtherNode tree.ID
	HasOther  bool

	Path     string // UnresolvedType's symbolic path
	Offset   int    // IncompleteRecParse's byte offset
	Expected int    // GenericArgCountMismatch
	Current  int

	Err error // IOError's wrapped cause

	// Src, when non-empty, is the full source text IncompleteRecParse's
	// Offset was computed against, supplementing the raw offset with a
	// line/column position. IncompleteDatParse carries neither.
	Src string
}

// LineCol converts d.Offset into a 1-indexed (line, column) position within
// d.Src. Both are 1 if Src is empty.
func (d *Diagnostic) LineCol() (line, col int) {
	line, col = 1, 1
	limit := d.Offset
	if limit > len(d.Src) {
		limit = len(d.Src)
	}
	for _, r := range d.Src[:limit] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// render produces the human-readable message for d, using path to resolve
// node IDs to their rendered form.
func (d *Diagnostic) render(path func(tree.ID) string) string {
	switch d.Kind {
	case IncompleteRecParse:
		if d.Src != "" {
			line, col := d.LineCol()
			return fmt.Sprintf("incomplete recipe parse, parsed %d characters (line %d, column %d)", d.Offset, line, col)
		}
		return fmt.Sprintf("incomplete recipe parse, parsed %d characters", d.Offset)
	case IncompleteDatParse:
		return "incomplete data parse"
	case UnresolvedType:
		return fmt.Sprintf("unresolved typename %q for %s", d.Path, path(d.Node))
	case EnumTypeIsNotInt:
		return fmt.Sprintf("enumeration type %s is not an integer", path(d.Node))
	case EnumValueOutOfBounds:
		return fmt.Sprintf("enumeration value %s out of bounds", path(d.Node))
	case GenericArgCountMismatch:
		return fmt.Sprintf("invalid generic type argument count for %s, expected %d, got %d", path(d.Node), d.Expected, d.Current)
	case DataNotStruct:
		return fmt.Sprintf("data %s must be a structure", path(d.Node))
	case ExpectedDatStruct:
		return fmt.Sprintf("expected structure for %s", path(d.Node))
	case ExpectedDatInt:
		return fmt.Sprintf("expected integer for %s", path(d.Node))
	case ExpectedDatFloat:
		return fmt.Sprintf("expected float for %s", path(d.Node))
	case ExpectedDatIdentifier:
		return fmt.Sprintf("expected identifier for structure assignment at %s", path(d.Node))
	case UndefinedValue:
		return fmt.Sprintf("%s is undefined", path(d.Node))
	case RedefinedValue:
		return fmt.Sprintf("%s already defined", path(d.Node))
	case TupleSizeMismatch:
		return fmt.Sprintf("incorrect number of elements in %s for tuple %s", path(d.Node), path(d.OtherNode))
	case EnumUndefinedName:
		return fmt.Sprintf("invalid name in %s for enumeration %s", path(d.OtherNode), path(d.Node))
	case EnumUndefinedData:
		return fmt.Sprintf("enumeration data not defined for %s", path(d.Node))
	case ValueOutOfBounds:
		return fmt.Sprintf("value %s out of bounds", path(d.Node))
	case IOError:
		return fmt.Sprintf("%v", d.Err)
	default:
		return d.Kind.String()
	}
}