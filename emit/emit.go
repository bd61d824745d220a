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

// Package emit implements bakery's binary emitter: a co-traversal of a
// resolved schema node and a data node that enforces type agreement,
// resolves generic parameters through a runtime substitution stack, and
// writes little-endian bytes to a sink.
package emit

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/golang/glog"

	"github.com/bakerylang/bakery/diag"
	"github.com/bakerylang/bakery/internal/bignum"
	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// Emitter co-walks a resolved schema tree and a data tree, maintaining a
// generic-substitution stack and reporting shape/bounds failures to its
// diag.Reporter rather than aborting, except for sink I/O failures which do
// abort.
type Emitter struct {
	store *tree.Store
	rep   *diag.Reporter
	sink  io.Writer

	// genericStack holds, for each active generic instantiation in scope,
	// the ordered schema node IDs substituted for its RecGeneric
	// parameters. A RecGeneric leaf indirects through the top frame.
	genericStack [][]tree.ID
}

// New returns an Emitter writing to sink and reporting failures to rep.
func New(store *tree.Store, rep *diag.Reporter, sink io.Writer) *Emitter {
	return &Emitter{store: store, rep: rep, sink: sink}
}

// ioAbort signals the one unrecoverable emission failure: the sink itself
// failed. The emitter's internal methods panic with this to unwind straight
// back to Write without threading an error return through every recursive
// write call.
type ioAbort struct{ err error }

// Write emits data against schema, starting the co-traversal. It returns a
// non-nil error only for a sink I/O failure; shape/bounds diagnostics are
// reported through the Emitter's Reporter and do not abort the walk where
// emission can continue meaningfully.
func (e *Emitter) Write(schemaID, dataID tree.ID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(ioAbort); ok {
				e.rep.Report(&diag.Diagnostic{Kind: diag.IOError, Err: ab.err})
				err = ab.err
				return
			}
			panic(r)
		}
	}()
	e.write(schemaID, dataID)
	return nil
}

func (e *Emitter) out(p []byte) {
	if _, err := e.sink.Write(p); err != nil {
		panic(ioAbort{err})
	}
}

func (e *Emitter) writeCount(n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	e.out(buf[:])
}

// write dispatches on the schema node's kind.
func (e *Emitter) write(schemaID, dataID tree.ID) {
	n := schema.Get(e.store, schemaID)
	glog.V(2).Infof("emit: %s kind=%s", diag.NodePath(e.store, schemaID), n.Kind)
	switch n.Kind {
	case schema.RecInt:
		e.writeInt(dataID, n.BitSize, n.Signed)
	case schema.RecFloat:
		e.writeFloat(dataID, n.FloatSize)
	case schema.RecList:
		e.writeList(schemaID, dataID)
	case schema.RecMap:
		e.writeMap(schemaID, dataID)
	case schema.RecStruct:
		e.writeStruct(schemaID, dataID)
	case schema.RecTuple:
		e.writeTuple(schemaID, dataID)
	case schema.RecStructMember:
		e.writeStructMember(schemaID, dataID)
	case schema.RecEnum:
		e.writeEnum(schemaID, dataID, n.EnumKeyType.MustID())
	case schema.RecTypeInst:
		e.writeTypeInst(schemaID, n, dataID)
	case schema.RecGeneric:
		target := e.genericStack[len(e.genericStack)-1][n.GenericIndex]
		e.write(target, dataID)
	default:
		panic("emit: unreachable schema kind in write dispatch")
	}
}

// writeTypeInst pushes a generic-substitution frame (this instantiation's
// own ordered argument nodes) before descending into a target that may
// itself be generic, and pops it on return.
func (e *Emitter) writeTypeInst(schemaID tree.ID, n *schema.Node, dataID tree.ID) {
	targetID := n.Type.MustID()
	mayBeGeneric := schema.Get(e.store, targetID).Kind.MayBeGeneric()
	if mayBeGeneric {
		e.genericStack = append(e.genericStack, e.store.Children(schemaID))
		defer func() { e.genericStack = e.genericStack[:len(e.genericStack)-1] }()
	}
	e.write(targetID, dataID)
}

// writeInt decodes a DatInt's decimal text as an arbitrary-precision
// integer, bounds-checks it against (bitSize, signed), and writes bitSize/8
// little-endian bytes.
func (e *Emitter) writeInt(dataID tree.ID, bitSize uint8, signed bool) {
	d := schema.Get(e.store, dataID)
	if d.Kind != schema.DatInt {
		e.rep.Report(&diag.Diagnostic{Kind: diag.ExpectedDatInt, Node: dataID})
		return
	}
	v, ok := bignum.ParseDecimal(d.Repr)
	if !ok {
		panic("emit: DatInt.Repr is not valid decimal text; grammar invariant violated")
	}
	min, max := bignum.Bounds(bitSize, signed)
	if !bignum.InRange(v, min, max) {
		e.rep.Report(&diag.Diagnostic{Kind: diag.ValueOutOfBounds, Node: dataID})
		return
	}
	e.writeIntChecked(v, bitSize, signed)
}

// writeIntChecked writes v (already bounds-checked by the caller) as
// bitSize/8 little-endian bytes, panicking on sink failure.
func (e *Emitter) writeIntChecked(v *big.Int, bitSize uint8, signed bool) {
	e.out(bignum.LittleEndianWidth(v, int(bitSize)/8, signed))
}

// writeFloat accepts either a DatInt or a DatFloat and parses the literal
// text as a 32- or 64-bit IEEE-754 float, so an integer literal can fill a
// float-typed field without an explicit decimal point.
func (e *Emitter) writeFloat(dataID tree.ID, bitSize uint8) {
	d := schema.Get(e.store, dataID)
	if d.Kind != schema.DatInt && d.Kind != schema.DatFloat {
		e.rep.Report(&diag.Diagnostic{Kind: diag.ExpectedDatFloat, Node: dataID})
		return
	}
	switch bitSize {
	case 32:
		f, err := strconv.ParseFloat(d.Repr, 32)
		if err != nil {
			panic("emit: float literal failed to parse; grammar invariant violated")
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(f)))
		e.out(buf[:])
	case 64:
		f, err := strconv.ParseFloat(d.Repr, 64)
		if err != nil {
			panic("emit: float literal failed to parse; grammar invariant violated")
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		e.out(buf[:])
	default:
		panic("emit: unsupported float bit size")
	}
}

// writeList writes the element count then each element against the list's
// single generic-argument type.
func (e *Emitter) writeList(schemaID, dataID tree.ID) {
	itemType := e.store.UniqueChild(schemaID)
	items := e.store.Children(dataID)
	e.writeCount(len(items))
	for _, item := range items {
		e.write(itemType, item)
	}
}

// writeMap writes the item count then, for each DatMapAssignment, the key
// then value against the map's two generic-argument types in order.
func (e *Emitter) writeMap(schemaID, dataID tree.ID) {
	args := e.store.Children(schemaID)
	items := e.store.Children(dataID)
	e.writeCount(len(items))
	for _, item := range items {
		kv := e.store.Children(item)
		e.write(args[0], kv[0])
		e.write(args[1], kv[1])
	}
}

// writeStruct validates D is a DatMap whose every entry has a bare
// identifier key, then emits each schema member in declared order. Local
// type declarations and generic parameters are skipped.
func (e *Emitter) writeStruct(schemaID, dataID tree.ID) {
	d := schema.Get(e.store, dataID)
	if d.Kind != schema.DatMap {
		e.rep.Report(&diag.Diagnostic{Kind: diag.DataNotStruct, Node: dataID})
		return
	}
	bad := false
	for _, assignID := range e.store.Children(dataID) {
		assign := schema.Get(e.store, assignID)
		if assign.Kind != schema.DatMapAssignment {
			e.rep.Report(&diag.Diagnostic{Kind: diag.ExpectedDatIdentifier, Node: assignID})
			bad = true
			continue
		}
		kv := e.store.Children(assignID)
		key := kv[0]
		if len(e.store.Children(key)) != 0 {
			e.rep.Report(&diag.Diagnostic{Kind: diag.ExpectedDatIdentifier, Node: assignID})
			bad = true
		}
	}
	if bad {
		return
	}
	for _, member := range e.store.Children(schemaID) {
		if schema.Get(e.store, member).Kind == schema.RecStructMember {
			e.write(member, dataID)
		}
	}
}

// writeStructMember finds the unique DatMapAssignment in D whose key name
// matches the member's name and emits its value against the member's type.
func (e *Emitter) writeStructMember(schemaID, dataID tree.ID) {
	member := schema.Get(e.store, schemaID)
	typeID := e.store.UniqueChild(schemaID)

	var found tree.ID
	hasFound := false
	for _, assignID := range e.store.Children(dataID) {
		kv := e.store.Children(assignID)
		keyName := schema.Get(e.store, kv[0])
		if keyName.Name != member.Name {
			continue
		}
		if !hasFound {
			found, hasFound = kv[1], true
			continue
		}
		e.rep.Report(&diag.Diagnostic{Kind: diag.RedefinedValue, Node: assignID})
	}
	if !hasFound {
		e.rep.Report(&diag.Diagnostic{Kind: diag.UndefinedValue, Node: schemaID})
		return
	}
	e.write(typeID, found)
}

// writeTuple requires matching arities and emits pairwise, each
// RecTupleMember's resolved type against the corresponding data element.
func (e *Emitter) writeTuple(schemaID, dataID tree.ID) {
	members := e.store.Children(schemaID)
	elems := e.store.Children(dataID)
	if len(members) != len(elems) {
		e.rep.Report(&diag.Diagnostic{Kind: diag.TupleSizeMismatch, Node: dataID, OtherNode: schemaID, HasOther: true})
		return
	}
	for i, member := range members {
		typeRef := schema.Get(e.store, member).Type
		e.write(typeRef.MustID(), elems[i])
	}
}

// writeEnum finds the item matching D's variant name, writes its tag value
// in the key type's width, then emits any inline payload.
func (e *Emitter) writeEnum(schemaID, dataID tree.ID, keyTypeID tree.ID) {
	d := schema.Get(e.store, dataID)
	var item tree.ID
	hasItem := false
	for _, itemID := range e.store.Children(schemaID) {
		if schema.Get(e.store, itemID).Name == d.Name {
			item, hasItem = itemID, true
			break
		}
	}
	if !hasItem {
		e.rep.Report(&diag.Diagnostic{Kind: diag.EnumUndefinedName, Node: schemaID, OtherNode: dataID, HasOther: true})
		return
	}
	keyType := schema.Get(e.store, keyTypeID)
	itemNode := schema.Get(e.store, item)
	e.out(bignum.LittleEndianWidth(itemNode.EnumValue, int(keyType.BitSize)/8, keyType.Signed))

	payloadType, hasPayload := e.store.UniqueChildOrNone(item)
	if !hasPayload {
		return
	}
	payloadData, hasPayloadData := e.store.UniqueChildOrNone(dataID)
	if !hasPayloadData {
		e.rep.Report(&diag.Diagnostic{Kind: diag.EnumUndefinedData, Node: dataID})
		return
	}
	e.write(payloadType, payloadData)
}