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

// Package tree implements the dense-ID node arena shared by the recipe
// parser, resolver and emitter: every schema and data node, regardless of
// kind, lives in one Store and is addressed by its integer ID.
package tree

// ID addresses a single node in a Store. IDs are assigned monotonically
// starting at zero and are never reused, even across Clear.
type ID uint32

// item is one arena slot: its own ID, an optional parent, its children in
// attachment order, and the caller-supplied payload.
type item struct {
	id       ID
	parent   ID
	hasParent bool
	children []ID
	value    interface{}
}

// Store is an arena of nodes keyed by dense IDs. It owns every parent/child
// pointer: once a node is attached to a parent, it cannot be re-parented.
type Store struct {
	items  map[ID]*item
	nextID ID
}

// New returns an empty Store whose first allocated ID is 0.
func New() *Store {
	return &Store{items: make(map[ID]*item)}
}

// Clear removes all nodes from the store. The ID counter is not reset, so
// IDs stay monotone across Clear calls on the same Store.
func (s *Store) Clear() {
	s.items = make(map[ID]*item)
}

// Create allocates a new root node (no parent) holding value and returns its
// ID.
func (s *Store) Create(value interface{}) ID {
	return s.CreateWithParent(0, false, value)
}

// CreateWithParent allocates a new node holding value, optionally attached
// under parent, and returns its ID. Pass hasParent=false to create a root.
func (s *Store) CreateWithParent(parent ID, hasParent bool, value interface{}) ID {
	id := s.nextID
	s.nextID++
	it := &item{id: id, value: value}
	s.items[id] = it
	if hasParent {
		parentItem := s.mustGet(parent)
		it.parent, it.hasParent = parent, true
		parentItem.children = append(parentItem.children, id)
	}
	return id
}

// Attach makes child a child of parent. It panics if child already has a
// parent: once attached, a node cannot be re-parented.
func (s *Store) Attach(parent, child ID) {
	childItem := s.mustGet(child)
	if childItem.hasParent {
		panic("tree: node already has a parent")
	}
	childItem.parent, childItem.hasParent = parent, true
	parentItem := s.mustGet(parent)
	parentItem.children = append(parentItem.children, child)
}

// Get returns the payload stored at id.
func (s *Store) Get(id ID) interface{} {
	return s.mustGet(id).value
}

// Set overwrites the payload stored at id.
func (s *Store) Set(id ID, value interface{}) {
	s.mustGet(id).value = value
}

// Parent returns the parent of id and whether id has one.
func (s *Store) Parent(id ID) (ID, bool) {
	it := s.mustGet(id)
	return it.parent, it.hasParent
}

// Children returns the ordered child IDs of id. The returned slice must not
// be mutated by the caller.
func (s *Store) Children(id ID) []ID {
	return s.mustGet(id).children
}

// UniqueChild returns the single child of id, panicking if id does not have
// exactly one child.
func (s *Store) UniqueChild(id ID) ID {
	children := s.Children(id)
	if len(children) != 1 {
		panic("tree: expected exactly one child")
	}
	return children[0]
}

// UniqueChildOrNone returns the single child of id and true, or (0, false)
// if id has no children. It panics if id has more than one child.
func (s *Store) UniqueChildOrNone(id ID) (ID, bool) {
	children := s.Children(id)
	switch len(children) {
	case 0:
		return 0, false
	case 1:
		return children[0], true
	default:
		panic("tree: expected at most one child")
	}
}

func (s *Store) mustGet(id ID) *item {
	it, ok := s.items[id]
	if !ok {
		panic("tree: unknown node id")
	}
	return it
}