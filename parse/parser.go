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

// Package parse implements bakery's recipe and data grammar: a hand-rolled
// lexer plus a recursive-descent parser building schema.Node trees
// directly, in the style of goyang's YANG parser (lexer.go / parser.go
// building yang.Statement trees) rather than a parser-generator or
// combinator library.
package parse

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// ParseErrorKind distinguishes the two recoverable parse failures: the
// grammar matched a prefix of the input but not all of it.
type ParseErrorKind int

const (
	IncompleteRecParse ParseErrorKind = iota
	IncompleteDatParse
)

// ParseError reports that a parse matched only a prefix of its input. It is
// the sole recoverable parse failure: anything else — a token the grammar
// plain doesn't allow where it appears — is a syntax error and panics.
type ParseError struct {
	Kind   ParseErrorKind
	Offset int
}

func (e *ParseError) Error() string {
	if e.Kind == IncompleteRecParse {
		return fmt.Sprintf("parse: recipe text has unconsumed trailing input at offset %d", e.Offset)
	}
	return "parse: data text has unconsumed trailing input"
}

type parser struct {
	store *tree.Store
	lex   *lexer
	tok   token
}

func newParser(store *tree.Store, src string) *parser {
	p := &parser{store: store, lex: newLexer(src)}
	p.tok = p.lex.next()
	return p
}

func (p *parser) advance() token {
	t := p.tok
	p.tok = p.lex.next()
	return t
}

func (p *parser) expect(kind tokenKind) token {
	if p.tok.kind != kind {
		panic(fmt.Sprintf("parse: expected %s, got %s %q at offset %d", kind, p.tok.kind, p.tok.text, p.tok.start))
	}
	return p.advance()
}

func span(start, end int) schema.Span { return schema.Span{Start: start, End: end} }

// ParseRecipeString parses text as a single type expression, the grammar's
// `rec_type_anonymous` entry point. `rec_type_anonymous` has one
// alternative `rec_type` lacks: a bare, keyword-and-brace-free member
// declaration list (the same shape `file_rec` parses), recognized here by a
// one-token lookahead — `identifier ':'` can never begin a bare rec_type
// (a type-inst's identifier is only ever followed by '<', ',', ')', '>',
// '}' or end of input) — and built into an anonymous top-level RecStruct
// exactly as ParseStructRecipeString does. A list whose first declaration
// is a keyword-form struct or enum is recognized once that declaration is
// followed by ','; a lone keyword-form struct or enum stays a rec_type. The
// bare member-list form is only recognized in this top-level position.
func ParseRecipeString(store *tree.Store, text string) (tree.ID, error) {
	src := strings.TrimSpace(text)
	p := newParser(store, src)
	if p.looksLikeMemberList() {
		id := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
		p.parseRecStructDeclarations(id)
		if p.tok.kind != tokEOF {
			return 0, &ParseError{Kind: IncompleteRecParse, Offset: p.tok.start}
		}
		return id, nil
	}
	startsWithDecl := p.tok.kind == tokIdent && (p.tok.text == "struct" || p.tok.text == "enum")
	id := p.parseRecType()
	if startsWithDecl && p.tok.kind == tokComma {
		list := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
		store.Attach(list, id)
		p.advance()
		p.parseRecStructDeclarations(list)
		id = list
	}
	if p.tok.kind != tokEOF {
		return 0, &ParseError{Kind: IncompleteRecParse, Offset: p.tok.start}
	}
	return id, nil
}

// looksLikeMemberList reports whether the parser is positioned at the start
// of a bare struct-member declaration (`identifier ':' ...`) rather than a
// rec_type expression. "struct" and "enum" are excluded since those lead
// their own keyword-form rec_type alternatives; ParseRecipeString handles a
// list that starts with one of them after parsing that first declaration.
func (p *parser) looksLikeMemberList() bool {
	if p.tok.kind != tokIdent || p.tok.text == "struct" || p.tok.text == "enum" {
		return false
	}
	ahead := &lexer{src: p.lex.src, pos: p.lex.pos}
	return ahead.next().kind == tokColon
}

// ParseStructRecipeString parses text as the body of a struct, with no
// enclosing braces, the grammar's `file_rec` entry point.
func ParseStructRecipeString(store *tree.Store, text string) (tree.ID, error) {
	src := strings.TrimSpace(text)
	p := newParser(store, src)
	id := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
	p.parseRecStructDeclarations(id)
	if p.tok.kind != tokEOF {
		return 0, &ParseError{Kind: IncompleteRecParse, Offset: p.tok.start}
	}
	return id, nil
}

// ParseDatValueString parses text as a single value, the grammar's
// `dat_value` entry point.
func ParseDatValueString(store *tree.Store, text string) (tree.ID, error) {
	src := strings.TrimSpace(text)
	p := newParser(store, src)
	id := p.parseDatValue()
	if p.tok.kind != tokEOF {
		return 0, &ParseError{Kind: IncompleteDatParse}
	}
	return id, nil
}

// ParseDatMapString parses text as the body of a map, with no enclosing
// braces, the grammar's `file_dat` entry point.
func ParseDatMapString(store *tree.Store, text string) (tree.ID, error) {
	src := strings.TrimSpace(text)
	p := newParser(store, src)
	id := schema.Create(store, schema.Anonymous(schema.Node{Kind: schema.DatMap}))
	p.parseDatMapAssignments(id, tokEOF)
	if p.tok.kind != tokEOF {
		return 0, &ParseError{Kind: IncompleteDatParse}
	}
	return id, nil
}

// parseRecType dispatches on rec_type = rec_type_inst | rec_struct |
// rec_enum | rec_tuple. A bare `{` is accepted as an anonymous struct
// wherever a type is expected, not only at the top level — simpler to
// parse uniformly and no concrete scenario distinguishes the two
// positions.
func (p *parser) parseRecType() tree.ID {
	switch {
	case p.tok.kind == tokIdent && p.tok.text == "struct":
		return p.parseRecStruct()
	case p.tok.kind == tokLBrace:
		return p.parseRecStruct()
	case p.tok.kind == tokIdent && p.tok.text == "enum":
		return p.parseRecEnum()
	case p.tok.kind == tokLParen:
		return p.parseRecTuple()
	case p.tok.kind == tokIdent:
		return p.parseRecTypeInst()
	default:
		panic(fmt.Sprintf("parse: unexpected %s %q at offset %d", p.tok.kind, p.tok.text, p.tok.start))
	}
}

// parseRecTypeInst parses rec_type_inst = identifier-path [`<` rec_type_inst
// (`,` rec_type_inst)* `>`]. Generic arguments become RecTypeInst children
// of the outer instantiation in lexical order, attached after being parsed
// as independent nodes.
func (p *parser) parseRecTypeInst() tree.ID {
	tok := p.expect(tokIdent)
	id := schema.Create(p.store, schema.WithSpan(schema.Anonymous(schema.Node{
		Kind: schema.RecTypeInst,
		Type: schema.PathRef(tok.text),
	}), span(tok.start, tok.end)))
	if p.tok.kind == tokLAngle {
		p.advance()
		for {
			arg := p.parseRecTypeInst()
			p.store.Attach(id, arg)
			if p.tok.kind != tokComma {
				break
			}
			p.advance()
		}
		p.expect(tokRAngle)
	}
	return id
}

// parseRecStruct parses rec_struct, handling both the keyword form
// (`struct [identifier] ... { ... }`) and the keyword-omitted anonymous
// form uniformly: the optional keyword and optional name are simply
// consumed if present.
func (p *parser) parseRecStruct() tree.ID {
	start := p.tok.start
	if p.tok.kind == tokIdent && p.tok.text == "struct" {
		p.advance()
	}
	n := schema.Node{Kind: schema.RecStruct}
	if p.tok.kind == tokIdent {
		n = schema.Named(p.tok.text, n)
		p.advance()
	}
	id := schema.Create(p.store, n)

	if p.tok.kind == tokLAngle {
		p.advance()
		p.parseRecGenericDecl(id)
		p.expect(tokRAngle)
	}
	p.expect(tokLBrace)
	p.parseRecStructDeclarations(id)
	end := p.tok.start
	p.expect(tokRBrace)
	nd := schema.Get(p.store, id)
	nd.Span, nd.HasSpan = span(start, end), true
	return id
}

// parseRecGenericDecl parses the `<identifier (, identifier)*` portion of a
// generic struct declaration, adding one RecGeneric child per parameter in
// declared order.
func (p *parser) parseRecGenericDecl(structID tree.ID) {
	index := uint32(0)
	for {
		tok := p.expect(tokIdent)
		schema.CreateChild(p.store, structID, schema.WithSpan(schema.Named(tok.text, schema.Node{
			Kind: schema.RecGeneric, GenericIndex: index,
		}), span(tok.start, tok.end)))
		index++
		if p.tok.kind != tokComma {
			break
		}
		p.advance()
	}
}

// parseRecTuple parses rec_tuple = `(` type-identifier (`,`
// type-identifier)* `)`. Members carry a bare path reference, never a full
// rec_type_inst with generic arguments — each member's type is recorded as
// the raw identifier text.
func (p *parser) parseRecTuple() tree.ID {
	start := p.tok.start
	p.expect(tokLParen)
	id := schema.Create(p.store, schema.Anonymous(schema.Node{Kind: schema.RecTuple}))
	if p.tok.kind != tokRParen {
		for {
			tok := p.expect(tokIdent)
			schema.CreateChild(p.store, id, schema.WithSpan(schema.Anonymous(schema.Node{
				Kind: schema.RecTupleMember,
				Type: schema.PathRef(tok.text),
			}), span(tok.start, tok.end)))
			if p.tok.kind != tokComma {
				break
			}
			p.advance()
		}
	}
	end := p.tok.end
	p.expect(tokRParen)
	nd := schema.Get(p.store, id)
	nd.Span, nd.HasSpan = span(start, end), true
	return id
}

// parseRecStructDeclarations parses a comma-separated list of struct
// members and nested type declarations, stopping at `}` or end of input —
// shared between a struct body and the bare top-level file_rec grammar.
func (p *parser) parseRecStructDeclarations(parent tree.ID) {
	if p.tok.kind == tokEOF || p.tok.kind == tokRBrace {
		return
	}
	for {
		child := p.parseRecStructDeclaration()
		p.store.Attach(parent, child)
		if p.tok.kind != tokComma {
			break
		}
		p.advance()
	}
}

// parseRecStructDeclaration parses one member or nested rec_struct/rec_enum
// declaration.
func (p *parser) parseRecStructDeclaration() tree.ID {
	switch {
	case p.tok.kind == tokIdent && p.tok.text == "struct":
		return p.parseRecStruct()
	case p.tok.kind == tokIdent && p.tok.text == "enum":
		return p.parseRecEnum()
	}
	nameTok := p.expect(tokIdent)
	p.expect(tokColon)
	typeID := p.parseRecType()
	id := schema.Create(p.store, schema.WithSpan(schema.Named(nameTok.text, schema.Node{
		Kind: schema.RecStructMember,
	}), span(nameTok.start, nameTok.end)))
	p.store.Attach(id, typeID)
	return id
}

// parseRecEnum parses rec_enum = `enum` [identifier] `{` rec_enum_items `}`.
// The key type always starts as the lexical path "i32" — the grammar has no
// syntax to specify another key type.
func (p *parser) parseRecEnum() tree.ID {
	start := p.tok.start
	if p.tok.kind == tokIdent && p.tok.text == "enum" {
		p.advance()
	}
	n := schema.Node{Kind: schema.RecEnum, EnumKeyType: schema.PathRef("i32")}
	if p.tok.kind == tokIdent {
		n = schema.Named(p.tok.text, n)
		p.advance()
	}
	id := schema.Create(p.store, n)
	p.expect(tokLBrace)
	if p.tok.kind != tokRBrace {
		for {
			p.parseRecEnumItem(id)
			if p.tok.kind != tokComma {
				break
			}
			p.advance()
		}
	}
	end := p.tok.start
	p.expect(tokRBrace)
	nd := schema.Get(p.store, id)
	nd.Span, nd.HasSpan = span(start, end), true
	return id
}

// parseRecEnumItem parses one `identifier [( type-list ) | { declarations
// }]`. Every item starts with value 0; the resolver assigns real tag
// values during resolution.
func (p *parser) parseRecEnumItem(parent tree.ID) {
	nameTok := p.expect(tokIdent)
	itemID := schema.CreateChild(p.store, parent, schema.WithSpan(schema.Named(nameTok.text, schema.Node{
		Kind: schema.RecEnumItem, EnumValue: big.NewInt(0),
	}), span(nameTok.start, nameTok.end)))
	switch p.tok.kind {
	case tokLParen:
		tupleID := p.parseRecTuple()
		p.store.Attach(itemID, tupleID)
	case tokLBrace:
		p.advance()
		structID := schema.CreateChild(p.store, itemID, schema.Anonymous(schema.Node{Kind: schema.RecStruct}))
		p.parseRecStructDeclarations(structID)
		p.expect(tokRBrace)
	}
}