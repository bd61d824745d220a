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

package parse

import (
	"fmt"
	"strings"

	"github.com/bakerylang/bakery/schema"
	"github.com/bakerylang/bakery/tree"
)

// parseDatValue parses dat_value = int | float | dat_map | dat_tuple |
// dat_list | dat_enum. `NaN` and bare `inf` lex as identifiers (they have
// no leading digit or sign) but are recognized here ahead of dat_enum,
// matching the grammar ordering that tries the float alternative first.
func (p *parser) parseDatValue() tree.ID {
	switch {
	case p.tok.kind == tokNumber:
		return p.parseDatPrimitive()
	case p.tok.kind == tokIdent && (p.tok.text == "NaN" || p.tok.text == "inf"):
		return p.parseDatPrimitive()
	case p.tok.kind == tokIdent:
		return p.parseDatEnum()
	case p.tok.kind == tokLBrace:
		return p.parseDatMap()
	case p.tok.kind == tokLParen:
		return p.parseDatTupleOrList(schema.DatTuple, tokLParen, tokRParen)
	case p.tok.kind == tokLBracket:
		return p.parseDatTupleOrList(schema.DatList, tokLBracket, tokRBracket)
	default:
		panic(fmt.Sprintf("parse: unexpected %s %q at offset %d", p.tok.kind, p.tok.text, p.tok.start))
	}
}

// parseDatPrimitive builds a DatInt or DatFloat node holding the literal's
// raw text, undecoded — decoding happens at emit time once the expected
// schema type (and its width) is known.
func (p *parser) parseDatPrimitive() tree.ID {
	tok := p.advance()
	kind := schema.DatInt
	if tok.text == "NaN" || strings.Contains(tok.text, "inf") || strings.ContainsAny(tok.text, ".eE") {
		kind = schema.DatFloat
	}
	return schema.Create(p.store, schema.WithSpan(schema.Anonymous(schema.Node{
		Kind: kind, Repr: tok.text,
	}), span(tok.start, tok.end)))
}

// parseDatEnum parses dat_enum = identifier [`(` dat_value-list `)` | `{`
// map-assignments `}`]. A bare identifier with no payload is how both enum
// variants without data and boolean literals (`true`/`false`) are written.
func (p *parser) parseDatEnum() tree.ID {
	tok := p.expect(tokIdent)
	id := schema.Create(p.store, schema.WithSpan(schema.Named(tok.text, schema.Node{
		Kind: schema.DatEnum,
	}), span(tok.start, tok.end)))
	switch p.tok.kind {
	case tokLParen:
		child := p.parseDatTupleOrList(schema.DatTuple, tokLParen, tokRParen)
		p.store.Attach(id, child)
	case tokLBrace:
		child := p.parseDatMap()
		p.store.Attach(id, child)
	}
	return id
}

// parseDatTupleOrList parses dat_tuple or dat_list, sharing one
// implementation since both are a bracketed, comma-separated value list
// differing only in delimiter and resulting Kind.
func (p *parser) parseDatTupleOrList(kind schema.Kind, open, close tokenKind) tree.ID {
	start := p.tok.start
	p.expect(open)
	id := schema.Create(p.store, schema.Anonymous(schema.Node{Kind: kind}))
	if p.tok.kind != close {
		for {
			child := p.parseDatValue()
			p.store.Attach(id, child)
			if p.tok.kind != tokComma {
				break
			}
			p.advance()
		}
	}
	end := p.tok.end
	p.expect(close)
	nd := schema.Get(p.store, id)
	nd.Span, nd.HasSpan = span(start, end), true
	return id
}

// parseDatMap parses dat_map = `{` (dat_map_assignment (`,`
// dat_map_assignment)*)? `}`.
func (p *parser) parseDatMap() tree.ID {
	start := p.tok.start
	p.expect(tokLBrace)
	id := schema.Create(p.store, schema.Anonymous(schema.Node{Kind: schema.DatMap}))
	p.parseDatMapAssignments(id, tokRBrace)
	end := p.tok.end
	p.expect(tokRBrace)
	nd := schema.Get(p.store, id)
	nd.Span, nd.HasSpan = span(start, end), true
	return id
}

// parseDatMapAssignments parses a comma-separated list of
// dat_map_assignments, stopping at stopAt (either `}` for a braced map
// body or tokEOF for the bare top-level file_dat grammar).
func (p *parser) parseDatMapAssignments(parent tree.ID, stopAt tokenKind) {
	if p.tok.kind == stopAt {
		return
	}
	for {
		assign := p.parseDatMapAssignment()
		p.store.Attach(parent, assign)
		if p.tok.kind != tokComma {
			break
		}
		p.advance()
	}
}

// parseDatMapAssignment parses dat_map_assignment = dat_value `:`
// dat_value. A bare-identifier key (a DatEnum with no children) is what
// the struct emitter later requires for struct field names.
func (p *parser) parseDatMapAssignment() tree.ID {
	start := p.tok.start
	key := p.parseDatValue()
	p.expect(tokColon)
	value := p.parseDatValue()
	end := schema.Get(p.store, value).Span.End
	id := schema.Create(p.store, schema.WithSpan(schema.Anonymous(schema.Node{
		Kind: schema.DatMapAssignment,
	}), span(start, end)))
	p.store.Attach(id, key)
	p.store.Attach(id, value)
	return id
}