// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package treediff

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSExpression builds a tree (and its flattened source text) from
// an S-expression, standing in for a parser when trees are written by
// hand:
//
//	(seq (call (id "foo") (args (int "1"))))
//
// An atom names an internal node or, with no children, a leaf whose
// text is the symbol name; a quoted string below a symbol sets the
// leaf's text; a bare quoted string is an anonymous token. A symbol
// can pin a production id with a colon suffix (expr:2). Leaves are
// laid out one space apart on a single line.
func ParseSExpression(lang *Language, input string) (*Tree, []byte, error) {
	p := &sexpParser{lang: lang, input: input}
	root, err := p.parseValue()
	if err != nil {
		return nil, nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, nil, fmt.Errorf("sexp: trailing input at offset %d", p.pos)
	}
	b := &sexpBuilder{lang: lang}
	subtree, err := b.build(root)
	if err != nil {
		return nil, nil, err
	}
	return NewTree(subtree, lang), []byte(b.code.String()), nil
}

type sexpNode struct {
	name       string
	production uint16
	anonymous  bool
	text       string
	hasText    bool
	children   []*sexpNode
}

type sexpParser struct {
	lang  *Language
	input string
	pos   int
}

func (p *sexpParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

func (p *sexpParser) parseValue() (*sexpNode, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("sexp: unexpected end of input")
	}
	switch p.input[p.pos] {
	case '(':
		return p.parseList()
	case '"':
		text, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return &sexpNode{name: text, anonymous: true, text: text, hasText: true}, nil
	default:
		name, production, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return &sexpNode{name: name, production: production}, nil
	}
}

func (p *sexpParser) parseList() (*sexpNode, error) {
	p.pos++ // consume '('
	p.skipSpace()
	name, production, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	node := &sexpNode{name: name, production: production}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("sexp: unterminated list for %q", name)
		}
		if p.input[p.pos] == ')' {
			p.pos++
			return node, nil
		}
		if p.input[p.pos] == '"' && len(node.children) == 0 && !node.hasText {
			// A single leading string is the node's own literal text,
			// provided nothing else follows.
			mark := p.pos
			text, err := p.parseString()
			if err != nil {
				return nil, err
			}
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == ')' {
				node.text = text
				node.hasText = true
				continue
			}
			p.pos = mark
		}
		child, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		node.children = append(node.children, child)
	}
}

func (p *sexpParser) parseString() (string, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			c = p.input[p.pos]
		}
		sb.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("sexp: unterminated string")
}

func (p *sexpParser) parseAtom() (string, uint16, error) {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("() \t\n\r\"", rune(p.input[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", 0, fmt.Errorf("sexp: expected atom at offset %d", start)
	}
	atom := p.input[start:p.pos]
	if name, suffix, found := strings.Cut(atom, ":"); found {
		production, err := strconv.ParseUint(suffix, 10, 16)
		if err != nil {
			return "", 0, fmt.Errorf("sexp: bad production suffix in %q: %w", atom, err)
		}
		return name, uint16(production), nil
	}
	return atom, 0, nil
}

type sexpBuilder struct {
	lang  *Language
	code  strings.Builder
	count int
}

func (b *sexpBuilder) build(node *sexpNode) (*Subtree, error) {
	sym, ok := b.lang.SymbolForName(node.name)
	if !ok {
		return nil, fmt.Errorf("sexp: unknown symbol %q", node.name)
	}
	if len(node.children) == 0 {
		text := node.text
		if !node.hasText {
			text = node.name
		}
		padding := lengthZero()
		if b.count > 0 {
			b.code.WriteByte(' ')
			padding = Length{Bytes: 1, Column: 1}
		}
		b.count++
		b.code.WriteString(text)
		size := Length{Bytes: uint32(len(text)), Column: uint32(len(text))}
		return NewLeaf(b.lang, sym, padding, size), nil
	}
	children := make([]*Subtree, 0, len(node.children))
	for _, child := range node.children {
		subtree, err := b.build(child)
		if err != nil {
			return nil, err
		}
		children = append(children, subtree)
	}
	return NewNode(b.lang, sym, node.production, children), nil
}
