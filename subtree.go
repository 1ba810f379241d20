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

import "sync/atomic"

type (
	// Subtree is one node of a parse tree's storage. The differ owns
	// the storage exclusively for the duration of a diff and flips the
	// diff pointer, padding, size and has-changes bit in place.
	Subtree struct {
		symbol       Symbol
		productionID uint16
		children     []*Subtree

		padding Length
		size    Length

		parseState     StateID
		lookaheadBytes uint32
		lookaheadChar  int32

		named             bool
		visible           bool
		extra             bool
		isError           bool
		isKeyword         bool
		hasExternalTokens bool
		dependsOnColumn   bool
		hasChanges        bool

		externalScannerState []byte

		refCount atomic.Int32

		diff *DiffHeap
	}

	// Tree pairs a root subtree with its language.
	Tree struct {
		root *Subtree
		lang *Language
	}

	// Node is a lightweight handle onto a subtree: the subtree plus the
	// absolute position of its content within the source text.
	Node struct {
		position Length
		subtree  *Subtree
		tree     *Tree
	}
)

// NewLeaf creates a leaf subtree. Visibility and named-ness come from
// the language's symbol table.
func NewLeaf(lang *Language, sym Symbol, padding, size Length) *Subtree {
	meta := lang.SymbolMetadata(sym)
	leaf := &Subtree{
		symbol:  sym,
		padding: padding,
		size:    size,
		named:   meta.Named,
		visible: meta.Visible,
	}
	leaf.refCount.Store(1)
	return leaf
}

// NewNode creates an internal subtree over the given children. Padding
// and size are summarized from the children: the node's padding is its
// first child's padding, its size covers everything after.
func NewNode(lang *Language, sym Symbol, productionID uint16, children []*Subtree) *Subtree {
	meta := lang.SymbolMetadata(sym)
	node := &Subtree{
		symbol:       sym,
		productionID: productionID,
		children:     children,
		named:        meta.Named,
		visible:      meta.Visible,
	}
	node.refCount.Store(1)
	node.summarize()
	return node
}

func (s *Subtree) summarize() {
	if len(s.children) == 0 {
		return
	}
	total := lengthZero()
	for _, child := range s.children {
		total = lengthAdd(total, lengthAdd(child.padding, child.size))
	}
	s.padding = s.children[0].padding
	s.size = lengthSub(total, s.padding)
}

// lengthSub is only meaningful for spans produced by lengthAdd over the
// same prefix; it undoes the leading component.
func lengthSub(total, prefix Length) Length {
	diff := Length{Bytes: total.Bytes - prefix.Bytes, Row: total.Row - prefix.Row}
	if total.Row == prefix.Row {
		diff.Column = total.Column - prefix.Column
	} else {
		diff.Column = total.Column
	}
	return diff
}

func (s *Subtree) Symbol() Symbol           { return s.symbol }
func (s *Subtree) ProductionID() uint16     { return s.productionID }
func (s *Subtree) ChildCount() uint32       { return uint32(len(s.children)) }
func (s *Subtree) Child(i uint32) *Subtree  { return s.children[i] }
func (s *Subtree) Padding() Length          { return s.padding }
func (s *Subtree) Size() Length             { return s.size }
func (s *Subtree) ParseState() StateID      { return s.parseState }
func (s *Subtree) LookaheadBytes() uint32   { return s.lookaheadBytes }
func (s *Subtree) IsNamed() bool            { return s.named }
func (s *Subtree) IsVisible() bool          { return s.visible }
func (s *Subtree) IsExtra() bool            { return s.extra }
func (s *Subtree) IsError() bool            { return s.isError }
func (s *Subtree) IsKeyword() bool          { return s.isKeyword }
func (s *Subtree) HasExternalTokens() bool  { return s.hasExternalTokens }
func (s *Subtree) DependsOnColumn() bool    { return s.dependsOnColumn }
func (s *Subtree) HasChanges() bool         { return s.hasChanges }

func (s *Subtree) SetParseState(state StateID) { s.parseState = state }

func (s *Subtree) SetLookahead(bytes uint32, char int32) {
	s.lookaheadBytes = bytes
	s.lookaheadChar = char
}

func (s *Subtree) SetExtra(extra bool)         { s.extra = extra }
func (s *Subtree) SetError(isError bool)       { s.isError = isError }
func (s *Subtree) SetKeyword(keyword bool)     { s.isKeyword = keyword }
func (s *Subtree) SetHasChanges(changed bool)  { s.hasChanges = changed }
func (s *Subtree) SetDependsOnColumn(dep bool) { s.dependsOnColumn = dep }

// SetExternalScannerState stores a copy of the opaque scanner blob.
func (s *Subtree) SetExternalScannerState(state []byte) {
	s.hasExternalTokens = state != nil
	s.externalScannerState = append([]byte(nil), state...)
}

func (s *Subtree) ExternalScannerState() []byte {
	return s.externalScannerState
}

func (s *Subtree) retain() {
	s.refCount.Add(1)
}

// release drops one reference and reports the remaining count. The
// storage itself is garbage collected; the count tracks who still
// claims ownership.
func (s *Subtree) release() int32 {
	return s.refCount.Add(-1)
}

func (s *Subtree) setPadding(padding Length) { s.padding = padding }
func (s *Subtree) setSize(size Length)       { s.size = size }

// NewTree wraps a root subtree.
func NewTree(root *Subtree, lang *Language) *Tree {
	return &Tree{root: root, lang: lang}
}

func (t *Tree) Language() *Language { return t.lang }
func (t *Tree) Root() *Subtree      { return t.root }

// RootNode positions the root after its own padding, matching how a
// parser reports the root's start.
func (t *Tree) RootNode() Node {
	return Node{position: t.root.padding, subtree: t.root, tree: t}
}

// nodeFor rebuilds a node handle for a subtree whose position was
// recorded on its diff heap during initialization.
func (t *Tree) nodeFor(s *Subtree) Node {
	return Node{position: s.diff.position, subtree: s, tree: t}
}

func (n Node) Tree() *Tree       { return n.tree }
func (n Node) Subtree() *Subtree { return n.subtree }
func (n Node) Symbol() Symbol    { return n.subtree.symbol }
func (n Node) StartByte() uint32 { return n.position.Bytes }
func (n Node) EndByte() uint32   { return n.position.Bytes + n.subtree.size.Bytes }

func (n Node) StartPoint() (row, column uint32) {
	return n.position.Row, n.position.Column
}

func (n Node) IsNamed() bool   { return n.subtree.named }
func (n Node) IsVisible() bool { return n.subtree.visible }
func (n Node) IsExtra() bool   { return n.subtree.extra }
func (n Node) IsError() bool   { return n.subtree.isError }

// ChildCount counts all children, including invisible ones.
func (n Node) ChildCount() uint32 {
	return n.subtree.ChildCount()
}

// Child returns the i-th child, including invisible ones. The child's
// position is derived the same way the initializer derives it: the
// first child starts where the parent's content starts (the parent's
// padding already covers the first child's padding), later children
// skip their own padding.
func (n Node) Child(i uint32) Node {
	position := n.position
	for index := uint32(0); index < n.subtree.ChildCount(); index++ {
		child := n.subtree.children[index]
		if index > 0 {
			position = lengthAdd(position, child.padding)
		}
		if index == i {
			return Node{position: position, subtree: child, tree: n.tree}
		}
		position = lengthAdd(position, child.size)
	}
	panic("treediff: child index out of range")
}

func (n Node) diffHeap() *DiffHeap {
	return n.subtree.diff
}

// text slices the node's content out of the source it was parsed from.
func (n Node) text(code []byte) []byte {
	start := n.position.Bytes
	end := start + n.subtree.size.Bytes
	if start > uint32(len(code)) {
		return nil
	}
	if end > uint32(len(code)) {
		end = uint32(len(code))
	}
	return code[start:end]
}
