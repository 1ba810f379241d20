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
	"strings"
	"testing"
)

// testLanguage builds the minimal arithmetic grammar the end-to-end
// scenarios run against: named rules, literal integer and identifier
// tokens, and one relevant anonymous operator token.
func testLanguage(t testing.TB) (*Language, *LiteralMap) {
	t.Helper()
	lang := NewLanguage("arith")
	named := SymbolMetadata{Visible: true, Named: true}
	anonymous := SymbolMetadata{Visible: true}
	for _, name := range []string{"expr", "seq", "add", "sub", "call", "args", "int", "id"} {
		lang.AddSymbol(name, named)
	}
	plus := lang.AddSymbol("+", anonymous)
	lang.AddSymbol("hidden", SymbolMetadata{Named: true})

	lits := NewLiteralMap(lang)
	lits.AddLiteral(testSymbol(t, lang, "int"))
	lits.AddLiteral(testSymbol(t, lang, "id"))
	lits.AddUnnamedToken(plus)
	return lang, lits
}

func testSymbol(t testing.TB, lang *Language, name string) Symbol {
	t.Helper()
	sym, ok := lang.SymbolForName(name)
	if !ok {
		t.Fatalf("symbol %q missing from test language", name)
	}
	return sym
}

func parseTestTree(t testing.TB, lang *Language, sexp string) (*Tree, []byte) {
	t.Helper()
	tree, code, err := ParseSExpression(lang, sexp)
	if err != nil {
		t.Fatalf("parsing %q: %v", sexp, err)
	}
	return tree, code
}

func initTestTree(t testing.TB, tree *Tree, code []byte, lits *LiteralMap) {
	t.Helper()
	if err := Initialize(tree, code, lits); err != nil {
		t.Fatalf("initializing tree: %v", err)
	}
}

// runDiff parses, initializes and diffs two S-expression trees.
func runDiff(t testing.TB, oldSexp, newSexp string) (DiffResult, *Tree, *Tree, *Language) {
	t.Helper()
	lang, lits := testLanguage(t)
	oldTree, oldCode := parseTestTree(t, lang, oldSexp)
	newTree, newCode := parseTestTree(t, lang, newSexp)
	result, err := CompareTo(oldTree, newTree, oldCode, newCode, lits)
	if err != nil {
		t.Fatalf("CompareTo(%q, %q): %v", oldSexp, newSexp, err)
	}
	return result, oldTree, newTree, lang
}

// nodeAt walks child links to a node.
func nodeAt(t testing.TB, tree *Tree, path ...uint32) Node {
	t.Helper()
	node := tree.RootNode()
	for _, index := range path {
		if index >= node.ChildCount() {
			t.Fatalf("path step %d out of range (%d children)", index, node.ChildCount())
		}
		node = node.Child(index)
	}
	return node
}

func heapAt(t testing.TB, tree *Tree, path ...uint32) *DiffHeap {
	t.Helper()
	heap := nodeAt(t, tree, path...).diffHeap()
	if heap == nil {
		t.Fatalf("node at %v has no diff heap", path)
	}
	return heap
}

// shapeOf renders the symbol structure of a subtree, ignoring text.
func shapeOf(s *Subtree, lang *Language) string {
	if len(s.children) == 0 {
		return lang.SymbolName(s.symbol)
	}
	parts := []string{lang.SymbolName(s.symbol)}
	for _, child := range s.children {
		parts = append(parts, shapeOf(child, lang))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func forEachHeap(s *Subtree, fn func(*Subtree, *DiffHeap)) {
	if s.diff != nil {
		fn(s, s.diff)
	}
	for _, child := range s.children {
		forEachHeap(child, fn)
	}
}

func editTags(es *EditScript) []EditTag {
	tags := make([]EditTag, 0, es.Len())
	for _, edit := range es.Edits() {
		tags = append(tags, edit.EditTag())
	}
	return tags
}

// assertNoLeaks checks that the reconstructed tree carries no leftover
// assignments or share memberships.
func assertNoLeaks(t testing.TB, tree *Tree) {
	t.Helper()
	forEachHeap(tree.Root(), func(s *Subtree, heap *DiffHeap) {
		if heap.assigned != nil {
			t.Errorf("node %s (%d) leaks an assignment", heap.id, s.symbol)
		}
		if heap.share != nil {
			t.Errorf("node %s (%d) leaks a share", heap.id, s.symbol)
		}
	})
}
