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
	"testing"
	"testing/quick"
)

func TestInitializeSizeHeightLaw(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	tree, code := parseTestTree(t, lang, `(seq (add (int "1") (int "2")) (id "x"))`)
	initTestTree(t, tree, code, lits)

	forEachHeap(tree.Root(), func(s *Subtree, heap *DiffHeap) {
		var size, height uint32
		for _, child := range s.children {
			size += child.diff.treesize
			height = max32(height, child.diff.treeheight)
		}
		if heap.treesize != 1+size {
			t.Errorf("treesize %d, want %d", heap.treesize, 1+size)
		}
		if heap.treeheight != 1+height {
			t.Errorf("treeheight %d, want %d", heap.treeheight, 1+height)
		}
	})
	if root := tree.Root().diff; root.treesize != 5 || root.treeheight != 3 {
		t.Fatalf("root metadata %d/%d, want 5/3", root.treesize, root.treeheight)
	}
}

func TestInitializeHashDeterminism(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	sexp := `(seq (call (id "foo") (args (int "1"))) (add (int "2") (int "3")))`
	treeA, codeA := parseTestTree(t, lang, sexp)
	treeB, codeB := parseTestTree(t, lang, sexp)
	initTestTree(t, treeA, codeA, lits)
	initTestTree(t, treeB, codeB, lits)

	var heapsA, heapsB []*DiffHeap
	forEachHeap(treeA.Root(), func(_ *Subtree, h *DiffHeap) { heapsA = append(heapsA, h) })
	forEachHeap(treeB.Root(), func(_ *Subtree, h *DiffHeap) { heapsB = append(heapsB, h) })
	if len(heapsA) != len(heapsB) {
		t.Fatalf("heap count mismatch: %d vs %d", len(heapsA), len(heapsB))
	}
	for i := range heapsA {
		if heapsA[i].structuralHash != heapsB[i].structuralHash {
			t.Fatalf("structural hash of node %d differs between identical trees", i)
		}
		if heapsA[i].literalHash != heapsB[i].literalHash {
			t.Fatalf("literal hash of node %d differs between identical trees", i)
		}
		if heapsA[i].id == heapsB[i].id {
			t.Fatalf("distinct trees must not share node identities")
		}
	}
}

func TestInitializeIdempotent(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	tree, code := parseTestTree(t, lang, `(add (int "1") (int "2"))`)
	initTestTree(t, tree, code, lits)

	type snapshot struct {
		id         NodeID
		structural [HashSize]byte
		literal    [HashSize]byte
	}
	var before []snapshot
	forEachHeap(tree.Root(), func(_ *Subtree, h *DiffHeap) {
		before = append(before, snapshot{h.id, h.structuralHash, h.literalHash})
	})

	initTestTree(t, tree, code, lits)

	var after []snapshot
	forEachHeap(tree.Root(), func(_ *Subtree, h *DiffHeap) {
		after = append(after, snapshot{h.id, h.structuralHash, h.literalHash})
	})
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("re-initialization changed node %d: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestLiteralHashSeparation(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	one, codeOne := parseTestTree(t, lang, `(int "1")`)
	two, codeTwo := parseTestTree(t, lang, `(int "2")`)
	ident, codeIdent := parseTestTree(t, lang, `(id "1")`)
	initTestTree(t, one, codeOne, lits)
	initTestTree(t, two, codeTwo, lits)
	initTestTree(t, ident, codeIdent, lits)

	if one.Root().diff.structuralHash != two.Root().diff.structuralHash {
		t.Fatal("literal content must not affect the structural hash")
	}
	if one.Root().diff.literalHash == two.Root().diff.literalHash {
		t.Fatal("differing literal content must change the literal hash")
	}
	if one.Root().diff.structuralHash == ident.Root().diff.structuralHash {
		t.Fatal("differing symbols must change the structural hash")
	}
}

func TestProductionAffectsStructuralHash(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	one, codeOne := parseTestTree(t, lang, `(expr:1 (int "5"))`)
	two, codeTwo := parseTestTree(t, lang, `(expr:2 (int "5"))`)
	initTestTree(t, one, codeOne, lits)
	initTestTree(t, two, codeTwo, lits)

	if one.Root().diff.structuralHash == two.Root().diff.structuralHash {
		t.Fatal("grammar alternatives with identical children must hash apart")
	}
}

func TestLiteralHashQuick(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	symInt := testSymbol(t, lang, "int")

	leafHashes := func(text []byte) ([HashSize]byte, [HashSize]byte) {
		size := Length{Bytes: uint32(len(text)), Column: uint32(len(text))}
		tree := NewTree(NewLeaf(lang, symInt, lengthZero(), size), lang)
		if err := Initialize(tree, text, lits); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		return tree.Root().diff.structuralHash, tree.Root().diff.literalHash
	}

	property := func(a, b []byte) bool {
		structA, litA := leafHashes(a)
		structB, litB := leafHashes(b)
		if structA != structB {
			return false
		}
		sameText := string(a) == string(b)
		return sameText == (litA == litB)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteHeaps(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	tree, code := parseTestTree(t, lang, `(add (int "1") (int "2"))`)
	initTestTree(t, tree, code, lits)

	DeleteHeaps(tree)
	forEachHeap(tree.Root(), func(_ *Subtree, h *DiffHeap) {
		t.Fatalf("heap %s survived deletion", h.id)
	})
}
