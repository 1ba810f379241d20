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

import "testing"

func TestHeightQueueDrainsTallestFirst(t *testing.T) {
	t.Parallel()

	lang, lits := testLanguage(t)
	tree, code := parseTestTree(t, lang, `(seq (add (int "1") (int "2")) (id "x"))`)
	initTestTree(t, tree, code, lits)

	queue := newHeightQueue()
	forEachHeap(tree.Root(), func(s *Subtree, _ *DiffHeap) {
		queue.insert(s)
	})

	var seen []uint32
	for !queue.empty() {
		level := queue.popLevel()
		if len(level) == 0 {
			t.Fatal("popLevel returned an empty batch")
		}
		height := level[0].diff.treeheight
		for _, subtree := range level {
			if subtree.diff.treeheight != height {
				t.Fatalf("batch mixes heights %d and %d", height, subtree.diff.treeheight)
			}
		}
		seen = append(seen, height)
	}
	// seq at height 3, add at 2, the three leaves at 1.
	want := []uint32{3, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("drained %d levels, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("level %d has height %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestHeightQueueEmpty(t *testing.T) {
	t.Parallel()

	queue := newHeightQueue()
	if !queue.empty() {
		t.Fatal("fresh queue must be empty")
	}
	if level := queue.popLevel(); level != nil {
		t.Fatalf("popLevel on an empty queue returned %v", level)
	}
}
