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

// Package treediff computes minimal edit scripts between two parse
// trees of the same grammar, reusing as much of the original tree's
// storage as possible. Node identities survive edits whenever the
// structural (and preferably literal) content is reused.
package treediff

import (
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
)

var errLanguageMismatch = errors.New("treediff: trees belong to different languages")

// DiffResult is the outcome of one diff invocation. Success reports
// whether the reconstructed root's structural hash matches the changed
// tree's; on a mismatch the script is still returned for inspection
// and only well-formedness is guaranteed.
type DiffResult struct {
	Tree    *Tree
	Script  *EditScript
	Success bool
}

// CompareTo runs the diff pipeline: initialize both trees, assign
// shares, assign subtrees, compute the edit script. The two trees are
// independent storages, so their initialization runs concurrently;
// everything after is single-threaded and owns both trees exclusively.
func CompareTo(oldTree, newTree *Tree, oldCode, newCode []byte, lits *LiteralMap) (DiffResult, error) {
	return compareTo(oldTree, newTree, oldCode, newCode, lits, nil)
}

// CompareToWithGraph additionally writes the DOT visualization of the
// assignment the two phases produced, before the script is computed.
func CompareToWithGraph(oldTree, newTree *Tree, oldCode, newCode []byte, lits *LiteralMap, w io.Writer) (DiffResult, error) {
	return compareTo(oldTree, newTree, oldCode, newCode, lits, w)
}

func compareTo(oldTree, newTree *Tree, oldCode, newCode []byte, lits *LiteralMap, graph io.Writer) (DiffResult, error) {
	if oldTree.lang != newTree.lang {
		return DiffResult{}, errLanguageMismatch
	}

	var g errgroup.Group
	g.Go(func() error { return Initialize(oldTree, oldCode, lits) })
	g.Go(func() error { return Initialize(newTree, newCode, lits) })
	if err := g.Wait(); err != nil {
		return DiffResult{}, err
	}

	self := oldTree.RootNode()
	other := newTree.RootNode()

	registry := newSubtreeRegistry()
	assignShares(self, other, registry)
	assignSubtrees(other, registry)

	if graph != nil {
		if err := TreeDiffGraph(self, other, oldTree.lang, graph); err != nil {
			return DiffResult{}, err
		}
	}

	cx := &diffContext{
		buffer:  newEditScriptBuffer(),
		oldTree: oldTree,
		newTree: newTree,
		oldCode: oldCode,
		newCode: newCode,
		lits:    lits,
		lang:    oldTree.lang,
	}
	reconstructed, err := cx.computeEditScript(self, other, parentContext{})
	if err != nil {
		return DiffResult{}, err
	}
	script := cx.buffer.finalize()

	result := DiffResult{
		Tree:    NewTree(reconstructed, oldTree.lang),
		Script:  script,
		Success: hashEqual(reconstructed.diff.structuralHash, other.diffHeap().structuralHash),
	}
	if !result.Success {
		Logger.Warn().
			Int("edits", script.Len()).
			Msg("reconstructed tree diverges from changed tree")
	}
	return result, nil
}
