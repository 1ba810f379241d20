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

// assignTree commits a mutual pairing between an original and a
// changed subtree. Pairing is symmetric and displaces both the share
// membership and any preemptive hint on either side.
func assignTree(this, that *Subtree) {
	thisHeap, thatHeap := this.diff, that.diff
	thisHeap.assigned = that
	thatHeap.assigned = this
	thisHeap.share = nil
	thatHeap.share = nil
	thisHeap.preemptive = nil
	thatHeap.preemptive = nil
}

// PreemptiveAssign records a tentative pairing between a node of an
// original tree and a node of a changed tree, to be promoted to a real
// pairing by the next diff if both endpoints are reached. Incremental
// parsers seed these hints when they carry diff heaps across reparses.
func PreemptiveAssign(old, changed *Subtree) {
	old.diff.preemptive = changed
	changed.diff.preemptive = old
}

// signaturesEqual reports whether two nodes agree on symbol, child
// count and production id. Equal production ids imply the same field
// layout.
func signaturesEqual(this, that Node) bool {
	return this.Symbol() == that.Symbol() &&
		this.ChildCount() == that.ChildCount() &&
		this.subtree.productionID == that.subtree.productionID
}

// assignShares walks both trees simultaneously in pre-order, giving
// every visited node a share and committing the pairings that are
// already obvious: a carried-over preemptive hint between the two
// sides, or an identical structural hash.
func assignShares(this, that Node, registry *SubtreeRegistry) {
	thisHeap, thatHeap := this.diffHeap(), that.diffHeap()

	if thisHeap.preemptive == that.subtree || thatHeap.preemptive == this.subtree {
		assignTree(this.subtree, that.subtree)
		return
	}

	thisShare := registry.assignShare(this.subtree)
	thatShare := registry.assignShare(that.subtree)
	if thisShare == thatShare {
		assignTree(this.subtree, that.subtree)
		return
	}

	if signaturesEqual(this, that) {
		thisShare.registerAvailable(this.subtree)
		for i := uint32(0); i < this.ChildCount(); i++ {
			assignShares(this.Child(i), that.Child(i), registry)
		}
		return
	}

	// The structures diverge here. Both sides still populate the
	// registry so lower-level reuse across reordered siblings stays
	// possible.
	foreachTreeAssignShareAndRegister(this.subtree, registry)
	foreachSubtreeAssignShare(that.subtree, registry)
}

// foreachTreeAssignShareAndRegister assigns shares to a whole original
// subtree and registers every node as a reuse candidate. Preemptive
// hints are resolved through the registry's incremental table on the
// way down; a resolved hint pairs the subtree whole.
func foreachTreeAssignShareAndRegister(subtree *Subtree, registry *SubtreeRegistry) {
	if counterpart := registry.findIncrementalAssignment(subtree); counterpart != nil {
		assignTree(subtree, counterpart)
		return
	}
	registry.assignShareAndRegister(subtree)
	for _, child := range subtree.children {
		foreachTreeAssignShareAndRegister(child, registry)
	}
}

// foreachTreeAssignShare assigns shares to a whole changed subtree
// without registering anything: changed-tree nodes are queries, not
// candidates.
func foreachTreeAssignShare(subtree *Subtree, registry *SubtreeRegistry) {
	if counterpart := registry.findIncrementalAssignment(subtree); counterpart != nil {
		assignTree(counterpart, subtree)
		return
	}
	registry.assignShare(subtree)
	for _, child := range subtree.children {
		foreachTreeAssignShare(child, registry)
	}
}

// foreachSubtreeAssignShare covers the descendants of a changed node
// whose own share was already assigned by the simultaneous walk.
func foreachSubtreeAssignShare(subtree *Subtree, registry *SubtreeRegistry) {
	for _, child := range subtree.children {
		foreachTreeAssignShare(child, registry)
	}
}

// assignSubtrees pairs the still-unassigned nodes of the changed tree
// with reusable original subtrees, processing candidates tallest-first
// so the largest reuses win. Each height level runs two passes: the
// literal-preferring pass strictly before the structural fallback.
func assignSubtrees(root Node, registry *SubtreeRegistry) {
	queue := newHeightQueue()
	queue.insert(root.subtree)
	tree := root.tree
	for !queue.empty() {
		level := queue.popLevel()
		working := level[:0]
		for _, subtree := range level {
			if subtree.diff.assigned == nil {
				working = append(working, subtree)
			}
		}
		unpaired := selectAvailableTree(working, tree, true, registry)
		unpaired = selectAvailableTree(unpaired, tree, false, registry)
		for _, subtree := range unpaired {
			for _, child := range subtree.children {
				queue.insert(child)
			}
		}
	}
}

// selectAvailableTree runs one take pass over a working set and
// returns the entries that remain unpaired.
func selectAvailableTree(entries []*Subtree, tree *Tree, preferred bool, registry *SubtreeRegistry) []*Subtree {
	remaining := entries[:0]
	for _, subtree := range entries {
		heap := subtree.diff
		if heap.assigned != nil {
			continue
		}
		share := heap.share
		if share == nil {
			remaining = append(remaining, subtree)
			continue
		}
		if available := share.takeAvailable(tree.nodeFor(subtree), preferred, registry); available != nil {
			assignTree(available, subtree)
			continue
		}
		remaining = append(remaining, subtree)
	}
	return remaining
}
