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

// SubtreeRegistry maps structural hashes to shares for the duration of
// one diff. It also carries the table of preemptive pairings that wait
// for their counterpart to be reached.
type SubtreeRegistry struct {
	shares      map[[HashSize]byte]*SubtreeShare
	incremental map[NodeID]*Subtree
}

func newSubtreeRegistry() *SubtreeRegistry {
	return &SubtreeRegistry{
		shares:      make(map[[HashSize]byte]*SubtreeShare),
		incremental: make(map[NodeID]*Subtree),
	}
}

// assignShare finds or creates the share for the subtree's structural
// hash, points the subtree at it, and clears any previous assignment.
func (r *SubtreeRegistry) assignShare(subtree *Subtree) *SubtreeShare {
	heap := subtree.diff
	heap.assigned = nil
	share, ok := r.shares[heap.structuralHash]
	if !ok {
		share = newSubtreeShare()
		r.shares[heap.structuralHash] = share
	}
	heap.share = share
	return share
}

// assignShareAndRegister additionally makes the subtree available as a
// reuse candidate.
func (r *SubtreeRegistry) assignShareAndRegister(subtree *Subtree) *SubtreeShare {
	share := r.assignShare(subtree)
	share.registerAvailable(subtree)
	return share
}

// findIncrementalAssignment resolves a preemptive-assignment hint. If
// the counterpart already announced itself, both table entries are
// removed and the counterpart is returned; otherwise this subtree is
// recorded for the counterpart to find.
func (r *SubtreeRegistry) findIncrementalAssignment(subtree *Subtree) *Subtree {
	heap := subtree.diff
	if heap.preemptive == nil {
		return nil
	}
	counterpart := heap.preemptive
	if waiting, ok := r.incremental[counterpart.diff.id]; ok && waiting == counterpart {
		delete(r.incremental, counterpart.diff.id)
		delete(r.incremental, heap.id)
		return counterpart
	}
	r.incremental[heap.id] = subtree
	return nil
}
