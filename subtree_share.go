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

// SubtreeShare is the bucket of reusable original subtrees that all
// carry one structural hash. The preferred index by literal hash is
// built lazily on the first preferred lookup.
type SubtreeShare struct {
	available map[NodeID]*Subtree
	order     []NodeID
	preferred map[[HashSize]byte]*Subtree
}

func newSubtreeShare() *SubtreeShare {
	return &SubtreeShare{available: make(map[NodeID]*Subtree)}
}

// registerAvailable makes a subtree takeable through this share.
func (s *SubtreeShare) registerAvailable(subtree *Subtree) {
	heap := subtree.diff
	s.available[heap.id] = subtree
	s.order = append(s.order, heap.id)
	if s.preferred != nil {
		s.preferred[heap.literalHash] = subtree
	}
}

// removeEntry drops a subtree from both indexes. The preferred slot is
// only cleared when it still points at this exact subtree: another
// subtree with the same literal hash may have overwritten it.
func (s *SubtreeShare) removeEntry(subtree *Subtree) {
	heap := subtree.diff
	delete(s.available, heap.id)
	if s.preferred != nil && s.preferred[heap.literalHash] == subtree {
		delete(s.preferred, heap.literalHash)
	}
}

// preferredTrees returns the literal-hash index, building it from the
// available set on first use.
func (s *SubtreeShare) preferredTrees() map[[HashSize]byte]*Subtree {
	if s.preferred == nil {
		s.preferred = make(map[[HashSize]byte]*Subtree, len(s.available))
		for _, id := range s.order {
			if subtree, ok := s.available[id]; ok {
				s.preferred[subtree.diff.literalHash] = subtree
			}
		}
	}
	return s.preferred
}

// anyAvailable returns the oldest registered subtree that is still
// available. Insertion order makes the pick reproducible within a run.
func (s *SubtreeShare) anyAvailable() *Subtree {
	for len(s.order) > 0 {
		id := s.order[0]
		if subtree, ok := s.available[id]; ok {
			return subtree
		}
		s.order = s.order[1:]
	}
	return nil
}

// takeAvailable answers "give me a subtree matching this query". With
// preferred set, the lookup goes through the literal-hash index; the
// fallback pass takes any available subtree. On a hit the whole taken
// subtree is consumed: its descendants leave their shares, and original
// counterparts of assignments the taken tree supersedes become
// available again.
func (s *SubtreeShare) takeAvailable(query Node, preferred bool, registry *SubtreeRegistry) *Subtree {
	var res *Subtree
	if preferred {
		res = s.preferredTrees()[query.diffHeap().literalHash]
	} else {
		res = s.anyAvailable()
	}
	if res == nil {
		return nil
	}
	return s.takeTree(res, query.subtree, registry)
}

func (s *SubtreeShare) takeTree(this, that *Subtree, registry *SubtreeRegistry) *Subtree {
	heap := this.diff
	share := heap.share
	if share == nil {
		panic("treediff: taking a subtree that is not in a share")
	}
	share.removeEntry(this)
	heap.share = nil

	for _, child := range this.children {
		deregisterAvailable(child, registry)
	}
	reassignSupersededCounterparts(that, registry)
	return this
}

// deregisterAvailable removes a subtree (and its descendants) from the
// pool of reuse candidates. A descendant that was already taken as part
// of an earlier, smaller assignment gets that assignment broken and the
// counterpart's subtree assigned shares again (as queries, not as
// available candidates), since the enclosing take now covers it.
func deregisterAvailable(subtree *Subtree, registry *SubtreeRegistry) {
	heap := subtree.diff
	if heap.share != nil {
		heap.share.removeEntry(subtree)
		heap.share = nil
		for _, child := range subtree.children {
			deregisterAvailable(child, registry)
		}
	} else if heap.assigned != nil {
		counterpart := heap.assigned
		heap.assigned = nil
		counterpart.diff.assigned = nil
		foreachTreeAssignShare(counterpart, registry)
	}
}

// reassignSupersededCounterparts walks the changed subtree that is
// about to be covered by a whole-tree reuse and releases the original
// counterparts of any assignments inside it back into their shares.
func reassignSupersededCounterparts(subtree *Subtree, registry *SubtreeRegistry) {
	heap := subtree.diff
	if heap.assigned != nil {
		registry.assignShareAndRegister(heap.assigned)
	}
	for _, child := range subtree.children {
		reassignSupersededCounterparts(child, registry)
	}
}
