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

import "bytes"

// parentContext describes where a node hangs below its parent: the
// parent's identity and symbol, plus either a positional link or a
// named field. The zero value stands for "no parent" (tree root).
type parentContext struct {
	id      NodeID
	symbol  Symbol
	isField bool
	fieldID FieldID
	link    uint32
}

// diffContext bundles the per-invocation collaborators of the
// edit-script computation.
type diffContext struct {
	buffer  *editScriptBuffer
	oldTree *Tree
	newTree *Tree
	oldCode []byte
	newCode []byte
	lits    *LiteralMap
	lang    *Language
}

// relevant reports whether a node may appear in the emitted script: it
// must be visible, and either named or a declared unnamed token.
func (cx *diffContext) relevant(subtree *Subtree) bool {
	return subtree.visible && (subtree.named || cx.lits.IsUnnamedToken(subtree.symbol))
}

func childContext(parentID NodeID, parent *Subtree, childIndex uint32, lang *Language) parentContext {
	pc := parentContext{id: parentID, symbol: parent.symbol, link: childIndex}
	if field := lang.FieldFor(parent.productionID, childIndex); field != 0 {
		pc.isField = true
		pc.fieldID = field
	}
	return pc
}

func (cx *diffContext) childPrototypes(subtree *Subtree) []ChildPrototype {
	if len(subtree.children) == 0 {
		return nil
	}
	kids := make([]ChildPrototype, 0, len(subtree.children))
	for i, child := range subtree.children {
		proto := ChildPrototype{ChildID: child.diff.id, Link: uint32(i)}
		if field := cx.lang.FieldFor(subtree.productionID, uint32(i)); field != 0 {
			proto.IsField = true
			proto.FieldID = field
			proto.Link = 0
		}
		kids = append(kids, proto)
	}
	return kids
}

func sliceText(code []byte, position, size Length) []byte {
	start := position.Bytes
	end := start + size.Bytes
	if start > uint32(len(code)) {
		return nil
	}
	if end > uint32(len(code)) {
		end = uint32(len(code))
	}
	return code[start:end]
}

// updateLiteralsSubtree refreshes one kept node against its changed
// counterpart: an UPDATE is emitted iff the symbol is a declared
// literal and the text bytes differ; padding and size are rewritten in
// place whenever they changed, the has-changes bit is cleared, and the
// node's position moves to the changed tree's layout.
func (cx *diffContext) updateLiteralsSubtree(self, other *Subtree) {
	selfHeap, otherHeap := self.diff, other.diff
	oldPosition := selfHeap.position
	newPosition := otherHeap.position
	isLiteral := cx.lits.IsLiteral(self.symbol) && cx.lits.IsLiteral(other.symbol)
	if isLiteral {
		oldText := sliceText(cx.oldCode, oldPosition, self.size)
		newText := sliceText(cx.newCode, newPosition, other.size)
		if self.size.Bytes != other.size.Bytes || !bytes.Equal(oldText, newText) {
			cx.buffer.add(Update{
				ID:       selfHeap.id,
				Symbol:   self.symbol,
				OldStart: oldPosition,
				OldSize:  self.size,
				NewStart: newPosition,
				NewSize:  other.size,
			})
		}
	}
	if !lengthEqual(self.size, other.size) || !lengthEqual(self.padding, other.padding) {
		self.setPadding(other.padding)
		self.setSize(other.size)
	}
	self.hasChanges = false
	selfHeap.position = newPosition
	selfHeap.share = nil
	selfHeap.retain()
}

// updateLiteralsWalk applies the literal refresh positionally over a
// kept subtree and its counterpart.
func (cx *diffContext) updateLiteralsWalk(self, other *Subtree) {
	cx.updateLiteralsSubtree(self, other)
	count := len(self.children)
	if len(other.children) < count {
		count = len(other.children)
	}
	for i := 0; i < count; i++ {
		cx.updateLiteralsWalk(self.children[i], other.children[i])
	}
}

// computeEditScript transforms the original subtree at self into the
// changed subtree at other, emitting edits and returning the
// reconstructed subtree.
func (cx *diffContext) computeEditScript(self, other Node, parent parentContext) (*Subtree, error) {
	selfHeap := self.diffHeap()
	otherHeap := other.diffHeap()

	if selfHeap.assigned != nil && selfHeap.assigned.diff.id == otherHeap.id {
		// The assignment phases paired these two whole subtrees. The
		// pairing is consumed here.
		cx.updateLiteralsWalk(self.subtree, other.subtree)
		selfHeap.assigned = nil
		self.subtree.retain()
		return self.subtree, nil
	}

	if selfHeap.assigned == nil && otherHeap.assigned == nil {
		reconstructed, err := cx.computeEditScriptRecurse(self, other)
		if err != nil {
			return nil, err
		}
		if reconstructed != nil {
			return reconstructed, nil
		}
	}

	detached := cx.emitDetach(self, parent)
	cx.unloadUnassigned(self, parent, detached)
	reconstructed, err := cx.loadUnassigned(other)
	if err != nil {
		return nil, err
	}
	cx.emitAttach(reconstructed, parent)
	return reconstructed, nil
}

// computeEditScriptRecurse keeps the original node's identity when
// symbol and production agree, recursing pairwise over the common
// children. Surplus original children are detached and unloaded,
// surplus changed children are loaded and attached, so a parent
// survives pure insertions and deletions below it.
func (cx *diffContext) computeEditScriptRecurse(self, other Node) (*Subtree, error) {
	if self.Symbol() != other.Symbol() || self.subtree.productionID != other.subtree.productionID {
		return nil, nil
	}

	heap := self.subtree.diff
	heap.retain()
	oldPosition := heap.position

	hc, err := newHashContexts(other, cx.lits, cx.newCode)
	if err != nil {
		return nil, err
	}

	selfCount := self.ChildCount()
	otherCount := other.ChildCount()
	common := selfCount
	if otherCount < common {
		common = otherCount
	}

	kids := make([]*Subtree, 0, otherCount)
	var treeSize, treeHeight uint32
	for i := uint32(0); i < common; i++ {
		kid, err := cx.computeEditScript(self.Child(i), other.Child(i), childContext(heap.id, self.subtree, i, cx.lang))
		if err != nil {
			return nil, err
		}
		if err := hc.absorbChild(kid.diff); err != nil {
			return nil, err
		}
		treeSize += kid.diff.treesize
		treeHeight = max32(treeHeight, kid.diff.treeheight)
		kids = append(kids, kid)
	}
	for i := common; i < selfCount; i++ {
		child := self.Child(i)
		pc := childContext(heap.id, self.subtree, i, cx.lang)
		detached := cx.emitDetach(child, pc)
		cx.unloadUnassigned(child, pc, detached)
	}
	for i := common; i < otherCount; i++ {
		kid, err := cx.loadUnassigned(other.Child(i))
		if err != nil {
			return nil, err
		}
		cx.emitAttach(kid, childContext(heap.id, other.subtree, i, cx.lang))
		if err := hc.absorbChild(kid.diff); err != nil {
			return nil, err
		}
		treeSize += kid.diff.treesize
		treeHeight = max32(treeHeight, kid.diff.treeheight)
		kids = append(kids, kid)
	}

	var reconstructed *Subtree
	if otherCount == 0 {
		if cx.lits.IsLiteral(self.Symbol()) {
			oldText := sliceText(cx.oldCode, oldPosition, self.subtree.size)
			newText := sliceText(cx.newCode, other.diffHeap().position, other.subtree.size)
			if self.subtree.size.Bytes != other.subtree.size.Bytes || !bytes.Equal(oldText, newText) {
				cx.buffer.add(Update{
					ID:       heap.id,
					Symbol:   self.Symbol(),
					OldStart: oldPosition,
					OldSize:  self.subtree.size,
					NewStart: other.diffHeap().position,
					NewSize:  other.subtree.size,
				})
			}
		}
		reconstructed = copyLeaf(cx.lang, other.subtree)
	} else {
		reconstructed = NewNode(cx.lang, other.Symbol(), other.subtree.productionID, kids)
	}

	hc.finalize(heap)
	heap.treesize = 1 + treeSize
	heap.treeheight = 1 + treeHeight
	heap.position = other.diffHeap().position
	heap.assigned = nil
	heap.share = nil
	reconstructed.diff = heap
	return reconstructed, nil
}

// emitDetach emits the DETACH for a relevant node and reports whether
// it did. Irrelevant nodes never surface; their reused descendants get
// deferred detaches from the unload walk instead.
func (cx *diffContext) emitDetach(self Node, parent parentContext) bool {
	if !cx.relevant(self.subtree) {
		return false
	}
	cx.buffer.add(Detach{
		ID:           self.diffHeap().id,
		Symbol:       self.Symbol(),
		ParentID:     parent.id,
		ParentSymbol: parent.symbol,
		IsField:      parent.isField,
		FieldID:      parent.fieldID,
		Link:         parent.link,
	})
	return true
}

// unloadUnassigned discards every descendant of a replaced subtree
// that found no reuse. A reused descendant is left alone except for a
// deferred DETACH when no enclosing detach covered it.
func (cx *diffContext) unloadUnassigned(self Node, parent parentContext, enclosingDetached bool) {
	heap := self.diffHeap()
	if heap.assigned != nil {
		if !enclosingDetached && cx.relevant(self.subtree) {
			cx.buffer.add(Detach{
				ID:           heap.id,
				Symbol:       self.Symbol(),
				ParentID:     parent.id,
				ParentSymbol: parent.symbol,
				IsField:      parent.isField,
				FieldID:      parent.fieldID,
				Link:         parent.link,
			})
		}
		heap.assigned = nil
		return
	}
	cx.buffer.add(Unload{
		ID:     heap.id,
		Symbol: self.Symbol(),
		Kids:   cx.childPrototypes(self.subtree),
	})
	self.subtree.release()
	for i := uint32(0); i < self.ChildCount(); i++ {
		cx.unloadUnassigned(self.Child(i), childContext(heap.id, self.subtree, i, cx.lang), enclosingDetached)
	}
}

// loadUnassigned builds the reconstructed subtree for a changed node.
// Reused nodes come back with refreshed literals; everything else loads
// under a fresh identity, children before parents so an attach of the
// finished root can fuse with its load.
func (cx *diffContext) loadUnassigned(other Node) (*Subtree, error) {
	heap := other.diffHeap()
	if heap.assigned != nil {
		assigned := heap.assigned
		cx.updateLiteralsWalk(assigned, other.subtree)
		assigned.retain()
		return assigned, nil
	}

	newHeap := newDiffHeapWithID(heap.position, newNodeID())
	hc, err := newHashContexts(other, cx.lits, cx.newCode)
	if err != nil {
		return nil, err
	}

	count := other.ChildCount()
	if count > 0 {
		kids := make([]*Subtree, 0, count)
		protos := make([]ChildPrototype, 0, count)
		var treeSize, treeHeight uint32
		for i := uint32(0); i < count; i++ {
			kid, err := cx.loadUnassigned(other.Child(i))
			if err != nil {
				return nil, err
			}
			proto := ChildPrototype{ChildID: kid.diff.id, Link: i}
			if field := cx.lang.FieldFor(other.subtree.productionID, i); field != 0 {
				proto.IsField = true
				proto.FieldID = field
				proto.Link = 0
			}
			protos = append(protos, proto)
			if err := hc.absorbChild(kid.diff); err != nil {
				return nil, err
			}
			treeSize += kid.diff.treesize
			treeHeight = max32(treeHeight, kid.diff.treeheight)
			kids = append(kids, kid)
		}
		hc.finalize(newHeap)
		newHeap.treesize = 1 + treeSize
		newHeap.treeheight = 1 + treeHeight
		reconstructed := NewNode(cx.lang, other.Symbol(), other.subtree.productionID, kids)
		reconstructed.diff = newHeap
		cx.buffer.add(Load{
			ID:           newHeap.id,
			Symbol:       other.Symbol(),
			Kids:         protos,
			ProductionID: other.subtree.productionID,
		})
		return reconstructed, nil
	}

	hc.finalize(newHeap)
	newHeap.treesize = 1
	newHeap.treeheight = 1
	leaf := copyLeaf(cx.lang, other.subtree)
	leaf.diff = newHeap
	load := Load{
		ID:     newHeap.id,
		Symbol: other.Symbol(),
		IsLeaf: true,
		Leaf: &LoadLeaf{
			Padding:           other.subtree.padding,
			Size:              other.subtree.size,
			LookaheadBytes:    other.subtree.lookaheadBytes,
			ParseState:        other.subtree.parseState,
			HasExternalTokens: other.subtree.hasExternalTokens,
			DependsOnColumn:   other.subtree.dependsOnColumn,
			IsKeyword:         other.subtree.isKeyword,
		},
	}
	if other.subtree.hasExternalTokens {
		load.Leaf.ExternalScannerState = append([]byte(nil), other.subtree.externalScannerState...)
	}
	if other.subtree.dependsOnColumn {
		load.Leaf.LookaheadChar = other.subtree.lookaheadChar
	}
	cx.buffer.add(load)
	return leaf, nil
}

// emitAttach attaches a reconstructed subtree into its parent context,
// cascading one level down to the relevant children when the root
// itself may not surface.
func (cx *diffContext) emitAttach(reconstructed *Subtree, parent parentContext) {
	if cx.relevant(reconstructed) {
		cx.buffer.add(Attach{
			ID:           reconstructed.diff.id,
			Symbol:       reconstructed.symbol,
			ParentID:     parent.id,
			ParentSymbol: parent.symbol,
			IsField:      parent.isField,
			FieldID:      parent.fieldID,
			Link:         parent.link,
		})
		return
	}
	for _, child := range reconstructed.children {
		if cx.relevant(child) {
			cx.buffer.add(Attach{
				ID:           child.diff.id,
				Symbol:       child.symbol,
				ParentID:     parent.id,
				ParentSymbol: parent.symbol,
				IsField:      parent.isField,
				FieldID:      parent.fieldID,
				Link:         parent.link,
			})
		}
	}
}

// copyLeaf clones a leaf's storage without its diff heap.
func copyLeaf(lang *Language, src *Subtree) *Subtree {
	leaf := NewLeaf(lang, src.symbol, src.padding, src.size)
	leaf.parseState = src.parseState
	leaf.lookaheadBytes = src.lookaheadBytes
	leaf.lookaheadChar = src.lookaheadChar
	leaf.extra = src.extra
	leaf.isError = src.isError
	leaf.isKeyword = src.isKeyword
	leaf.dependsOnColumn = src.dependsOnColumn
	leaf.hasExternalTokens = src.hasExternalTokens
	leaf.externalScannerState = append([]byte(nil), src.externalScannerState...)
	return leaf
}
