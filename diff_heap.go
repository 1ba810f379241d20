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
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"sync/atomic"

	"github.com/google/uuid"
)

// HashSize is the width of the structural and literal hashes.
const HashSize = sha256.Size

// NodeID is the globally unique identity of a logical tree node. It is
// preserved across edits whenever a node is reused; freshly loaded
// nodes receive fresh identities.
type NodeID uuid.UUID

func newNodeID() NodeID {
	return NodeID(uuid.New())
}

func (id NodeID) IsNil() bool {
	return id == NodeID(uuid.Nil)
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// DiffHeap carries the per-node metadata of the differ. Every node of
// an initialized tree points at exactly one DiffHeap; the heap survives
// into the reconstructed tree when the node is reused.
type DiffHeap struct {
	id             NodeID
	structuralHash [HashSize]byte
	literalHash    [HashSize]byte

	treesize   uint32
	treeheight uint32

	position Length

	share      *SubtreeShare
	assigned   *Subtree
	preemptive *Subtree

	// refCount is independent of the subtree storage's own count: it
	// governs when the heap itself is released, and stays atomic
	// because the host library may share nodes across threads later.
	refCount atomic.Int32
}

func newDiffHeap(position Length) *DiffHeap {
	return newDiffHeapWithID(position, newNodeID())
}

func newDiffHeapWithID(position Length, id NodeID) *DiffHeap {
	heap := &DiffHeap{id: id, position: position}
	heap.refCount.Store(1)
	return heap
}

func (h *DiffHeap) ID() NodeID                   { return h.id }
func (h *DiffHeap) StructuralHash() [HashSize]byte { return h.structuralHash }
func (h *DiffHeap) LiteralHash() [HashSize]byte  { return h.literalHash }
func (h *DiffHeap) TreeSize() uint32             { return h.treesize }
func (h *DiffHeap) TreeHeight() uint32           { return h.treeheight }
func (h *DiffHeap) Position() Length             { return h.position }

func (h *DiffHeap) retain() {
	h.refCount.Add(1)
}

func (h *DiffHeap) release() int32 {
	return h.refCount.Add(-1)
}

// hashContexts accumulates the two per-node digests in parallel: the
// structural digest absorbs symbol, production id and the children's
// structural hashes; the literal digest absorbs the node's text iff its
// symbol is a declared literal, then the children's literal hashes.
type hashContexts struct {
	structural hash.Hash
	literal    hash.Hash
}

func newHashContexts(node Node, lits *LiteralMap, code []byte) (*hashContexts, error) {
	hc := &hashContexts{structural: sha256.New(), literal: sha256.New()}
	var header [4]byte
	binary.LittleEndian.PutUint16(header[0:2], uint16(node.Symbol()))
	binary.LittleEndian.PutUint16(header[2:4], node.subtree.productionID)
	if _, err := hc.structural.Write(header[:]); err != nil {
		return nil, fmt.Errorf("hash node header: %w", err)
	}
	if lits.IsLiteral(node.Symbol()) {
		if _, err := hc.literal.Write(node.text(code)); err != nil {
			return nil, fmt.Errorf("hash literal text: %w", err)
		}
	}
	return hc, nil
}

func (hc *hashContexts) absorbChild(child *DiffHeap) error {
	if _, err := hc.structural.Write(child.structuralHash[:]); err != nil {
		return fmt.Errorf("hash child structural digest: %w", err)
	}
	if _, err := hc.literal.Write(child.literalHash[:]); err != nil {
		return fmt.Errorf("hash child literal digest: %w", err)
	}
	return nil
}

func (hc *hashContexts) finalize(heap *DiffHeap) {
	copy(heap.structuralHash[:], hc.structural.Sum(nil))
	copy(heap.literalHash[:], hc.literal.Sum(nil))
}

// Initialize attaches a DiffHeap to every node of the tree, depth-first
// post-order. Re-initializing an already-initialized tree only
// refreshes node positions; hashes, sizes and identities are kept.
// Hash-primitive failures abort the whole initialization.
func Initialize(tree *Tree, code []byte, lits *LiteralMap) error {
	cursor := NewTreeCursor(tree.RootNode())
	if _, err := initializeSubtree(cursor, code, lits); err != nil {
		Logger.Error().Err(err).Msg("hash primitive failure during initialization")
		return err
	}
	return nil
}

func initializeSubtree(cursor *TreeCursor, code []byte, lits *LiteralMap) (*DiffHeap, error) {
	node := cursor.CurrentNode()
	subtree := node.subtree

	if subtree.diff != nil {
		subtree.diff.position = node.position
		if cursor.GotoFirstChild() {
			if _, err := initializeSubtree(cursor, code, lits); err != nil {
				return nil, err
			}
			for cursor.GotoNextSibling() {
				if _, err := initializeSubtree(cursor, code, lits); err != nil {
					return nil, err
				}
			}
			cursor.GotoParent()
		}
		return subtree.diff, nil
	}

	heap := newDiffHeap(node.position)
	hc, err := newHashContexts(node, lits, code)
	if err != nil {
		return nil, err
	}
	var treeHeight, treeSize uint32
	if cursor.GotoFirstChild() {
		childHeap, err := initializeSubtree(cursor, code, lits)
		if err != nil {
			return nil, err
		}
		treeHeight = max32(treeHeight, childHeap.treeheight)
		treeSize += childHeap.treesize
		if err := hc.absorbChild(childHeap); err != nil {
			return nil, err
		}
		for cursor.GotoNextSibling() {
			childHeap, err = initializeSubtree(cursor, code, lits)
			if err != nil {
				return nil, err
			}
			treeHeight = max32(treeHeight, childHeap.treeheight)
			treeSize += childHeap.treesize
			if err := hc.absorbChild(childHeap); err != nil {
				return nil, err
			}
		}
		cursor.GotoParent()
	}
	heap.treesize = 1 + treeSize
	heap.treeheight = 1 + treeHeight
	hc.finalize(heap)
	subtree.diff = heap
	return heap, nil
}

// DeleteHeaps drops the heaps of a tree, decrementing their reference
// counts; a heap detaches from its node once the count crosses zero.
func DeleteHeaps(tree *Tree) {
	deleteHeapsSubtree(NewTreeCursor(tree.RootNode()))
}

func deleteHeapsSubtree(cursor *TreeCursor) {
	subtree := cursor.CurrentNode().subtree
	if subtree.diff != nil && subtree.diff.release() <= 0 {
		subtree.diff = nil
	}
	if cursor.GotoFirstChild() {
		deleteHeapsSubtree(cursor)
		for cursor.GotoNextSibling() {
			deleteHeapsSubtree(cursor)
		}
		cursor.GotoParent()
	}
}

func hashEqual(a, b [HashSize]byte) bool {
	return a == b
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
