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

// TreeCursor walks a tree through all of its children, including
// invisible and extra ones. The stock cursor of a parse-tree library
// skips invisible nodes, which loses the structure the differ hashes,
// so the differ carries its own.
type TreeCursor struct {
	tree  *Tree
	stack []cursorEntry
}

type cursorEntry struct {
	subtree    *Subtree
	position   Length
	childIndex uint32
}

// NewTreeCursor starts a cursor at the given node.
func NewTreeCursor(node Node) *TreeCursor {
	return &TreeCursor{
		tree: node.tree,
		stack: []cursorEntry{{
			subtree:  node.subtree,
			position: node.position,
		}},
	}
}

// CurrentNode returns the node the cursor points at.
func (c *TreeCursor) CurrentNode() Node {
	top := c.stack[len(c.stack)-1]
	return Node{position: top.position, subtree: top.subtree, tree: c.tree}
}

// GotoFirstChild descends to the current node's first child, invisible
// children included. Returns false on a leaf.
func (c *TreeCursor) GotoFirstChild() bool {
	top := &c.stack[len(c.stack)-1]
	if top.subtree.ChildCount() == 0 {
		return false
	}
	top.childIndex = 0
	c.stack = append(c.stack, cursorEntry{
		subtree:  top.subtree.children[0],
		position: top.position,
	})
	return true
}

// GotoNextSibling moves to the next sibling of the current node.
// Returns false on the last sibling.
func (c *TreeCursor) GotoNextSibling() bool {
	if len(c.stack) < 2 {
		return false
	}
	parent := &c.stack[len(c.stack)-2]
	current := c.stack[len(c.stack)-1]
	next := parent.childIndex + 1
	if next >= parent.subtree.ChildCount() {
		return false
	}
	position := lengthAdd(current.position, current.subtree.size)
	sibling := parent.subtree.children[next]
	position = lengthAdd(position, sibling.padding)
	parent.childIndex = next
	c.stack[len(c.stack)-1] = cursorEntry{subtree: sibling, position: position}
	return true
}

// GotoParent pops back to the current node's parent. Returns false at
// the cursor's starting node.
func (c *TreeCursor) GotoParent() bool {
	if len(c.stack) < 2 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}
