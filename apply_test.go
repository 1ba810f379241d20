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
	"fmt"
	"strings"
	"testing"
)

// protoNode is the consumer-side model a script applies to: identity,
// symbol and child links, nothing else.
type protoNode struct {
	id       NodeID
	symbol   Symbol
	children []*protoNode
	parent   *protoNode
}

type scriptModel struct {
	index map[NodeID]*protoNode
	root  *protoNode
}

func modelFromTree(tree *Tree) *scriptModel {
	m := &scriptModel{index: make(map[NodeID]*protoNode)}
	m.root = m.mirror(tree.Root(), nil)
	return m
}

func (m *scriptModel) mirror(s *Subtree, parent *protoNode) *protoNode {
	node := &protoNode{id: s.diff.id, symbol: s.symbol, parent: parent}
	m.index[node.id] = node
	for _, child := range s.children {
		node.children = append(node.children, m.mirror(child, node))
	}
	return node
}

func (m *scriptModel) detach(node *protoNode) {
	if node.parent == nil {
		if m.root == node {
			m.root = nil
		}
		return
	}
	siblings := node.parent.children
	for i, sibling := range siblings {
		if sibling == node {
			node.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	node.parent = nil
}

func (m *scriptModel) attach(node *protoNode, parentID NodeID, link uint32) error {
	if parentID.IsNil() {
		m.root = node
		node.parent = nil
		return nil
	}
	parent, ok := m.index[parentID]
	if !ok {
		return fmt.Errorf("attach below unknown parent %s", parentID)
	}
	at := int(link)
	if at > len(parent.children) {
		at = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[at+1:], parent.children[at:])
	parent.children[at] = node
	node.parent = parent
	return nil
}

func (m *scriptModel) unload(id NodeID, kids []ChildPrototype) error {
	node, ok := m.index[id]
	if !ok {
		return fmt.Errorf("unload of unknown node %s", id)
	}
	if m.root == node {
		m.root = nil
	}
	for _, kid := range kids {
		if child, ok := m.index[kid.ChildID]; ok && child.parent == node {
			child.parent = nil
		}
	}
	delete(m.index, id)
	return nil
}

func (m *scriptModel) load(load Load) error {
	node := &protoNode{id: load.ID, symbol: load.Symbol}
	if !load.IsLeaf {
		for _, kid := range load.Kids {
			child, ok := m.index[kid.ChildID]
			if !ok {
				return fmt.Errorf("load references unknown child %s", kid.ChildID)
			}
			m.detach(child)
			child.parent = node
			node.children = append(node.children, child)
		}
	}
	m.index[load.ID] = node
	return nil
}

func (m *scriptModel) apply(edit Edit) error {
	switch e := edit.(type) {
	case Detach:
		node, ok := m.index[e.ID]
		if !ok {
			return fmt.Errorf("detach of unknown node %s", e.ID)
		}
		m.detach(node)
	case DetachUnload:
		node, ok := m.index[e.ID]
		if !ok {
			return fmt.Errorf("detach of unknown node %s", e.ID)
		}
		m.detach(node)
		return m.unload(e.ID, e.Kids)
	case Unload:
		return m.unload(e.ID, e.Kids)
	case Load:
		return m.load(e)
	case LoadAttach:
		if err := m.load(e.Load); err != nil {
			return err
		}
		return m.attach(m.index[e.ID], e.ParentID, e.Link)
	case Attach:
		node, ok := m.index[e.ID]
		if !ok {
			return fmt.Errorf("attach of unknown node %s", e.ID)
		}
		return m.attach(node, e.ParentID, e.Link)
	case Update:
		if _, ok := m.index[e.ID]; !ok {
			return fmt.Errorf("update of unknown node %s", e.ID)
		}
	}
	return nil
}

func (m *scriptModel) shape(lang *Language) string {
	if m.root == nil {
		return "<empty>"
	}
	return protoShape(m.root, lang)
}

func protoShape(node *protoNode, lang *Language) string {
	if len(node.children) == 0 {
		return lang.SymbolName(node.symbol)
	}
	parts := []string{lang.SymbolName(node.symbol)}
	for _, child := range node.children {
		parts = append(parts, protoShape(child, lang))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// TestScriptRoundTrip replays every emitted script against a model of
// the original tree and checks the model ends up shaped like the
// changed tree, with negative edits strictly before positive ones.
func TestScriptRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct{ name, old, new string }{
		{"identical", `(expr (add (int "1") (int "2")))`, `(expr (add (int "1") (int "2")))`},
		{"literal", `(expr (add (int "1") (int "2")))`, `(expr (add (int "1") (int "3")))`},
		{"swap", `(seq (add (int "1") (int "2")) (sub (int "3") (int "4")))`, `(seq (sub (int "3") (int "4")) (add (int "1") (int "2")))`},
		{"insert", `(seq (add (int "1") (int "2")))`, `(seq (add (int "1") (int "2")) (id "x"))`},
		{"delete", `(seq (add (int "1") (int "2")) (sub (int "3") (int "4")))`, `(seq (add (int "1") (int "2")))`},
		{"production", `(expr:1 (int "5"))`, `(expr:2 (int "5"))`},
		{"wrap", `(seq (add (int "1") (int "2")))`, `(seq (call (add (int "1") (int "2"))))`},
		{"replace", `(add (int "1") (int "2"))`, `(call (id "f"))`},
		{"reorder-and-edit", `(seq (call (id "foo") (args (int "1"))) (add (int "2") (int "3")))`, `(seq (add (int "2") (int "3")) (call (id "bar") (args (int "1"))))`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lang, lits := testLanguage(t)
			oldTree, oldCode := parseTestTree(t, lang, tc.old)
			newTree, newCode := parseTestTree(t, lang, tc.new)
			initTestTree(t, oldTree, oldCode, lits)
			model := modelFromTree(oldTree)

			result, err := CompareTo(oldTree, newTree, oldCode, newCode, lits)
			if err != nil {
				t.Fatalf("CompareTo: %v", err)
			}

			sawPositive := false
			for _, edit := range result.Script.Edits() {
				switch edit.EditTag() {
				case EditDetach, EditUnload, EditDetachUnload:
					if sawPositive {
						t.Fatal("negative edit after a positive one")
					}
				default:
					sawPositive = true
				}
				if err := model.apply(edit); err != nil {
					t.Fatalf("applying %v: %v", edit.EditTag(), err)
				}
			}

			got := model.shape(lang)
			want := shapeOf(newTree.Root(), lang)
			if got != want {
				t.Fatalf("replayed shape %s, want %s\nscript:\n%s", got, want, result.Script.Format(lang))
			}
			if !result.Success {
				t.Fatal("expected success")
			}
		})
	}
}
