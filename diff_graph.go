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
	"io"
	"strconv"

	"github.com/emicklei/dot"
)

// diffGraphColors is the palette cycled through when coloring paired
// nodes.
var diffGraphColors = [63][3]uint8{
	{213, 255, 0}, {255, 0, 86}, {158, 0, 142}, {14, 76, 161}, {255, 229, 2},
	{0, 95, 57}, {0, 255, 0}, {149, 0, 58}, {255, 147, 126}, {164, 36, 0},
	{0, 21, 68}, {145, 208, 203}, {98, 14, 0}, {107, 104, 130}, {0, 0, 255},
	{0, 125, 181}, {106, 130, 108}, {0, 174, 126}, {194, 140, 159}, {190, 153, 112},
	{0, 143, 156}, {95, 173, 78}, {255, 0, 0}, {255, 0, 246}, {255, 2, 157},
	{104, 61, 59}, {255, 116, 163}, {150, 138, 232}, {152, 255, 82}, {167, 87, 64},
	{1, 255, 254}, {255, 238, 232}, {254, 137, 0}, {189, 198, 255}, {1, 208, 255},
	{187, 136, 0}, {117, 68, 177}, {165, 255, 210}, {255, 166, 254}, {119, 77, 0},
	{122, 71, 130}, {38, 52, 0}, {0, 71, 84}, {67, 0, 44}, {181, 0, 255},
	{255, 177, 103}, {255, 219, 102}, {144, 251, 146}, {126, 45, 210}, {189, 211, 147},
	{229, 111, 254}, {222, 255, 116}, {0, 255, 120}, {0, 155, 255}, {0, 100, 1},
	{0, 118, 255}, {133, 169, 0}, {0, 185, 23}, {120, 130, 49}, {0, 255, 198},
	{255, 110, 65}, {232, 94, 190}, {1, 0, 103},
}

type colorMapping struct {
	color int
	one   NodeID
	two   NodeID
}

type colorTable struct {
	mappings []colorMapping
	next     int
}

// find returns the palette index reserved for a pairing endpoint and
// consumes the reservation, so the second tree's pass picks up the
// color the first pass allocated.
func (t *colorTable) find(id NodeID) (int, bool) {
	for i, mapping := range t.mappings {
		if mapping.one == id || mapping.two == id {
			t.mappings = append(t.mappings[:i], t.mappings[i+1:]...)
			return mapping.color, true
		}
	}
	return -1, false
}

func (t *colorTable) allocate(one, two NodeID) int {
	color := t.next % len(diffGraphColors)
	t.next++
	t.mappings = append(t.mappings, colorMapping{color: color, one: one, two: two})
	return color
}

// TreeDiffGraph writes a DOT document visualizing the assignment the
// two phases produced: one digraph per tree, one node per tree node
// labeled with its symbol name, leaves rendered plaintext, and paired
// nodes across the two trees filled with the same color.
func TreeDiffGraph(self, other Node, lang *Language, w io.Writer) error {
	table := &colorTable{}
	for _, root := range []Node{self, other} {
		g := dot.NewGraph(dot.Directed)
		g.EdgeInitializer(func(e dot.Edge) {
			e.Attr("arrowhead", "none")
		})
		writeDiffGraphNode(g, root, lang, -1, table)
		if _, err := fmt.Fprintln(w, g.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeDiffGraphNode(g *dot.Graph, node Node, lang *Language, color int, table *colorTable) dot.Node {
	heap := node.diffHeap()
	gn := g.Node("tree_" + heap.id.String()).Label(lang.SymbolName(node.Symbol()))
	gn.Attr("id", "tree_"+heap.id.String())
	if node.ChildCount() == 0 {
		gn.Attr("shape", "plaintext")
	}
	if color < 0 && heap.assigned != nil {
		assignedHeap := heap.assigned.diff
		if found, ok := table.find(heap.id); ok {
			color = found
		} else if found, ok := table.find(assignedHeap.id); ok {
			color = found
		} else {
			color = table.allocate(heap.id, assignedHeap.id)
		}
	}
	if color >= 0 {
		rgb := diffGraphColors[color]
		gn.Attr("style", "filled")
		gn.Attr("fillcolor", fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]))
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := writeDiffGraphNode(g, node.Child(i), lang, color, table)
		g.Edge(gn, child).Attr("tooltip", strconv.FormatUint(uint64(i), 10))
	}
	return gn
}
