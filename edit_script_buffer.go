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

// editScriptBuffer collects edits into a negative and a positive
// sequence, fusing adjacent pairs that address the same node:
// a LOAD directly followed by the ATTACH of the same id becomes
// LOAD_ATTACH, a DETACH directly followed by the UNLOAD of the same id
// becomes DETACH_UNLOAD. Finalization is negative ++ positive.
type editScriptBuffer struct {
	negative []Edit
	positive []Edit
}

func newEditScriptBuffer() *editScriptBuffer {
	return &editScriptBuffer{}
}

func (b *editScriptBuffer) add(edit Edit) {
	switch e := edit.(type) {
	case Update, Load, LoadAttach:
		b.positive = append(b.positive, e)
	case Attach:
		if n := len(b.positive); n > 0 {
			if load, ok := b.positive[n-1].(Load); ok && load.ID == e.ID {
				b.positive[n-1] = LoadAttach{
					Load:         load,
					ParentID:     e.ParentID,
					ParentSymbol: e.ParentSymbol,
					IsField:      e.IsField,
					FieldID:      e.FieldID,
					Link:         e.Link,
				}
				return
			}
		}
		b.positive = append(b.positive, e)
	case Detach, DetachUnload:
		b.negative = append(b.negative, e)
	case Unload:
		if n := len(b.negative); n > 0 {
			if detach, ok := b.negative[n-1].(Detach); ok && detach.ID == e.ID {
				b.negative[n-1] = DetachUnload{Detach: detach, Kids: e.Kids}
				return
			}
		}
		b.negative = append(b.negative, e)
	}
}

func (b *editScriptBuffer) finalize() *EditScript {
	edits := make([]Edit, 0, len(b.negative)+len(b.positive))
	edits = append(edits, b.negative...)
	edits = append(edits, b.positive...)
	b.negative = nil
	b.positive = nil
	return &EditScript{edits: edits}
}
