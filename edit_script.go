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
	"strings"
)

// EditScript is the finalized, ordered sequence of edits: all negative
// edits (detach/unload) strictly before all positive ones
// (load/attach/update).
type EditScript struct {
	edits []Edit
}

func (es *EditScript) Len() int {
	return len(es.edits)
}

func (es *EditScript) Edits() []Edit {
	return es.edits
}

// Delete releases the script's storage.
func (es *EditScript) Delete() {
	es.edits = nil
}

// Print writes a human-readable rendering of the script, resolving
// symbol ids through the language.
func (es *EditScript) Print(w io.Writer, lang *Language) error {
	for _, edit := range es.edits {
		if _, err := fmt.Fprintln(w, formatEdit(edit, lang)); err != nil {
			return err
		}
	}
	return nil
}

// Format renders the script to a string.
func (es *EditScript) Format(lang *Language) string {
	var sb strings.Builder
	for _, edit := range es.edits {
		sb.WriteString(formatEdit(edit, lang))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatEdit(edit Edit, lang *Language) string {
	switch e := edit.(type) {
	case Update:
		return fmt.Sprintf("[UPDATE | %s] %s: old literal at %s (%s) => new literal at %s (%s)",
			e.ID, lang.SymbolName(e.Symbol), e.OldStart, e.OldSize, e.NewStart, e.NewSize)
	case Load:
		return fmt.Sprintf("[LOAD | %s] %s%s", e.ID, lang.SymbolName(e.Symbol), formatLoadPayload(e))
	case Attach:
		return fmt.Sprintf("[ATTACH | %s] %s to parent %s of type %s on %s",
			e.ID, lang.SymbolName(e.Symbol), e.ParentID, parentName(e.ParentID, e.ParentSymbol, lang),
			formatSlot(e.IsField, e.FieldID, e.Link, lang))
	case Detach:
		return fmt.Sprintf("[DETACH | %s] %s from parent %s of type %s on %s",
			e.ID, lang.SymbolName(e.Symbol), e.ParentID, parentName(e.ParentID, e.ParentSymbol, lang),
			formatSlot(e.IsField, e.FieldID, e.Link, lang))
	case Unload:
		return fmt.Sprintf("[UNLOAD | %s] %s with %d kids", e.ID, lang.SymbolName(e.Symbol), len(e.Kids))
	case LoadAttach:
		return fmt.Sprintf("[LOAD_ATTACH | %s] %s%s to parent %s of type %s on %s",
			e.ID, lang.SymbolName(e.Symbol), formatLoadPayload(e.Load),
			e.ParentID, parentName(e.ParentID, e.ParentSymbol, lang),
			formatSlot(e.IsField, e.FieldID, e.Link, lang))
	case DetachUnload:
		return fmt.Sprintf("[DETACH_UNLOAD | %s] %s from parent %s of type %s on %s with %d kids",
			e.ID, lang.SymbolName(e.Symbol), e.ParentID, parentName(e.ParentID, e.ParentSymbol, lang),
			formatSlot(e.IsField, e.FieldID, e.Link, lang), len(e.Kids))
	}
	return fmt.Sprintf("[%s]", edit.EditTag())
}

func formatLoadPayload(load Load) string {
	if load.IsLeaf {
		return " (leaf)"
	}
	return fmt.Sprintf(" (%d kids, production %d)", len(load.Kids), load.ProductionID)
}

func parentName(id NodeID, sym Symbol, lang *Language) string {
	if id.IsNil() {
		return "<root>"
	}
	return lang.SymbolName(sym)
}

func formatSlot(isField bool, field FieldID, link uint32, lang *Language) string {
	if isField {
		return fmt.Sprintf("field %s", lang.FieldName(field))
	}
	return fmt.Sprintf("link %d", link)
}
