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

import "fmt"

type (
	// Symbol identifies a grammar symbol.
	Symbol uint16

	// FieldID identifies a named field of a production. Zero means
	// "no field".
	FieldID uint16

	// StateID is an opaque parse state carried on leaves.
	StateID uint16
)

// SymbolMetadata classifies a grammar symbol.
type SymbolMetadata struct {
	Visible bool
	Named   bool
}

type fieldKey struct {
	production uint16
	childIndex uint32
}

// Language is the grammar table the differ consults: symbol names and
// classification, field names, and the map from (production id, child
// index) to field id.
type Language struct {
	name        string
	symbolNames []string
	metadata    []SymbolMetadata
	fieldNames  []string
	fields      map[fieldKey]FieldID
}

// NewLanguage creates an empty grammar table. Symbol 0 is reserved and
// pre-registered as an invisible end marker, field names start at id 1.
func NewLanguage(name string) *Language {
	return &Language{
		name:        name,
		symbolNames: []string{"end"},
		metadata:    []SymbolMetadata{{}},
		fieldNames:  []string{""},
		fields:      make(map[fieldKey]FieldID),
	}
}

func (l *Language) Name() string {
	return l.name
}

// AddSymbol registers a grammar symbol and returns its id.
func (l *Language) AddSymbol(name string, meta SymbolMetadata) Symbol {
	l.symbolNames = append(l.symbolNames, name)
	l.metadata = append(l.metadata, meta)
	return Symbol(len(l.symbolNames) - 1)
}

// AddField registers a field name and returns its id.
func (l *Language) AddField(name string) FieldID {
	l.fieldNames = append(l.fieldNames, name)
	return FieldID(len(l.fieldNames) - 1)
}

// MapField declares that the given child slot of a production carries
// the given field.
func (l *Language) MapField(production uint16, childIndex uint32, field FieldID) {
	l.fields[fieldKey{production, childIndex}] = field
}

func (l *Language) SymbolCount() uint32 {
	return uint32(len(l.symbolNames))
}

// SymbolName panics on an unknown symbol: an id outside the table is a
// contract violation of the caller, not an input error.
func (l *Language) SymbolName(sym Symbol) string {
	if int(sym) >= len(l.symbolNames) {
		panic(fmt.Sprintf("treediff: unknown symbol %d in language %q", sym, l.name))
	}
	return l.symbolNames[sym]
}

func (l *Language) SymbolMetadata(sym Symbol) SymbolMetadata {
	if int(sym) >= len(l.metadata) {
		panic(fmt.Sprintf("treediff: unknown symbol %d in language %q", sym, l.name))
	}
	return l.metadata[sym]
}

func (l *Language) FieldName(field FieldID) string {
	if int(field) >= len(l.fieldNames) {
		panic(fmt.Sprintf("treediff: unknown field %d in language %q", field, l.name))
	}
	return l.fieldNames[field]
}

// FieldFor returns the field carried by the given child slot of a
// production, or zero if the slot is unnamed.
func (l *Language) FieldFor(production uint16, childIndex uint32) FieldID {
	return l.fields[fieldKey{production, childIndex}]
}

// SymbolForName resolves a symbol by its grammar name.
func (l *Language) SymbolForName(name string) (Symbol, bool) {
	for i, candidate := range l.symbolNames {
		if candidate == name {
			return Symbol(i), true
		}
	}
	return 0, false
}
