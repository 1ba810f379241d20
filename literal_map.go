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

import "github.com/bits-and-blooms/bitset"

// LiteralMap declares, for one grammar, which symbols carry literal
// text that contributes to node identity, and which unnamed tokens are
// still relevant to edit-script consumers.
type LiteralMap struct {
	symbolCount    uint32
	literals       *bitset.BitSet
	unnamedTokens  *bitset.BitSet
	booleanSymbols [2]Symbol
}

// NewLiteralMap creates an empty literal map sized to the language's
// symbol table.
func NewLiteralMap(lang *Language) *LiteralMap {
	count := lang.SymbolCount()
	return &LiteralMap{
		symbolCount:   count,
		literals:      bitset.New(uint(count)),
		unnamedTokens: bitset.New(uint(count)),
	}
}

// AddLiteral marks a symbol as literal: its text bytes contribute to
// the literal hash and to UPDATE emission.
func (m *LiteralMap) AddLiteral(sym Symbol) {
	m.literals.Set(uint(sym))
}

// AddUnnamedToken marks an anonymous token symbol as relevant for
// edit-script purposes.
func (m *LiteralMap) AddUnnamedToken(sym Symbol) {
	m.unnamedTokens.Set(uint(sym))
}

// SetBooleanSymbols records the grammar's true/false token pair.
func (m *LiteralMap) SetBooleanSymbols(symTrue, symFalse Symbol) {
	m.booleanSymbols[0] = symTrue
	m.booleanSymbols[1] = symFalse
}

func (m *LiteralMap) IsLiteral(sym Symbol) bool {
	return m.literals.Test(uint(sym))
}

func (m *LiteralMap) IsUnnamedToken(sym Symbol) bool {
	return m.unnamedTokens.Test(uint(sym))
}

func (m *LiteralMap) BooleanSymbols() (symTrue, symFalse Symbol) {
	return m.booleanSymbols[0], m.booleanSymbols[1]
}
