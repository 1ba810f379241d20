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
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var ErrInvalidScriptEncoding = errors.New("invalid edit script encoding")

// The wire form flattens the edit union into one struct per edit with
// a leading tag, encoded in CBOR core-deterministic form so equal
// scripts always serialize to equal bytes.
type (
	wireChild struct {
		ID      []byte  `cbor:"1,keyasint"`
		IsField bool    `cbor:"2,keyasint,omitempty"`
		Field   FieldID `cbor:"3,keyasint,omitempty"`
		Link    uint32  `cbor:"4,keyasint,omitempty"`
	}

	wireLeaf struct {
		Padding           Length  `cbor:"1,keyasint"`
		Size              Length  `cbor:"2,keyasint"`
		LookaheadBytes    uint32  `cbor:"3,keyasint,omitempty"`
		ParseState        StateID `cbor:"4,keyasint,omitempty"`
		HasExternalTokens bool    `cbor:"5,keyasint,omitempty"`
		DependsOnColumn   bool    `cbor:"6,keyasint,omitempty"`
		IsKeyword         bool    `cbor:"7,keyasint,omitempty"`
		ScannerState      []byte  `cbor:"8,keyasint,omitempty"`
		LookaheadChar     int32   `cbor:"9,keyasint,omitempty"`
	}

	wireEdit struct {
		Tag          EditTag     `cbor:"1,keyasint"`
		ID           []byte      `cbor:"2,keyasint"`
		Symbol       Symbol      `cbor:"3,keyasint"`
		ParentID     []byte      `cbor:"4,keyasint,omitempty"`
		ParentSymbol Symbol      `cbor:"5,keyasint,omitempty"`
		IsField      bool        `cbor:"6,keyasint,omitempty"`
		Field        FieldID     `cbor:"7,keyasint,omitempty"`
		Link         uint32      `cbor:"8,keyasint,omitempty"`
		IsLeaf       bool        `cbor:"9,keyasint,omitempty"`
		Leaf         *wireLeaf   `cbor:"10,keyasint,omitempty"`
		Kids         []wireChild `cbor:"11,keyasint,omitempty"`
		Production   uint16      `cbor:"12,keyasint,omitempty"`
		OldStart     *Length     `cbor:"13,keyasint,omitempty"`
		OldSize      *Length     `cbor:"14,keyasint,omitempty"`
		NewStart     *Length     `cbor:"15,keyasint,omitempty"`
		NewSize      *Length     `cbor:"16,keyasint,omitempty"`
	}
)

var scriptEncMode, _ = cbor.CoreDetEncOptions().EncMode()

// EncodeScript serializes an edit script for external consumers.
func EncodeScript(es *EditScript) ([]byte, error) {
	wire := make([]wireEdit, 0, es.Len())
	for _, edit := range es.Edits() {
		wire = append(wire, toWire(edit))
	}
	return scriptEncMode.Marshal(wire)
}

// DecodeScript is the inverse of EncodeScript.
func DecodeScript(data []byte) (*EditScript, error) {
	var wire []wireEdit
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScriptEncoding, err)
	}
	edits := make([]Edit, 0, len(wire))
	for _, we := range wire {
		edit, err := fromWire(we)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}
	return &EditScript{edits: edits}, nil
}

func toWire(edit Edit) wireEdit {
	switch e := edit.(type) {
	case Attach:
		return wireEdit{Tag: EditAttach, ID: wireID(e.ID), Symbol: e.Symbol,
			ParentID: wireID(e.ParentID), ParentSymbol: e.ParentSymbol,
			IsField: e.IsField, Field: e.FieldID, Link: e.Link}
	case Detach:
		return wireEdit{Tag: EditDetach, ID: wireID(e.ID), Symbol: e.Symbol,
			ParentID: wireID(e.ParentID), ParentSymbol: e.ParentSymbol,
			IsField: e.IsField, Field: e.FieldID, Link: e.Link}
	case Unload:
		return wireEdit{Tag: EditUnload, ID: wireID(e.ID), Symbol: e.Symbol, Kids: wireKids(e.Kids)}
	case Load:
		return wireLoad(EditLoad, e, wireEdit{})
	case LoadAttach:
		return wireLoad(EditLoadAttach, e.Load, wireEdit{
			ParentID: wireID(e.ParentID), ParentSymbol: e.ParentSymbol,
			IsField: e.IsField, Field: e.FieldID, Link: e.Link})
	case DetachUnload:
		return wireEdit{Tag: EditDetachUnload, ID: wireID(e.ID), Symbol: e.Symbol,
			ParentID: wireID(e.ParentID), ParentSymbol: e.ParentSymbol,
			IsField: e.IsField, Field: e.FieldID, Link: e.Link, Kids: wireKids(e.Kids)}
	case Update:
		oldStart, oldSize, newStart, newSize := e.OldStart, e.OldSize, e.NewStart, e.NewSize
		return wireEdit{Tag: EditUpdate, ID: wireID(e.ID), Symbol: e.Symbol,
			OldStart: &oldStart, OldSize: &oldSize, NewStart: &newStart, NewSize: &newSize}
	}
	panic(fmt.Sprintf("treediff: unknown edit type %T", edit))
}

func wireLoad(tag EditTag, load Load, base wireEdit) wireEdit {
	base.Tag = tag
	base.ID = wireID(load.ID)
	base.Symbol = load.Symbol
	base.IsLeaf = load.IsLeaf
	base.Kids = wireKids(load.Kids)
	base.Production = load.ProductionID
	if load.Leaf != nil {
		base.Leaf = &wireLeaf{
			Padding:           load.Leaf.Padding,
			Size:              load.Leaf.Size,
			LookaheadBytes:    load.Leaf.LookaheadBytes,
			ParseState:        load.Leaf.ParseState,
			HasExternalTokens: load.Leaf.HasExternalTokens,
			DependsOnColumn:   load.Leaf.DependsOnColumn,
			IsKeyword:         load.Leaf.IsKeyword,
			ScannerState:      load.Leaf.ExternalScannerState,
			LookaheadChar:     load.Leaf.LookaheadChar,
		}
	}
	return base
}

func fromWire(we wireEdit) (Edit, error) {
	id, err := nodeIDFromWire(we.ID)
	if err != nil {
		return nil, err
	}
	parentID, err := nodeIDFromWire(we.ParentID)
	if err != nil {
		return nil, err
	}
	switch we.Tag {
	case EditAttach:
		return Attach{ID: id, Symbol: we.Symbol, ParentID: parentID, ParentSymbol: we.ParentSymbol,
			IsField: we.IsField, FieldID: we.Field, Link: we.Link}, nil
	case EditDetach:
		return Detach{ID: id, Symbol: we.Symbol, ParentID: parentID, ParentSymbol: we.ParentSymbol,
			IsField: we.IsField, FieldID: we.Field, Link: we.Link}, nil
	case EditUnload:
		kids, err := kidsFromWire(we.Kids)
		if err != nil {
			return nil, err
		}
		return Unload{ID: id, Symbol: we.Symbol, Kids: kids}, nil
	case EditLoad:
		return loadFromWire(we, id)
	case EditLoadAttach:
		load, err := loadFromWire(we, id)
		if err != nil {
			return nil, err
		}
		return LoadAttach{Load: load, ParentID: parentID, ParentSymbol: we.ParentSymbol,
			IsField: we.IsField, FieldID: we.Field, Link: we.Link}, nil
	case EditDetachUnload:
		kids, err := kidsFromWire(we.Kids)
		if err != nil {
			return nil, err
		}
		return DetachUnload{
			Detach: Detach{ID: id, Symbol: we.Symbol, ParentID: parentID, ParentSymbol: we.ParentSymbol,
				IsField: we.IsField, FieldID: we.Field, Link: we.Link},
			Kids: kids,
		}, nil
	case EditUpdate:
		if we.OldStart == nil || we.OldSize == nil || we.NewStart == nil || we.NewSize == nil {
			return nil, ErrInvalidScriptEncoding
		}
		return Update{ID: id, Symbol: we.Symbol,
			OldStart: *we.OldStart, OldSize: *we.OldSize,
			NewStart: *we.NewStart, NewSize: *we.NewSize}, nil
	}
	return nil, ErrInvalidScriptEncoding
}

func loadFromWire(we wireEdit, id NodeID) (Load, error) {
	load := Load{ID: id, Symbol: we.Symbol, IsLeaf: we.IsLeaf, ProductionID: we.Production}
	if we.Leaf != nil {
		load.Leaf = &LoadLeaf{
			Padding:              we.Leaf.Padding,
			Size:                 we.Leaf.Size,
			LookaheadBytes:       we.Leaf.LookaheadBytes,
			ParseState:           we.Leaf.ParseState,
			HasExternalTokens:    we.Leaf.HasExternalTokens,
			DependsOnColumn:      we.Leaf.DependsOnColumn,
			IsKeyword:            we.Leaf.IsKeyword,
			ExternalScannerState: we.Leaf.ScannerState,
			LookaheadChar:        we.Leaf.LookaheadChar,
		}
	}
	kids, err := kidsFromWire(we.Kids)
	if err != nil {
		return Load{}, err
	}
	load.Kids = kids
	return load, nil
}

func wireID(id NodeID) []byte {
	if id.IsNil() {
		return nil
	}
	out := make([]byte, len(id))
	copy(out, id[:])
	return out
}

func nodeIDFromWire(raw []byte) (NodeID, error) {
	var id NodeID
	if raw == nil {
		return id, nil
	}
	if len(raw) != len(id) {
		return id, ErrInvalidScriptEncoding
	}
	copy(id[:], raw)
	return id, nil
}

func wireKids(kids []ChildPrototype) []wireChild {
	if kids == nil {
		return nil
	}
	out := make([]wireChild, 0, len(kids))
	for _, kid := range kids {
		out = append(out, wireChild{ID: wireID(kid.ChildID), IsField: kid.IsField, Field: kid.FieldID, Link: kid.Link})
	}
	return out
}

func kidsFromWire(kids []wireChild) ([]ChildPrototype, error) {
	if kids == nil {
		return nil, nil
	}
	out := make([]ChildPrototype, 0, len(kids))
	for _, kid := range kids {
		id, err := nodeIDFromWire(kid.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ChildPrototype{ChildID: id, IsField: kid.IsField, FieldID: kid.Field, Link: kid.Link})
	}
	return out, nil
}
