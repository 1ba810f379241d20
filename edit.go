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

// EditTag discriminates the edit union.
type EditTag uint8

const (
	EditAttach EditTag = iota
	EditDetach
	EditUnload
	EditLoad
	EditLoadAttach
	EditDetachUnload
	EditUpdate
)

// CoreEditTag is the five-operation vocabulary the fused forms expand
// into.
type CoreEditTag uint8

const (
	CoreAttach CoreEditTag = iota
	CoreDetach
	CoreUnload
	CoreLoad
	CoreUpdate
)

func (t EditTag) String() string {
	switch t {
	case EditAttach:
		return "ATTACH"
	case EditDetach:
		return "DETACH"
	case EditUnload:
		return "UNLOAD"
	case EditLoad:
		return "LOAD"
	case EditLoadAttach:
		return "LOAD_ATTACH"
	case EditDetachUnload:
		return "DETACH_UNLOAD"
	case EditUpdate:
		return "UPDATE"
	}
	return "UNKNOWN"
}

// Edit is one operation of an edit script.
type Edit interface {
	EditTag() EditTag
}

// ChildPrototype references one child slot of a loaded or unloaded
// node.
type ChildPrototype struct {
	ChildID NodeID
	IsField bool
	FieldID FieldID
	Link    uint32
}

type (
	// Attach links a node below a parent, either on a positional link
	// or on a named field.
	Attach struct {
		ID           NodeID
		Symbol       Symbol
		ParentID     NodeID
		ParentSymbol Symbol
		IsField      bool
		FieldID      FieldID
		Link         uint32
	}

	// Detach unlinks a node from its parent.
	Detach struct {
		ID           NodeID
		Symbol       Symbol
		ParentID     NodeID
		ParentSymbol Symbol
		IsField      bool
		FieldID      FieldID
		Link         uint32
	}

	// Unload discards a node whose children are enumerated so the
	// consumer can sever them.
	Unload struct {
		ID     NodeID
		Symbol Symbol
		Kids   []ChildPrototype
	}

	// LoadLeaf is the payload of a leaf load.
	LoadLeaf struct {
		Padding           Length
		Size              Length
		LookaheadBytes    uint32
		ParseState        StateID
		HasExternalTokens bool
		DependsOnColumn   bool
		IsKeyword         bool

		ExternalScannerState []byte
		LookaheadChar        int32
	}

	// Load creates a node under a fresh identity: either a leaf with
	// its full leaf payload, or an internal node over previously
	// loaded or reused children.
	Load struct {
		ID     NodeID
		Symbol Symbol
		IsLeaf bool

		Leaf *LoadLeaf

		Kids         []ChildPrototype
		ProductionID uint16
	}

	// Update rewrites the literal content of a kept node.
	Update struct {
		ID       NodeID
		Symbol   Symbol
		OldStart Length
		OldSize  Length
		NewStart Length
		NewSize  Length
	}

	// LoadAttach is the fusion of a Load directly followed by the
	// Attach of the same node.
	LoadAttach struct {
		Load
		ParentID     NodeID
		ParentSymbol Symbol
		IsField      bool
		FieldID      FieldID
		Link         uint32
	}

	// DetachUnload is the fusion of a Detach directly followed by the
	// Unload of the same node.
	DetachUnload struct {
		Detach
		Kids []ChildPrototype
	}
)

func (Attach) EditTag() EditTag       { return EditAttach }
func (Detach) EditTag() EditTag       { return EditDetach }
func (Unload) EditTag() EditTag       { return EditUnload }
func (Load) EditTag() EditTag         { return EditLoad }
func (Update) EditTag() EditTag       { return EditUpdate }
func (LoadAttach) EditTag() EditTag   { return EditLoadAttach }
func (DetachUnload) EditTag() EditTag { return EditDetachUnload }
