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

// Length locates or measures a span of source text as a byte count
// plus a row/column extent.
type Length struct {
	Bytes  uint32
	Row    uint32
	Column uint32
}

func lengthZero() Length {
	return Length{}
}

// lengthAdd concatenates two spans. A span that contains a newline
// resets the column count of everything before it.
func lengthAdd(a, b Length) Length {
	sum := Length{Bytes: a.Bytes + b.Bytes, Row: a.Row + b.Row}
	if b.Row == 0 {
		sum.Column = a.Column + b.Column
	} else {
		sum.Column = b.Column
	}
	return sum
}

func lengthEqual(a, b Length) bool {
	return a == b
}

func (l Length) String() string {
	return fmt.Sprintf("%d [%d, %d]", l.Bytes, l.Row, l.Column)
}
