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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScriptWireRoundTrip(t *testing.T) {
	t.Parallel()

	result, _, _, _ := runDiff(t,
		`(seq (add (int "1") (int "2")) (sub (int "3") (int "4")))`,
		`(seq (sub (int "3") (int "9")) (id "x"))`)

	encoded, err := EncodeScript(result.Script)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	decoded, err := DecodeScript(encoded)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if diff := cmp.Diff(result.Script.Edits(), decoded.Edits()); diff != "" {
		t.Fatalf("wire round trip lost information (-want +got):\n%s", diff)
	}
}

func TestScriptWireDeterministic(t *testing.T) {
	t.Parallel()

	result, _, _, _ := runDiff(t,
		`(expr (add (int "1") (int "2")))`,
		`(expr (add (int "1") (int "3")))`)

	first, err := EncodeScript(result.Script)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	second, err := EncodeScript(result.Script)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("equal scripts must encode to equal bytes")
	}
}

func TestScriptWireRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := DecodeScript([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Fatal("expected an error decoding garbage")
	}
}
