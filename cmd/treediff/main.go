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

// Command treediff diffs two hand-written S-expression trees of a
// small arithmetic grammar and prints the edit script, the assignment
// graph, or a dump of the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/janiknex/go-treediff"
)

var log = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.Stamp,
}).With().Timestamp().Logger()

func main() {
	graph := flag.Bool("graph", false, "print the assignment graph as DOT instead of the edit script")
	dump := flag.Bool("dump", false, "dump the full diff result")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [-graph] [-dump] old.sexp new.sexp\n", os.Args[0])
		os.Exit(2)
	}

	lang, lits := arithLanguage()
	oldTree, oldCode := mustLoad(lang, flag.Arg(0))
	newTree, newCode := mustLoad(lang, flag.Arg(1))

	var result treediff.DiffResult
	var err error
	if *graph {
		result, err = treediff.CompareToWithGraph(oldTree, newTree, oldCode, newCode, lits, os.Stdout)
	} else {
		result, err = treediff.CompareTo(oldTree, newTree, oldCode, newCode, lits)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("diff failed")
	}
	if !result.Success {
		log.Warn().Msg("reconstructed tree does not match the changed tree")
	}

	if *dump {
		spew.Dump(result)
		return
	}
	if !*graph {
		if err := result.Script.Print(os.Stdout, lang); err != nil {
			log.Fatal().Err(err).Msg("printing edit script")
		}
		log.Info().Int("edits", result.Script.Len()).Bool("success", result.Success).Msg("done")
	}
}

func mustLoad(lang *treediff.Language, path string) (*treediff.Tree, []byte) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("reading input")
	}
	tree, code, err := treediff.ParseSExpression(lang, string(raw))
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("parsing s-expression")
	}
	return tree, code
}

// arithLanguage is a minimal arithmetic grammar with literal integer
// and identifier tokens.
func arithLanguage() (*treediff.Language, *treediff.LiteralMap) {
	lang := treediff.NewLanguage("arith")
	named := treediff.SymbolMetadata{Visible: true, Named: true}
	anonymous := treediff.SymbolMetadata{Visible: true}
	for _, name := range []string{"expr", "seq", "add", "sub", "call", "args", "int", "id"} {
		lang.AddSymbol(name, named)
	}
	plus := lang.AddSymbol("+", anonymous)
	minus := lang.AddSymbol("-", anonymous)

	lits := treediff.NewLiteralMap(lang)
	symInt, _ := lang.SymbolForName("int")
	symID, _ := lang.SymbolForName("id")
	lits.AddLiteral(symInt)
	lits.AddLiteral(symID)
	lits.AddUnnamedToken(plus)
	lits.AddUnnamedToken(minus)
	return lang, lits
}
