// Package webidl is the public facade over the tokenizer, parser,
// definition index, validator, and writer: the three entry points
// spec §6 calls out (parse, validate, write) composed into one small
// surface, the way the teacher's root package re-exports parser.Parse.
package webidl

import (
	"github.com/webidl-go/core/ast"
	"github.com/webidl-go/core/index"
	"github.com/webidl-go/core/parser"
	"github.com/webidl-go/core/validate"
	"github.com/webidl-go/core/writer"
)

// Config controls a Parse call; it is parser.Config re-exported so
// callers never need to import the parser package directly.
type Config = parser.Config

// SyntaxError is the fatal error type raised by Parse.
type SyntaxError = parser.SyntaxError

// Diagnostic is one non-fatal finding from Validate.
type Diagnostic = validate.Diagnostic

// Parse tokenizes and parses input into a root File. On a malformed
// document it returns a *SyntaxError.
func Parse(input string, cfg Config) (*ast.File, error) {
	return parser.Parse(input, cfg)
}

// Validate runs every semantic check over the definitions collected
// from one or more parsed files, in declaration order, and returns the
// resulting diagnostics. Call Index first if you need cross-file
// checks (includes, partials, dictionary inheritance) spanning several
// documents; Validate itself only reads the index.
func Validate(idx *index.Index) []validate.Diagnostic {
	return validate.Run(idx)
}

// Index folds one or more parsed files into a definition index, the
// input Validate and the cross-file checks operate on.
func Index(files ...*ast.File) *index.Index {
	idx := index.New()
	for _, f := range files {
		idx.Add(f)
	}
	return idx
}

// Write reconstructs source text from a root File. It reproduces the
// original input exactly when the tree carries no autofix mutations,
// and otherwise renders a well-formed document reflecting them.
func Write(f *ast.File) string {
	return writer.Write(f)
}
