// Package writer reconstructs source text from a parsed tree. It is
// the direct dual of the trivia invariant the tokenizer and parser
// maintain (spec §3): visiting every token reachable from a node, in
// the order its Parts record them, and emitting trivia+lexeme
// reproduces the original input exactly, including any tokens an
// autofix inserted (ast.PutSynthetic).
package writer

import (
	"strings"

	"github.com/webidl-go/core/ast"
)

// Write renders f back to source text: every token reachable from its
// declarations, in source order, followed by the root's trailing
// end-of-file trivia.
func Write(f *ast.File) string {
	var b strings.Builder
	for _, t := range ast.AllTokens(f) {
		b.WriteString(t.Text())
	}
	b.WriteString(f.EOFTrivia)
	return b.String()
}

// String is Write's single-node form, returning n's reconstructed text
// in isolation (no file-level EOF trivia attached).
func String(n ast.Node) string {
	var b strings.Builder
	for _, t := range ast.AllTokens(n) {
		b.WriteString(t.Text())
	}
	return b.String()
}
