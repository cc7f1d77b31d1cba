// Package dump pretty-prints a parsed tree for golden-file parser
// tests, adapted from the teacher's parser/dump.go: same
// kr/pretty-based approach, retargeted at this package's ast.Node.
package dump

import (
	"bytes"
	"io"

	"github.com/kr/pretty"

	"github.com/webidl-go/core/ast"
)

// Dump pretty-prints n's full Go representation to w, one field per
// line, with unexported bookkeeping hidden by %# v's depth rules.
func Dump(w io.Writer, n ast.Node) error {
	_, err := pretty.Fprintf(w, "%# v", n)
	return err
}

// DumpString is Dump rendered to a string, panicking on a write error
// (an in-memory buffer never fails to write).
func DumpString(n ast.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Dump(buf, n); err != nil {
		panic(err)
	}
	return buf.String()
}
