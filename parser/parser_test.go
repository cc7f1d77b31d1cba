package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webidl-go/core/ast"
	"github.com/webidl-go/core/internal/dump"
	"github.com/webidl-go/core/token"
	"github.com/webidl-go/core/writer"
)

const testDataDir = "../testdata"

func readTestData(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(testDataDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".webidl") {
			names = append(names, e.Name())
		}
	}
	return names
}

// TestParseGolden mirrors the teacher's TestParse: each testdata/*.webidl
// fixture is parsed and dumped, and the dump is compared against a
// sibling .tree file. A missing golden is written and the case is
// skipped, so the first real run of this suite establishes its own
// baseline instead of requiring one to be hand-authored.
func TestParseGolden(t *testing.T) {
	for _, fname := range readTestData(t) {
		fname := fname
		name := strings.TrimSuffix(fname, ".webidl")
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(testDataDir, fname))
			require.NoError(t, err)

			f, err := Parse(string(data), Config{SourceName: fname})
			require.NoError(t, err)
			got := dump.DumpString(f)

			ename := filepath.Join(testDataDir, name+".tree")
			exp, err := os.ReadFile(ename)
			if os.IsNotExist(err) {
				require.NoError(t, os.WriteFile(ename, []byte(got), 0644))
				t.Skip("wrote golden file")
			}
			require.NoError(t, err)
			if string(exp) != got {
				require.NoError(t, os.WriteFile(ename+"_got", []byte(got), 0644))
				t.Fatalf("dump mismatch for %s, see %s", fname, ename+"_got")
			}
			os.Remove(ename + "_got")
		})
	}
}

// TestRoundTrip checks the central writer invariant (spec's trivia
// property): parsing and writing back a document that was never
// mutated reproduces the input byte for byte.
func TestRoundTrip(t *testing.T) {
	for _, fname := range readTestData(t) {
		fname := fname
		t.Run(fname, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(testDataDir, fname))
			require.NoError(t, err)

			f, err := Parse(string(data), Config{SourceName: fname})
			require.NoError(t, err)
			require.Equal(t, string(data), writer.Write(f))
		})
	}
}

// TestAllTokensOwnedOnce checks the "no two node entries reference the
// same token object" property by index identity: no token index may
// appear in ast.AllTokens(f) more than once. Coverage of every token is
// checked by TestRoundTrip.
func TestAllTokensOwnedOnce(t *testing.T) {
	for _, fname := range readTestData(t) {
		fname := fname
		t.Run(fname, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(testDataDir, fname))
			require.NoError(t, err)

			f, err := Parse(string(data), Config{SourceName: fname})
			require.NoError(t, err)

			seen := map[int]int{}
			for _, tok := range ast.AllTokens(f) {
				seen[tok.Index]++
			}
			for idx, count := range seen {
				require.Equalf(t, 1, count, "token index %d referenced %d times", idx, count)
			}
		})
	}
}

// TestParentLinkage checks that every child's Parent back-reference
// points at the node that owns it in Children().
func TestParentLinkage(t *testing.T) {
	for _, fname := range readTestData(t) {
		fname := fname
		t.Run(fname, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(testDataDir, fname))
			require.NoError(t, err)

			f, err := Parse(string(data), Config{SourceName: fname})
			require.NoError(t, err)

			ast.Walk(f, func(n ast.Node) {
				for _, c := range n.Children() {
					require.Samef(t, n, c.Base().Parent, "child of kind %v has wrong parent", c.Base().Kind())
				}
			})
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"missing semicolon", "interface Foo {}", "unterminated interface"},
		{"missing brace", "interface Foo", "interface body requires '{'"},
		{"missing interface name", "interface {};", "interface lacks a name"},
		{"reserved identifier", "interface toString {};", "reserved identifier"},
		{"bad union arity", "typedef (DOMString) X;", "union of at least two members"},
		{"const without value", "interface Foo { const long x; };", "expected '='"},
		{"unsigned without follow-up", "interface Foo { attribute unsigned x; };", "expected 'short' or 'long'"},
		{"dangling comma in ext attrs", "[Exposed=Window,] interface Foo {};", "extended attribute list"},
		{"getter without return type", "interface Foo { getter; };", "operation lacks a return type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, Config{})
			require.Error(t, err)
			var synErr *token.SyntaxError
			require.ErrorAs(t, err, &synErr)
			require.Contains(t, synErr.Message, tt.wantMsg)
		})
	}
}

func TestParseVoidOperation(t *testing.T) {
	f, err := Parse(`interface Foo { void bar(); };`, Config{})
	require.NoError(t, err)
	iface := f.Declarations[0].(*ast.Interface)
	op := iface.Members[0].(*ast.Operation)
	require.Equal(t, "bar", op.Name)
	require.NotNil(t, op.ReturnType)
	require.Equal(t, "void", op.ReturnType.Name)
}

func TestParseSpecialOperations(t *testing.T) {
	f, err := Parse(`interface Foo {
		getter DOMString (unsigned long index);
		setter void (unsigned long index, DOMString value);
		deleter void (unsigned long index);
		stringifier;
	};`, Config{})
	require.NoError(t, err)
	iface := f.Declarations[0].(*ast.Interface)
	require.Len(t, iface.Members, 4)

	getter := iface.Members[0].(*ast.Operation)
	require.Equal(t, "getter", getter.Special)
	require.Equal(t, "DOMString", getter.ReturnType.Name)
	require.Empty(t, getter.Name)

	stringifier := iface.Members[3].(*ast.Operation)
	require.Equal(t, "stringifier", stringifier.Special)
	require.Nil(t, stringifier.ReturnType)
}

func TestParseUnionType(t *testing.T) {
	f, err := Parse(`typedef (DOMString or long or boolean) Key;`, Config{})
	require.NoError(t, err)
	def := f.Declarations[0].(*ast.Typedef)
	require.Len(t, def.Type.Union, 3)
	require.Equal(t, "DOMString", def.Type.Union[0].Name)
	require.Equal(t, "long", def.Type.Union[1].Name)
	require.Equal(t, "boolean", def.Type.Union[2].Name)
}

func TestParseUnsignedLongLong(t *testing.T) {
	f, err := Parse(`interface Foo { attribute unsigned long long size; };`, Config{})
	require.NoError(t, err)
	iface := f.Declarations[0].(*ast.Interface)
	attr := iface.Members[0].(*ast.Attribute)
	require.Equal(t, "unsigned long long", attr.Type.Name)
}

func TestParseArgumentNameKeyword(t *testing.T) {
	// "required" and "static" are keywords elsewhere in the grammar but
	// must still be usable as argument names.
	f, err := Parse(`interface Foo { void bar(DOMString required, DOMString static); };`, Config{})
	require.NoError(t, err)
	iface := f.Declarations[0].(*ast.Interface)
	op := iface.Members[0].(*ast.Operation)
	require.Equal(t, "required", op.Args[0].Name)
	require.Equal(t, "static", op.Args[1].Name)
}

func TestParseCommaTokensPreserved(t *testing.T) {
	f, err := Parse(`[A, B, C] interface Foo {};`, Config{})
	require.NoError(t, err)
	iface := f.Declarations[0].(*ast.Interface)
	require.Len(t, iface.ExtAttrs.Items, 3)
	// Every item after the first owns the comma token that preceded it,
	// so the writer can round-trip the list without inventing
	// separators (see TestRoundTrip).
	_, hasComma1 := iface.ExtAttrs.Items[1].Base().Tokens.Tok("comma")
	_, hasComma2 := iface.ExtAttrs.Items[2].Base().Tokens.Tok("comma")
	require.True(t, hasComma1)
	require.True(t, hasComma2)
	_, hasComma0 := iface.ExtAttrs.Items[0].Base().Tokens.Tok("comma")
	require.False(t, hasComma0)
}
