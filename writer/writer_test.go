package writer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webidl-go/core/parser"
)

func TestWriteRoundTrip(t *testing.T) {
	const src = "// comment\n[Exposed=Window]\ninterface Foo {\n  const long x = 1;\n};\n"
	f, err := parser.Parse(src, parser.Config{})
	require.NoError(t, err)
	require.Equal(t, src, Write(f))
}

func TestStringExcludesFileTrivia(t *testing.T) {
	const src = "interface Foo {};\n// trailing comment, not part of any node\n"
	f, err := parser.Parse(src, parser.Config{})
	require.NoError(t, err)

	iface := f.Declarations[0]
	require.Equal(t, "interface Foo {};", String(iface))
	// Write, unlike String, also emits the file's trailing trivia.
	require.Equal(t, src, Write(f))
}

func TestWriteEmptyFile(t *testing.T) {
	f, err := parser.Parse("", parser.Config{})
	require.NoError(t, err)
	require.Equal(t, "", Write(f))
}

func TestWriteMultipleDeclarations(t *testing.T) {
	const src = "interface A {};\ninterface B {};\n"
	f, err := parser.Parse(src, parser.Config{})
	require.NoError(t, err)
	require.Equal(t, src, Write(f))
}
