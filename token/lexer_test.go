package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type lexerTest struct {
	name   string
	input  string
	tokens []Token
}

var tEOF = Token{Kind: EOF, Lexeme: ""}

var lexerTests = []lexerTest{
	{"empty", "", []Token{tEOF}},

	{"single whitespace trivia", " x", []Token{
		{Kind: Identifier, Lexeme: "x", Trivia: " "}, tEOF,
	}},
	{"comment trivia", "// a comment\nfoo", []Token{
		{Kind: Identifier, Lexeme: "foo", Trivia: "// a comment\n"}, tEOF,
	}},
	{"multiline comment trivia", "/* a\ncomment */foo", []Token{
		{Kind: Identifier, Lexeme: "foo", Trivia: "/* a\ncomment */"}, tEOF,
	}},

	{"left brace", "{", []Token{{Kind: LeftBrace, Lexeme: "{"}, tEOF}},
	{"right brace", "}", []Token{{Kind: RightBrace, Lexeme: "}"}, tEOF}},
	{"left bracket", "[", []Token{{Kind: LeftBracket, Lexeme: "["}, tEOF}},
	{"right bracket", "]", []Token{{Kind: RightBracket, Lexeme: "]"}, tEOF}},
	{"left paren", "(", []Token{{Kind: LeftParen, Lexeme: "("}, tEOF}},
	{"right paren", ")", []Token{{Kind: RightParen, Lexeme: ")"}, tEOF}},
	{"semicolon", ";", []Token{{Kind: Semicolon, Lexeme: ";"}, tEOF}},
	{"comma", ",", []Token{{Kind: Comma, Lexeme: ","}, tEOF}},
	{"ellipsis", "...", []Token{{Kind: Ellipsis, Lexeme: "..."}, tEOF}},
	{"question", "?", []Token{{Kind: Question, Lexeme: "?"}, tEOF}},

	{"keyword rewrite", "interface", []Token{{Kind: KwInterface, Lexeme: "interface"}, tEOF}},
	{"non-keyword identifier", "interace", []Token{{Kind: Identifier, Lexeme: "interace"}, tEOF}},
	{"leading underscore identifier", "_Foo", []Token{{Kind: Identifier, Lexeme: "_Foo"}, tEOF}},
	{"leading dash identifier", "-moz-foo", []Token{{Kind: Identifier, Lexeme: "-moz-foo"}, tEOF}},

	{"string", `"val"`, []Token{{Kind: String, Lexeme: `"val"`}, tEOF}},
	{"empty string", `""`, []Token{{Kind: String, Lexeme: `""`}, tEOF}},

	{"integer", "42", []Token{{Kind: Integer, Lexeme: "42"}, tEOF}},
	{"negative integer", "-42", []Token{{Kind: Integer, Lexeme: "-42"}, tEOF}},
	{"octal integer", "0755", []Token{{Kind: Integer, Lexeme: "0755"}, tEOF}},
	{"hex integer", "0x1F", []Token{{Kind: Integer, Lexeme: "0x1F"}, tEOF}},
	{"zero", "0", []Token{{Kind: Integer, Lexeme: "0"}, tEOF}},

	{"decimal", "0.0", []Token{{Kind: Decimal, Lexeme: "0.0"}, tEOF}},
	{"decimal leading dot", ".5", []Token{{Kind: Decimal, Lexeme: ".5"}, tEOF}},
	{"decimal exponent no dot", "1e10", []Token{{Kind: Decimal, Lexeme: "1e10"}, tEOF}},
	{"decimal exponent with sign", "1.5e-10", []Token{{Kind: Decimal, Lexeme: "1.5e-10"}, tEOF}},
	{"negative decimal", "-0.5", []Token{{Kind: Decimal, Lexeme: "-0.5"}, tEOF}},

	{"-Infinity keyword", "-Infinity", []Token{{Kind: KwNegativeInfinity, Lexeme: "-Infinity"}, tEOF}},

	{"sequence of tokens", "interface Foo {};", []Token{
		{Kind: KwInterface, Lexeme: "interface"},
		{Kind: Identifier, Lexeme: "Foo", Trivia: " "},
		{Kind: LeftBrace, Lexeme: "{", Trivia: " "},
		{Kind: RightBrace, Lexeme: "}"},
		{Kind: Semicolon, Lexeme: ";"},
		tEOF,
	}},
}

func TestLex(t *testing.T) {
	for _, test := range lexerTests {
		t.Run(test.name, func(t *testing.T) {
			stream, err := Lex(test.input, "")
			require.NoError(t, err)
			require.Len(t, stream, len(test.tokens))
			for i, want := range test.tokens {
				got := stream[i]
				require.Equalf(t, want.Kind, got.Kind, "token %d kind", i)
				require.Equalf(t, want.Lexeme, got.Lexeme, "token %d lexeme", i)
				require.Equalf(t, want.Trivia, got.Trivia, "token %d trivia", i)
				require.Equalf(t, i, got.Index, "token %d index", i)
			}
		})
	}
}

func TestLexReservedIdentifier(t *testing.T) {
	for _, lexeme := range []string{"_constructor", "toString", "_toString"} {
		_, err := Lex(lexeme, "")
		require.Error(t, err)
		var synErr *SyntaxError
		require.ErrorAs(t, err, &synErr)
		require.Contains(t, synErr.BareMessage, "reserved")
	}
}

func TestLexTriviaRoundTrip(t *testing.T) {
	const src = "  // leading\n  interface Foo {\n    const long x = 1;\n  };\n  // trailing\n"
	stream, err := Lex(src, "")
	require.NoError(t, err)

	var rebuilt string
	for _, tok := range stream {
		rebuilt += tok.Text()
	}
	require.Equal(t, src, rebuilt)
}

func TestLexOtherByte(t *testing.T) {
	// A byte outside every recognized class (not whitespace, comment,
	// number/identifier start, string, or punctuation) still makes
	// progress: it is emitted as a single Other token rather than
	// stalling the scan.
	stream, err := Lex("@", "")
	require.NoError(t, err)
	require.Equal(t, Other, stream[0].Kind)
	require.Equal(t, "@", stream[0].Lexeme)
}
