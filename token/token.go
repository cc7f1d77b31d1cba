package token

// Token is an immutable lexical unit, except that the tokenizer may
// re-kind an Identifier token whose lexeme matches a known keyword.
// Tree nodes hold their own copies of the tokens they consumed (see
// ast.BaseNode.Put); Index identifies a token across those copies, so
// "no two node entries reference the same token object" is checked by
// comparing indices.
type Token struct {
	Kind Kind

	// Lexeme is the exact source text of the token itself, excluding
	// any leading trivia.
	Lexeme string

	// Trivia is the whitespace/comment text that preceded this token.
	// trivia+lexeme concatenated in stream order reconstructs the input.
	Trivia string

	// Line is the 1-based line number at the start of the token (after
	// its trivia).
	Line int

	// Index is this token's 0-based position in the owning Stream.
	Index int
}

// Text returns the token exactly as it appeared in the source,
// including its leading trivia.
func (t Token) Text() string {
	return t.Trivia + t.Lexeme
}

// Stream is the ordered, dense token vector produced by Lex. The last
// element is always an EOF token whose Trivia holds any trailing
// whitespace/comments.
type Stream []Token

// EOF returns the terminal EOF token.
func (s Stream) EOF() Token {
	return s[len(s)-1]
}
