package token

import (
	"strings"
	"unicode/utf8"
)

// punctuation lists every punctuation lexeme in the order attempts are
// made. Longer lexemes that share a prefix with a shorter one (only
// "..." does, since WebIDL has no bare "." token) must come first.
var punctuation = []struct {
	lexeme string
	kind   Kind
}{
	{"...", Ellipsis},
	{"(", LeftParen},
	{")", RightParen},
	{",", Comma},
	{":", Colon},
	{";", Semicolon},
	{"<", LeftAngle},
	{"=", Equals},
	{">", RightAngle},
	{"?", Question},
	{"[", LeftBracket},
	{"]", RightBracket},
	{"{", LeftBrace},
	{"}", RightBrace},
}

// Lex tokenizes input per spec §4.1, returning a dense token stream
// ending in EOF. sourceName is an optional caller label threaded into
// any fatal SyntaxError.
func Lex(input, sourceName string) (Stream, error) {
	var (
		out    Stream
		pos    int
		line   = 1
		trivia strings.Builder
		idx    int
	)

	emit := func(kind Kind, lexeme string) {
		out = append(out, Token{
			Kind:   kind,
			Lexeme: lexeme,
			Trivia: trivia.String(),
			Line:   line,
			Index:  idx,
		})
		idx++
		trivia.Reset()
	}

	fail := func(bare string) error {
		ctx := errorContext(out, line)
		return NewSyntaxError(bare, line, ctx, sourceName, input, out)
	}

	for pos < len(input) {
		rest := input[pos:]
		c := rest[0]

		switch {
		case c == '\t' || c == '\n' || c == '\r' || c == ' ':
			n := scanWhitespace(rest)
			line += strings.Count(rest[:n], "\n")
			trivia.WriteString(rest[:n])
			pos += n
			continue

		case c == '/' && len(rest) > 1 && (rest[1] == '/' || rest[1] == '*'):
			n := scanComment(rest)
			line += strings.Count(rest[:n], "\n")
			trivia.WriteString(rest[:n])
			pos += n
			continue

		case isNumberOrIdentStart(c):
			if n := scanDecimal(rest); n > 0 {
				emit(Decimal, rest[:n])
				pos += n
				continue
			}
			if n := scanInteger(rest); n > 0 {
				emit(Integer, rest[:n])
				pos += n
				continue
			}
			if n := scanIdentifier(rest); n > 0 {
				lexeme := rest[:n]
				if Reserved[lexeme] {
					return nil, fail(lexeme + " is a reserved identifier and must not be used.")
				}
				kind := Identifier
				if kw, ok := LookupKeyword(lexeme); ok {
					kind = kw
				}
				emit(kind, lexeme)
				pos += n
				continue
			}

		case c == '"':
			if n := scanString(rest); n > 0 {
				emit(String, rest[:n])
				pos += n
				continue
			}

		}

		if n, k := scanPunctuation(rest); n > 0 {
			emit(k, rest[:n])
			pos += n
			continue
		}

		// Single non-identifier, non-whitespace character.
		if n := scanOther(rest); n > 0 {
			emit(Other, rest[:n])
			pos += n
			continue
		}

		return nil, fail("Token stream not progressing")
	}

	emit(EOF, "")
	return out, nil
}

func scanPunctuation(s string) (int, Kind) {
	for _, p := range punctuation {
		if strings.HasPrefix(s, p.lexeme) {
			return len(p.lexeme), p.kind
		}
	}
	return 0, Invalid
}

func scanOther(s string) int {
	if len(s) == 0 {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s)
	return size
}

func scanWhitespace(s string) int {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\t' || c == '\n' || c == '\r' || c == ' ' {
			i++
			continue
		}
		break
	}
	return i
}

func scanComment(s string) int {
	if strings.HasPrefix(s, "//") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			return idx
		}
		return len(s)
	}
	if strings.HasPrefix(s, "/*") {
		if idx := strings.Index(s[2:], "*/"); idx >= 0 {
			return idx + 4
		}
		return len(s)
	}
	return 0
}

func scanString(s string) int {
	if len(s) == 0 || s[0] != '"' {
		return 0
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '"' {
			return i + 1
		}
	}
	return 0
}

func scanIdentifier(s string) int {
	i := 0
	if i < len(s) && (s[i] == '_' || s[i] == '-') {
		i++
	}
	if i >= len(s) || !isAlpha(s[i]) {
		return 0
	}
	i++
	for i < len(s) && isIdentCont(s[i]) {
		i++
	}
	return i
}

func scanInteger(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return 0
	}
	if s[i] == '0' {
		j := i + 1
		if j < len(s) && (s[j] == 'x' || s[j] == 'X') {
			k := j + 1
			cnt := 0
			for k < len(s) && isHexDigit(s[k]) {
				k++
				cnt++
			}
			if cnt > 0 {
				return k
			}
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '7' {
			k++
		}
		return k
	}
	if s[i] >= '1' && s[i] <= '9' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		return j
	}
	return 0
}

// scanDecimal ports the authoritative regex:
//
//	-?(?=[0-9]*\.|[0-9]+[eE])(([0-9]+\.[0-9]*|[0-9]*\.[0-9]+)([Ee][-+]?[0-9]+)?|[0-9]+[Ee][-+]?[0-9]+)
func scanDecimal(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	start := i

	j := i
	digitsBefore := 0
	for j < len(s) && isDigit(s[j]) {
		j++
		digitsBefore++
	}
	if j < len(s) && s[j] == '.' {
		j++
		digitsAfter := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			digitsAfter++
		}
		if digitsBefore > 0 || digitsAfter > 0 {
			k := j
			if k < len(s) && (s[k] == 'e' || s[k] == 'E') {
				k2 := k + 1
				if k2 < len(s) && (s[k2] == '+' || s[k2] == '-') {
					k2++
				}
				exp := 0
				for k2 < len(s) && isDigit(s[k2]) {
					k2++
					exp++
				}
				if exp > 0 {
					j = k2
				}
			}
			return j
		}
	}

	// [0-9]+[Ee][-+]?[0-9]+ (no dot)
	j = start
	digits := 0
	for j < len(s) && isDigit(s[j]) {
		j++
		digits++
	}
	if digits == 0 {
		return 0
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		exp := 0
		for k < len(s) && isDigit(s[k]) {
			k++
			exp++
		}
		if exp > 0 {
			return k
		}
	}
	return 0
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isAlpha(c byte) bool    { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool {
	return isDigit(c) || isAlpha(c) || c == '_' || c == '-'
}

// isNumberOrIdentStart matches the dispatch class from spec §4.1:
// "[-0-9.A-Z_a-z]".
func isNumberOrIdentStart(c byte) bool {
	return c == '-' || isDigit(c) || c == '.' || isAlpha(c) || c == '_'
}

// errorContext builds a printable window around the most recently
// emitted tokens, per the semantic definition chosen in DESIGN.md
// (N tokens of trivia+lexeme before the failure point).
func errorContext(tokens Stream, _ int) string {
	const n = 3
	start := 0
	if len(tokens) > n {
		start = len(tokens) - n
	}
	var b strings.Builder
	for _, t := range tokens[start:] {
		b.WriteString(t.Text())
	}
	return b.String()
}
