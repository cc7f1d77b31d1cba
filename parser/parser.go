// Package parser implements the recursive-descent WebIDL parser
// described in spec §4.2: unlimited one-token lookahead, explicit
// cursor save/restore for backtracking, and a trivia-preserving tree
// built directly from the token stream (spec §3).
package parser

import (
	"fmt"
	"strings"

	"github.com/webidl-go/core/ast"
	"github.com/webidl-go/core/token"
)

// Config customizes a parse. SourceName is threaded into any raised
// SyntaxError, mirroring the teacher's parserConfig pattern
// (parser.go's buildParser) minus the ignored-token-kind machinery,
// which is unneeded here because the tokenizer already strips
// whitespace/comments into trivia rather than emitting them as tokens.
type Config struct {
	SourceName string
}

// SyntaxError is the parser's fatal error type; it is the same wire
// type the tokenizer raises (spec §6/§7 — both layers must look
// identical to a caller).
type SyntaxError = token.SyntaxError

// cursor holds the mutable parse state: the token stream and the
// current read position. It implements the four primitives spec §4.2
// calls out: probe, consume, unconsume, error.
type cursor struct {
	stream token.Stream
	pos    int
	input  string
	name   string
}

// probe reports whether the current token's kind is kind, without
// consuming it.
func (c *cursor) probe(kind token.Kind) bool {
	return c.stream[c.pos].Kind == kind
}

// probeAny is probe generalized to a set of kinds.
func (c *cursor) probeAny(kinds ...token.Kind) bool {
	cur := c.stream[c.pos].Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// current returns the token at the cursor without consuming it.
func (c *cursor) current() token.Token {
	return c.stream[c.pos]
}

// mark returns the current cursor position, to be passed to unconsume
// for backtracking.
func (c *cursor) mark() int { return c.pos }

// unconsume resets the cursor to a previously marked position.
func (c *cursor) unconsume(position int) { c.pos = position }

// consume advances past the current token and returns it if its kind
// is one of kinds; otherwise it returns the zero token and false,
// consuming nothing.
func (c *cursor) consume(kinds ...token.Kind) (token.Token, bool) {
	if !c.probeAny(kinds...) {
		return token.Token{}, false
	}
	t := c.stream[c.pos]
	c.pos++
	return t, true
}

// expect consumes one of kinds or raises a fatal syntax error. Used at
// every point the grammar commits to a production (spec §4.2:
// "Mandatory sub-parts use consume(…) || error(…)").
func (c *cursor) expect(msg string, kinds ...token.Kind) token.Token {
	t, ok := c.consume(kinds...)
	if !ok {
		c.error(msg)
	}
	return t
}

// errorf is error with fmt.Sprintf-style formatting.
func (c *cursor) errorf(format string, args ...interface{}) {
	c.error(fmt.Sprintf(format, args...))
}

// error raises a fatal *SyntaxError bound to the current cursor
// position. Parse functions that have committed to a production by
// consuming a mandatory token must call this instead of returning
// absence (spec §7).
func (c *cursor) error(message string) {
	cur := c.current()
	panic(token.NewSyntaxError(message, cur.Line, c.context(), c.name, c.input, c.stream))
}

// context builds the printable window around the current token: up to
// three tokens of trivia+lexeme before and after, per the semantic
// definition chosen in DESIGN.md for spec §9's "Open Question".
func (c *cursor) context() string {
	const n = 3
	lo := c.pos - n
	if lo < 0 {
		lo = 0
	}
	hi := c.pos + n + 1
	if hi > len(c.stream) {
		hi = len(c.stream)
	}
	var b strings.Builder
	for _, t := range c.stream[lo:hi] {
		b.WriteString(t.Text())
	}
	return b.String()
}

// Parse tokenizes and parses input into a root File node. On syntax
// error (from either the tokenizer or the parser) it returns a
// *SyntaxError (spec §6).
func Parse(input string, cfg Config) (file *ast.File, err error) {
	stream, lexErr := token.Lex(input, cfg.SourceName)
	if lexErr != nil {
		return nil, lexErr
	}

	c := &cursor{stream: stream, input: input, name: cfg.SourceName}

	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*token.SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	p := &parser{cursor: c}
	file = p.parseFile()
	return file, nil
}

// parser embeds cursor and holds the grammar's production methods
// (parser/grammar.go). Kept as a distinct type from cursor so the four
// primitives stay a minimal, independently testable surface.
type parser struct {
	*cursor
}

// oneOf runs each alternative in order, backtracking between attempts,
// and returns the first that succeeds — the teacher's
// sourceParser.oneOf (parser.go) generalized with Go generics so it
// works across node types instead of only ast.Node.
func oneOf[T any](p *parser, alts ...func() (T, bool)) (T, bool) {
	for _, alt := range alts {
		saved := p.mark()
		v, ok := alt()
		if ok {
			return v, true
		}
		p.unconsume(saved)
	}
	var zero T
	return zero, false
}

// list parses a comma-separated sequence: try once, then loop
// consuming "," and calling try again, stopping cleanly when the next
// item is absent (spec §4.2's `list(parser, allowDangler, listName)`).
// onComma, if non-nil, is handed each item together with the comma
// token that preceded it, so the caller can register that token
// somewhere in the tree instead of letting it vanish — every token the
// tokenizer emits must end up owned by some node (spec §3).
func list[T any](p *parser, try func() (T, bool), allowDangler bool, listName string, onComma func(item T, comma token.Token)) []T {
	first, ok := try()
	if !ok {
		return nil
	}
	out := []T{first}
	for {
		saved := p.mark()
		commaTok, ok := p.consume(token.Comma)
		if !ok {
			break
		}
		item, ok := try()
		if !ok {
			if allowDangler {
				return out
			}
			p.unconsume(saved)
			p.errorf("%s: expected item after ',', found %v", listName, p.current().Kind)
		}
		if onComma != nil {
			onComma(item, commaTok)
		}
		out = append(out, item)
	}
	return out
}
