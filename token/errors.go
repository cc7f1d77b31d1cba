package token

import "fmt"

// SyntaxError is the stable wire contract for fatal tokenizer and
// parser failures (spec §6/§7). Both layers raise the same type so a
// caller handles them identically.
type SyntaxError struct {
	// Message is the decorated, human-readable error.
	Message string
	// BareMessage is the raw message, without position decoration.
	BareMessage string
	// Context is a printable window around the offending token.
	Context string
	// Line is the 1-based line of the offending token.
	Line int
	// SourceName is an optional caller-supplied label for the input.
	SourceName string
	// Input is the original source text.
	Input string
	// Tokens is the token vector: for a tokenizer failure, the tokens
	// emitted before the failure point; for a parser failure, the whole
	// stream.
	Tokens Stream
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// NewSyntaxError builds a SyntaxError, decorating BareMessage with the
// source name and line number into Message.
func NewSyntaxError(bare string, line int, context, sourceName, input string, tokens Stream) *SyntaxError {
	msg := bare
	if sourceName != "" {
		msg = fmt.Sprintf("%s:%d: %s", sourceName, line, bare)
	} else {
		msg = fmt.Sprintf("line %d: %s", line, bare)
	}
	return &SyntaxError{
		Message:     msg,
		BareMessage: bare,
		Context:     context,
		Line:        line,
		SourceName:  sourceName,
		Input:       input,
		Tokens:      tokens,
	}
}
