// Package ast defines the trivia-preserving concrete syntax tree
// produced by the parser: one tagged struct per WebIDL production,
// each owning the tokens it consumed (spec §3).
package ast

import (
	"sort"

	"github.com/webidl-go/core/token"
)

// Kind discriminates node productions. Exposed as the tagged-variant
// discriminator called out in spec §3 ("a kind discriminator exposed
// as `type`") and in the "Tagged variants instead of class hierarchy"
// design note.
type Kind string

const (
	KindFile             Kind = "File"
	KindExtAttr          Kind = "ExtAttr"
	KindType             Kind = "Type"
	KindArgument         Kind = "Argument"
	KindConst            Kind = "Const"
	KindAttribute        Kind = "Attribute"
	KindOperation        Kind = "Operation"
	KindConstructor      Kind = "Constructor"
	KindIterable         Kind = "Iterable"
	KindMaplike          Kind = "Maplike"
	KindSetlike          Kind = "Setlike"
	KindInterface        Kind = "Interface"
	KindDictionary       Kind = "Dictionary"
	KindDictionaryMember Kind = "DictionaryMember"
	KindEnum             Kind = "Enum"
	KindEnumValue        Kind = "EnumValue"
	KindTypedef          Kind = "Typedef"
	KindNamespace        Kind = "Namespace"
	KindCallbackInterface Kind = "CallbackInterface"
	KindCallback         Kind = "Callback"
	KindIncludes         Kind = "Includes"
)

// Node is implemented by every production in the tree.
type Node interface {
	// Base returns the node's shared bookkeeping (parent, token
	// dictionary, ordered parts, kind).
	Base() *BaseNode
	// Children returns this node's typed children, in declaration
	// order, for generic tree walks (validation).
	Children() []Node
}

// TokenMap is the per-node mapping from role name to the (optional)
// token occupying that role, used for diagnostic position anchoring
// ("bound to the `(` token") and autofix lookups. A missing key means
// the role was not present in this occurrence (e.g. an interface with
// no `partial` keyword has no "partial" entry).
type TokenMap map[string]token.Token

// Tok returns the token for role and whether it is present.
func (m TokenMap) Tok(role string) (token.Token, bool) {
	t, ok := m[role]
	return t, ok
}

// Part is one element of a node's ordered content: either a directly
// owned token, or a child node whose own Parts supply further tokens.
// Walking Parts in order and emitting tokens depth-first reconstructs
// the node's exact source text (spec §3's trivia invariant); this is
// the green-tree-style alternative to the source's dynamic-proxy CST.
type Part struct {
	Tok   *token.Token
	Child Node
}

// BaseNode is embedded by every production. It carries the token
// dictionary, the ordered parts list, and the non-owning parent
// back-reference.
type BaseNode struct {
	kind   Kind
	Tokens TokenMap
	Parts  []Part
	Parent Node
}

func (b *BaseNode) Base() *BaseNode { return b }

// Kind returns the node's tagged-variant discriminator.
func (b *BaseNode) Kind() Kind { return b.kind }

// NewBase constructs a BaseNode of the given kind with an empty token
// dictionary. Used by every node constructor in ast/nodes.go.
func NewBase(kind Kind) BaseNode {
	return BaseNode{kind: kind, Tokens: TokenMap{}}
}

// Put records tok under role in both the token dictionary and the
// ordered parts list. Call it in the exact order tokens are consumed
// so Parts reconstructs the source faithfully.
func (b *BaseNode) Put(role string, tok token.Token) token.Token {
	b.Tokens[role] = tok
	t := tok
	b.Parts = append(b.Parts, Part{Tok: &t})
	return tok
}

// PutOptional is Put for a token that may be absent; call only when ok.
func (b *BaseNode) PutOptional(role string, tok token.Token, ok bool) {
	if ok {
		b.Put(role, tok)
	}
}

// SetChild attaches child to parent, records it in parent's ordered
// parts, and sets child's Parent back-reference. Centralizing this
// (vs. each production setting .Parent by hand) replaces the source's
// dynamic-proxy auto-parenting; see DESIGN.md "Dynamic proxy for
// parent linkage".
func SetChild(parent Node, child Node) {
	if child == nil {
		return
	}
	child.Base().Parent = parent
	b := parent.Base()
	b.Parts = append(b.Parts, Part{Child: child})
}

// AppendChild is SetChild for a node about to be appended to a slice
// field; callers append the returned value to their own slice.
func AppendChild[T Node](parent Node, child T) T {
	SetChild(parent, child)
	return child
}

// syntheticIndex hands out ever-increasing, never-reused token indices
// for tokens an autofix inserts rather than the tokenizer. Starting far
// above any realistic lexer index, and only increasing, guarantees a
// synthesized token always sorts after every token the parser actually
// consumed, and two synthesized tokens on the same node sort in the
// order they were added.
var syntheticIndex = 1 << 30

// PutSynthetic records a token an autofix manufactures (not read from
// the original source) under role, with Index chosen so it sorts after
// every real token on Finish. lexeme is the literal text to emit;
// trivia is emitted immediately before it (typically a single space).
func (b *BaseNode) PutSynthetic(role, trivia, lexeme string) token.Token {
	t := token.Token{Lexeme: lexeme, Trivia: trivia, Index: syntheticIndex}
	syntheticIndex++
	return b.Put(role, t)
}

// Finish re-sorts Parts into token-index order. Productions build a
// node's Parts through whatever sequence of Put/SetChild calls is most
// convenient (a prefix keyword discovered after its operand, a static
// modifier folded in by a wrapping production) and then call Finish
// once before returning, so the writer always sees Parts in the order
// the tokens actually appeared in source regardless of construction
// order.
func (b *BaseNode) Finish() {
	sort.SliceStable(b.Parts, func(i, j int) bool {
		return partIndex(b.Parts[i]) < partIndex(b.Parts[j])
	})
}

func partIndex(p Part) int {
	if p.Tok != nil {
		return p.Tok.Index
	}
	return FirstToken(p.Child).Index
}

// FirstToken returns the lowest-indexed token reachable from n,
// including tokens owned by extended attributes (spec §3's source
// position invariant), by following the first Part recursively.
func FirstToken(n Node) token.Token {
	for {
		parts := n.Base().Parts
		if len(parts) == 0 {
			return token.Token{}
		}
		p := parts[0]
		if p.Tok != nil {
			return *p.Tok
		}
		n = p.Child
	}
}
