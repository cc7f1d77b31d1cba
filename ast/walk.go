package ast

import "github.com/webidl-go/core/token"

// Walk visits n and every descendant reachable through Children, in
// pre-order, calling visit on each. Shared by the validator (rule
// dispatch) and tests (parent-linkage / no-shared-tokens checks).
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children() {
		Walk(c, visit)
	}
}

// AllTokens returns every token directly or transitively owned by n,
// in source order, by following Parts depth-first. This is the
// writer's core primitive and also backs the "no shared tokens" and
// "trivia coverage" test properties.
func AllTokens(n Node) []token.Token {
	var out []token.Token
	var walkParts func(Node)
	walkParts = func(node Node) {
		for _, p := range node.Base().Parts {
			if p.Tok != nil {
				out = append(out, *p.Tok)
				continue
			}
			walkParts(p.Child)
		}
	}
	walkParts(n)
	return out
}
