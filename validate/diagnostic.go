// Package validate runs the semantic checks spec §4.4/§4.5 describe
// over an already-parsed, already-indexed tree: exposure requirements,
// legacy-constructor normalization, dictionary containment and
// required-field cycles, interface member duplication, and the
// supplemented argument/overload/enum rules (SPEC_FULL §5). Checks that
// can be mechanically repaired attach an Autofix closure to their
// Diagnostic instead of only describing the problem.
package validate

import "github.com/webidl-go/core/ast"

// Severity classifies a Diagnostic for callers deciding whether to
// fail a build.
type Severity int

const (
	Error Severity = iota
	Warning
)

// Autofix is a deferred tree mutation: calling it performs the repair
// in place. Diagnostics whose defect cannot be mechanically fixed
// (ambiguous cases, anything requiring the author's intent) leave this
// nil.
type Autofix func()

// Diagnostic is one validator finding, anchored to the node that
// triggered it so a caller can report a source position via
// ast.FirstToken(Node).
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	Node     ast.Node
	Fix      Autofix
}

// HasFix reports whether this diagnostic can be automatically
// repaired.
func (d Diagnostic) HasFix() bool { return d.Fix != nil }

// Apply runs the diagnostic's autofix, if any, and reports whether one
// ran.
func (d Diagnostic) Apply() bool {
	if d.Fix == nil {
		return false
	}
	d.Fix()
	return true
}
