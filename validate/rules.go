package validate

import (
	"fmt"

	"github.com/webidl-go/core/ast"
	"github.com/webidl-go/core/index"
)

// extAttrOwner is implemented by every node kind that carries an
// optional *ast.ExtAttrList, so the rules below can read/attach
// extended attributes without a type switch per call site.
type extAttrOwner interface {
	ast.Node
	extAttrsPtr() **ast.ExtAttrList
}

func (n *ownerAdapter) extAttrsPtr() **ast.ExtAttrList { return n.ptr }

// ownerAdapter lets the handful of concrete node types that carry
// ExtAttrs (Interface, Namespace, Dictionary, ...) share one
// findExtAttr/ensureExtAttr implementation instead of six near-copies.
type ownerAdapter struct {
	ast.Node
	ptr **ast.ExtAttrList
}

func adapt(n ast.Node, ptr **ast.ExtAttrList) extAttrOwner {
	return &ownerAdapter{Node: n, ptr: ptr}
}

// findExtAttr returns the named extended attribute on owner, if any.
func findExtAttr(owner extAttrOwner, name string) (*ast.ExtAttr, bool) {
	l := *owner.extAttrsPtr()
	if l == nil {
		return nil, false
	}
	for _, it := range l.Items {
		if it.Name == name {
			return it, true
		}
	}
	return nil, false
}

// ensureExtAttr returns the named extended attribute, creating an
// empty ExtAttrList (and/or the attribute itself) if absent. Used by
// autofixes that must add an annotation to a node which may not yet
// have a `[...]` block at all.
func ensureExtAttr(owner extAttrOwner, name string) *ast.ExtAttr {
	if a, ok := findExtAttr(owner, name); ok {
		return a
	}
	ptr := owner.extAttrsPtr()

	if *ptr == nil {
		// Synthetic token indices are assigned in call order, and Finish
		// sorts by them — so "[" must be minted before the item's own
		// tokens, or the item (whose first token would then carry the
		// lower index) would sort ahead of the opening bracket.
		//
		// The new list also inherits owner's leading trivia (the
		// indentation the keyword itself used to carry), and owner's
		// first token is left with a bare "\n" so the two render on
		// separate lines — a Part.Tok is a pointer, so mutating the
		// token in place is visible to the writer without touching
		// owner's Parts slice again.
		b := owner.Base()
		leading := ""
		if first := b.Parts[0].Tok; first != nil {
			leading = first.Trivia
			first.Trivia = "\n"
		}

		l := ast.NewExtAttrList()
		l.PutSynthetic("open", leading, "[")

		a := ast.NewExtAttr()
		a.Name = name
		a.PutSynthetic("name", "", name)

		l.Items = append(l.Items, a)
		ast.SetChild(l, a)
		l.PutSynthetic("close", "", "]")
		l.Finish()
		*ptr = l

		// Not ast.SetChild: synthetic tokens carry indices far above any
		// real token's, so Finish would sort this new child to the end
		// of owner's Parts — but an extended attribute list belongs
		// before everything else owner already owns.
		l.Base().Parent = owner
		b.Parts = append([]ast.Part{{Child: l}}, b.Parts...)
		return a
	}

	// Inserting into an already-present list: splice ", Name" onto the
	// end of Parts, just before the closing "]" part added when the
	// list was originally built — Finish's index sort would instead
	// shove this synthetic item after a real, lower-indexed "close"
	// token, so the insertion point is chosen directly instead.
	a := ast.NewExtAttr()
	a.Name = name
	a.PutSynthetic("comma", "", ", ")
	a.PutSynthetic("name", "", name)

	l := *ptr
	l.Items = append(l.Items, a)
	parts := l.Parts
	closePart := parts[len(parts)-1]
	l.Parts = append(append(append([]ast.Part{}, parts[:len(parts)-1]...), ast.Part{Child: a}), closePart)
	a.Base().Parent = l
	return a
}

// Run applies every rule in this package to every declaration idx
// knows about and returns the combined diagnostics: per declaration,
// the rules run in the fixed order listed below (not sorted by
// severity), followed by the dictionary containment-cycle check over
// every uniquely named declaration.
func Run(idx *index.Index) []Diagnostic {
	var out []Diagnostic
	for _, decl := range idx.All() {
		out = append(out, checkRequireExposed(decl)...)
		out = append(out, checkConstructorMember(decl)...)
		out = append(out, checkNoConstructibleGlobal(decl)...)
		out = append(out, checkIncompleteOperations(decl)...)
		out = append(out, checkDuplicateOperations(decl)...)
		out = append(out, checkEnumValueUnique(decl)...)
		out = append(out, checkDictArgDefault(decl, idx)...)
	}
	for _, name := range idx.Ordered() {
		out = append(out, checkDictionaryRequiredCycle(name, idx)...)
	}
	return out
}

// ---- require-exposed ----

func checkRequireExposed(decl ast.GenDecl) []Diagnostic {
	var owner extAttrOwner
	switch d := decl.(type) {
	case *ast.Interface:
		if d.Mixin || d.Partial {
			return nil
		}
		owner = adapt(d, &d.ExtAttrs)
	case *ast.Namespace:
		if d.Partial {
			return nil
		}
		owner = adapt(d, &d.ExtAttrs)
	default:
		return nil
	}
	if _, ok := findExtAttr(owner, "Exposed"); ok {
		return nil
	}
	if _, ok := findExtAttr(owner, "NoInterfaceObject"); ok {
		return nil
	}
	return []Diagnostic{{
		Rule:     "require-exposed",
		Severity: Error,
		Message:  fmt.Sprintf("%s must carry an [Exposed] extended attribute", declLabel(decl)),
		Node:     decl,
		Fix: func() {
			a := ensureExtAttr(owner, "Exposed")
			a.Value = "Window"
			a.PutSynthetic("eq", "", "=")
			a.PutSynthetic("value", "", "Window")
			a.Finish()
		},
	}}
}

// ---- legacy constructor extended attribute -> constructor member ----

func checkConstructorMember(decl ast.GenDecl) []Diagnostic {
	iface, ok := decl.(*ast.Interface)
	if !ok || iface.ExtAttrs == nil {
		return nil
	}
	var out []Diagnostic
	for _, a := range iface.ExtAttrs.Items {
		if a.Name != "Constructor" {
			continue
		}
		a := a
		out = append(out, Diagnostic{
			Rule:     "constructor-member",
			Severity: Warning,
			Message:  "legacy [Constructor] extended attribute should be a constructor() operation",
			Node:     iface,
			Fix: func() {
				// Built by hand in final order rather than via
				// Put/SetChild-then-Finish: the arguments carry real,
				// small token indices from their original [Constructor(...)]
				// parse, while "constructor"/"(" must sort before them
				// and ")"/";" after — and synthetic indices only ever
				// sort after every real one, so Finish's index sort
				// cannot reproduce that interleaving.
				ctor := ast.NewConstructor()
				ctor.PutSynthetic("constructor", "\n  ", "constructor")
				ctor.PutSynthetic("open", "", "(")
				ctor.Args = a.Args
				for _, arg := range a.Args {
					ast.SetChild(ctor, arg)
				}
				ctor.PutSynthetic("close", "", ")")
				ctor.PutSynthetic("termination", "", ";")
				ctor.Base().Parent = iface
				iface.Members = append(iface.Members, ctor)

				closeTok, _ := iface.Base().Tokens.Tok("close")
				parts := iface.Base().Parts
				insertAt := len(parts)
				for i, p := range parts {
					if p.Tok != nil && p.Tok.Index == closeTok.Index {
						insertAt = i
						break
					}
				}
				newParts := make([]ast.Part, 0, len(parts)+1)
				newParts = append(newParts, parts[:insertAt]...)
				newParts = append(newParts, ast.Part{Child: ctor})
				newParts = append(newParts, parts[insertAt:]...)
				iface.Base().Parts = newParts

				removeExtAttr(iface.ExtAttrs, a)
				if len(iface.ExtAttrs.Items) == 0 {
					// An empty "[]" is not a list the grammar would ever
					// produce or re-accept; drop the brackets along with
					// the attribute that was their only occupant.
					removeChildPart(iface, iface.ExtAttrs)
					iface.ExtAttrs = nil
				}
			},
		})
	}
	return out
}

// removeChildPart drops child's Part entry from owner's Parts, for
// autofixes that delete a node entirely rather than replacing its
// contents.
func removeChildPart(owner ast.Node, child ast.Node) {
	b := owner.Base()
	var parts []ast.Part
	for _, p := range b.Parts {
		if p.Child == child {
			continue
		}
		parts = append(parts, p)
	}
	b.Parts = parts
}

// removeExtAttr deletes target from both l's semantic Items and its
// token-order Parts, so a writer render afterward does not repeat the
// attribute the caller just replaced with real syntax elsewhere.
func removeExtAttr(l *ast.ExtAttrList, target *ast.ExtAttr) {
	var items []*ast.ExtAttr
	for _, it := range l.Items {
		if it != target {
			items = append(items, it)
		}
	}
	l.Items = items

	var parts []ast.Part
	for _, p := range l.Parts {
		if p.Child == ast.Node(target) {
			continue
		}
		parts = append(parts, p)
	}
	l.Parts = parts
}

// ---- no constructible global ----

func checkNoConstructibleGlobal(decl ast.GenDecl) []Diagnostic {
	iface, ok := decl.(*ast.Interface)
	if !ok {
		return nil
	}
	owner := adapt(iface, &iface.ExtAttrs)
	if _, ok := findExtAttr(owner, "Global"); !ok {
		return nil
	}
	for _, m := range iface.Members {
		if _, ok := m.(*ast.Constructor); ok {
			return []Diagnostic{{
				Rule:     "no-constructible-global",
				Severity: Error,
				Message:  fmt.Sprintf("interface %q is [Global] and cannot declare a constructor", iface.Name),
				Node:     m,
			}}
		}
	}
	if iface.ExtAttrs != nil {
		for _, a := range iface.ExtAttrs.Items {
			if a.Name != "NamedConstructor" {
				continue
			}
			return []Diagnostic{{
				Rule:     "no-constructible-global",
				Severity: Error,
				Message:  fmt.Sprintf("interface %q is [Global] and cannot declare a named constructor", iface.Name),
				Node:     a,
			}}
		}
	}
	return nil
}

// ---- incomplete operations ----

func checkIncompleteOperations(decl ast.GenDecl) []Diagnostic {
	members, ok := memberListOf(decl)
	if !ok {
		return nil
	}
	var out []Diagnostic
	for _, m := range members {
		op, ok := m.(*ast.Operation)
		if !ok {
			continue
		}
		if op.Special == "" && op.Name == "" {
			out = append(out, Diagnostic{
				Rule:     "incomplete-op",
				Severity: Error,
				Message:  "a regular operation must have a name",
				Node:     op,
			})
		}
	}
	return out
}

// ---- duplicate operations (supplemented: no-cross-overload) ----

func checkDuplicateOperations(decl ast.GenDecl) []Diagnostic {
	members, ok := memberListOf(decl)
	if !ok {
		return nil
	}
	type key struct {
		name  string
		arity int
	}
	seen := map[key]*ast.Operation{}
	var out []Diagnostic
	for _, m := range members {
		op, ok := m.(*ast.Operation)
		if !ok || op.Name == "" {
			continue
		}
		k := key{op.Name, len(op.Args)}
		if prior, dup := seen[k]; dup {
			out = append(out, Diagnostic{
				Rule:     "no-cross-overload",
				Severity: Error,
				Message:  fmt.Sprintf("operation %q is declared twice with %d argument(s)", op.Name, len(op.Args)),
				Node:     op,
			})
			_ = prior
			continue
		}
		seen[k] = op
	}
	return out
}

// ---- enum value uniqueness ----

func checkEnumValueUnique(decl ast.GenDecl) []Diagnostic {
	enum, ok := decl.(*ast.Enum)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []Diagnostic
	for _, v := range enum.Values {
		if seen[v.Value] {
			out = append(out, Diagnostic{
				Rule:     "enum-value-unique",
				Severity: Error,
				Message:  fmt.Sprintf("enum %q repeats value %s", enum.Name, v.Value),
				Node:     v,
			})
			continue
		}
		seen[v.Value] = true
	}
	return out
}

// ---- dictionary containment / required-field cycle ----

// dictionaryRequiresFields reports whether name (directly, through a
// partial, or through inheritance) declares a required member with no
// default value. The recursion is cycle-safe: a dictionary that
// inherits from itself (directly or transitively) resolves to the
// pessimistic "no required field" rather than looping forever.
func dictionaryRequiresFields(idx *index.Index, name string) bool {
	return idx.Memo("required-field", name, false, func() bool {
		for _, m := range idx.DictionaryMembers(name) {
			if m.Required && m.Default == "" {
				return true
			}
		}
		d, ok := idx.Unique(name)
		if !ok {
			return false
		}
		dict, ok := d.(*ast.Dictionary)
		if !ok || dict.Inherits == "" {
			return false
		}
		return dictionaryRequiresFields(idx, dict.Inherits)
	})
}

// dictionaryContains reports whether haystack transitively embeds
// (directly or through inheritance/partials) a member whose type
// refers to needle, chasing typedefs and union subtypes along the way.
func dictionaryContains(idx *index.Index, haystack, needle string) bool {
	key := haystack + "->" + needle
	return idx.Memo("containment", key, false, func() bool {
		for _, m := range idx.DictionaryMembers(haystack) {
			if m.Type == nil {
				continue
			}
			if name, ok := idlTypeIncludesDictionary(idx, m.Type); ok {
				if name == needle || dictionaryContains(idx, name, needle) {
					return true
				}
			}
		}
		d, ok := idx.Unique(haystack)
		if !ok {
			return false
		}
		dict, ok := d.(*ast.Dictionary)
		if !ok || dict.Inherits == "" {
			return false
		}
		return dictionaryContains(idx, dict.Inherits, needle)
	})
}

// idlTypeIncludesDictionary determines whether typ ultimately
// references a dictionary: a plain named type that is itself a
// dictionary resolves directly; a typedef is chased into its aliased
// type; a union recurses into every subtype. The cycle guard is a
// visited set scoped to this outer call rather than idx's shared Memo
// cache: Memo only memoizes a boolean, but callers here need the
// concrete resolved dictionary name back, and a name resolved on a
// cache hit would otherwise come back empty.
func idlTypeIncludesDictionary(idx *index.Index, typ *ast.Type) (string, bool) {
	return resolveDictionaryType(idx, typ, map[string]bool{})
}

func resolveDictionaryType(idx *index.Index, typ *ast.Type, seen map[string]bool) (string, bool) {
	if typ == nil {
		return "", false
	}
	if len(typ.Union) > 0 {
		for _, sub := range typ.Union {
			if name, ok := resolveDictionaryType(idx, sub, seen); ok {
				return name, true
			}
		}
		return "", false
	}
	if !typ.IsDictionaryCompatible() || seen[typ.Name] {
		return "", false
	}
	seen[typ.Name] = true

	d, ok := idx.Unique(typ.Name)
	if !ok {
		return "", false
	}
	switch decl := d.(type) {
	case *ast.Dictionary:
		return typ.Name, true
	case *ast.Typedef:
		return resolveDictionaryType(idx, decl.Type, seen)
	default:
		return "", false
	}
}

func checkDictionaryRequiredCycle(name string, idx *index.Index) []Diagnostic {
	d, ok := idx.Unique(name)
	if !ok {
		return nil
	}
	dict, ok := d.(*ast.Dictionary)
	if !ok {
		return nil
	}
	var out []Diagnostic
	if dictionaryContains(idx, name, name) {
		out = append(out, Diagnostic{
			Rule:     "dictionary-containment-cycle",
			Severity: Error,
			Message:  fmt.Sprintf("dictionary %q transitively contains itself", name),
			Node:     dict,
		})
	}
	return out
}

// ---- dictionary argument default (supplemented: dict-arg-default) ----

func checkDictArgDefault(decl ast.GenDecl, idx *index.Index) []Diagnostic {
	var args []*ast.Argument
	ast.Walk(decl, func(n ast.Node) {
		if a, ok := n.(*ast.Argument); ok {
			args = append(args, a)
		}
	})
	var out []Diagnostic
	for _, a := range args {
		a := a
		if !a.Optional || a.Type == nil {
			continue
		}
		dictName, ok := idlTypeIncludesDictionary(idx, a.Type)
		if !ok {
			continue
		}
		if dictionaryRequiresFields(idx, dictName) && a.Default == "" {
			out = append(out, Diagnostic{
				Rule:     "dict-arg-default",
				Severity: Warning,
				Message: fmt.Sprintf(
					"optional argument %q of dictionary type %q has required fields and no default",
					a.Name, dictName),
				Node: a,
				Fix: func() {
					a.Default = "{}"
					a.PutSynthetic("eq", " ", "=")
					a.PutSynthetic("defaultOpen", "", "{")
					a.PutSynthetic("defaultClose", "", "}")
					a.Finish()
				},
			})
		}
	}
	return out
}

// ---- shared helpers ----

func declLabel(decl ast.GenDecl) string {
	switch d := decl.(type) {
	case *ast.Interface:
		return fmt.Sprintf("interface %q", d.Name)
	case *ast.Namespace:
		return fmt.Sprintf("namespace %q", d.Name)
	default:
		return "declaration"
	}
}

func memberListOf(decl ast.GenDecl) ([]ast.Node, bool) {
	switch d := decl.(type) {
	case *ast.Interface:
		return d.Members, true
	case *ast.Namespace:
		return d.Members, true
	case *ast.CallbackInterface:
		return d.Members, true
	}
	return nil, false
}
