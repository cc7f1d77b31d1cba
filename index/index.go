// Package index builds the cross-file definition index described in
// spec §4.3: every top-level name resolved to its unique definition,
// its partials, and the mixins/interfaces it includes, plus a
// three-state memoization cache for the cyclic semantic analyses the
// validator runs over it (dictionary containment, required-field
// inheritance).
package index

import "github.com/webidl-go/core/ast"

// Index is the merged view over one or more parsed files. Build with
// New, then feed it every ast.File in a compilation unit via Add.
type Index struct {
	unique   map[string]ast.GenDecl
	partials map[string][]ast.GenDecl
	includes map[string][]string // interface name -> mixin names it includes
	mixins   map[string]*ast.Interface
	all      []ast.GenDecl
	ordered  []string // declaration names in first-seen order

	entriesMap map[cacheKey]cacheEntry
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		unique:     map[string]ast.GenDecl{},
		partials:   map[string][]ast.GenDecl{},
		includes:   map[string][]string{},
		mixins:     map[string]*ast.Interface{},
		entriesMap: map[cacheKey]cacheEntry{},
	}
}

// Add folds every declaration in f into the index. Partial definitions
// and `includes` statements do not need their target to already be
// indexed — Add is safe to call in any file order.
func (idx *Index) Add(f *ast.File) {
	for _, decl := range f.Declarations {
		idx.all = append(idx.all, decl)

		if inc, ok := decl.(*ast.Includes); ok {
			idx.includes[inc.Target] = append(idx.includes[inc.Target], inc.Source)
			continue
		}

		name, partial := declName(decl)
		if name == "" {
			continue
		}
		if partial {
			idx.partials[name] = append(idx.partials[name], decl)
			continue
		}
		if _, seen := idx.unique[name]; !seen {
			idx.ordered = append(idx.ordered, name)
		}
		idx.unique[name] = decl
		if iface, ok := decl.(*ast.Interface); ok && iface.Mixin {
			idx.mixins[name] = iface
		}
	}
}

// declName extracts a declaration's name and whether it is a partial
// fragment (which is indexed separately rather than as the unique
// definition).
func declName(decl ast.GenDecl) (name string, partial bool) {
	switch d := decl.(type) {
	case *ast.Interface:
		return d.Name, d.Partial
	case *ast.Dictionary:
		return d.Name, d.Partial
	case *ast.Namespace:
		return d.Name, d.Partial
	case *ast.Enum:
		return d.Name, false
	case *ast.Typedef:
		return d.Name, false
	case *ast.CallbackInterface:
		return d.Name, false
	case *ast.Callback:
		return d.Name, false
	}
	return "", false
}

// Unique returns the single non-partial definition registered for
// name, if any.
func (idx *Index) Unique(name string) (ast.GenDecl, bool) {
	d, ok := idx.unique[name]
	return d, ok
}

// Partials returns every partial fragment registered for name, in
// the order they were added.
func (idx *Index) Partials(name string) []ast.GenDecl {
	return idx.partials[name]
}

// Includes returns the mixin names an interface includes.
func (idx *Index) Includes(interfaceName string) []string {
	return idx.includes[interfaceName]
}

// Mixin looks up a registered interface mixin by name.
func (idx *Index) Mixin(name string) (*ast.Interface, bool) {
	m, ok := idx.mixins[name]
	return m, ok
}

// All returns every declaration added to the index, across all files,
// in the order Add saw them.
func (idx *Index) All() []ast.GenDecl {
	return idx.all
}

// Ordered returns the names of every uniquely-defined declaration, in
// first-definition order — used by the validator when a stable
// iteration order over the index matters (diagnostics should not
// reorder between runs on the same input).
func (idx *Index) Ordered() []string {
	return idx.ordered
}

// InterfaceMembers returns an interface's own members plus every
// member contributed by its partials, in partial-discovery order.
func (idx *Index) InterfaceMembers(name string) []ast.Node {
	var out []ast.Node
	if d, ok := idx.unique[name]; ok {
		if iface, ok := d.(*ast.Interface); ok {
			out = append(out, iface.Members...)
		}
	}
	for _, p := range idx.partials[name] {
		if iface, ok := p.(*ast.Interface); ok {
			out = append(out, iface.Members...)
		}
	}
	return out
}

// DictionaryMembers returns a dictionary's own fields plus every field
// contributed by its partials.
func (idx *Index) DictionaryMembers(name string) []*ast.DictionaryMember {
	var out []*ast.DictionaryMember
	if d, ok := idx.unique[name]; ok {
		if dict, ok := d.(*ast.Dictionary); ok {
			out = append(out, dict.Members...)
		}
	}
	for _, p := range idx.partials[name] {
		if dict, ok := p.(*ast.Dictionary); ok {
			out = append(out, dict.Members...)
		}
	}
	return out
}
