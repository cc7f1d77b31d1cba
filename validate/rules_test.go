package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webidl-go/core/ast"
	"github.com/webidl-go/core/index"
	"github.com/webidl-go/core/parser"
	"github.com/webidl-go/core/writer"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.Parse(src, parser.Config{})
	require.NoError(t, err)
	return f
}

func buildIndex(files ...*ast.File) *index.Index {
	idx := index.New()
	for _, f := range files {
		idx.Add(f)
	}
	return idx
}

func byRule(diags []Diagnostic, rule string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d)
		}
	}
	return out
}

func TestCheckRequireExposedAutofix(t *testing.T) {
	f := mustParse(t, "interface Foo {};")
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkRequireExposed(iface)
	require.Len(t, diags, 1)
	d := diags[0]
	require.Equal(t, "require-exposed", d.Rule)
	require.Equal(t, Error, d.Severity)
	require.True(t, d.HasFix())

	require.True(t, d.Apply())
	require.Equal(t, "[Exposed=Window]\ninterface Foo {};", writer.String(iface))

	// Once [Exposed] is present, the rule no longer fires.
	require.Empty(t, checkRequireExposed(iface))
}

func TestCheckRequireExposedSkipsNoInterfaceObject(t *testing.T) {
	f := mustParse(t, "[NoInterfaceObject] interface Foo {};")
	iface := f.Declarations[0].(*ast.Interface)
	require.Empty(t, checkRequireExposed(iface))
}

func TestCheckRequireExposedSkipsMixinAndPartial(t *testing.T) {
	f := mustParse(t, "interface mixin M {};")
	mixin := f.Declarations[0].(*ast.Interface)
	require.Empty(t, checkRequireExposed(mixin))

	f2 := mustParse(t, "partial interface P {};")
	partial := f2.Declarations[0].(*ast.Interface)
	require.Empty(t, checkRequireExposed(partial))
}

func TestCheckRequireExposedAlreadyPresent(t *testing.T) {
	f := mustParse(t, "[Exposed=Window] interface Foo {};")
	iface := f.Declarations[0].(*ast.Interface)
	require.Empty(t, checkRequireExposed(iface))
}

func TestCheckConstructorMemberAutofix(t *testing.T) {
	f := mustParse(t, "[Constructor(DOMString name)] interface Foo {};")
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkConstructorMember(iface)
	require.Len(t, diags, 1)
	d := diags[0]
	require.Equal(t, "constructor-member", d.Rule)
	require.Equal(t, Warning, d.Severity)
	require.True(t, d.HasFix())

	require.True(t, d.Apply())
	require.Nil(t, iface.ExtAttrs, "the now-empty [...] list should be removed entirely")
	require.Len(t, iface.Members, 1)
	ctor, ok := iface.Members[0].(*ast.Constructor)
	require.True(t, ok)
	require.Len(t, ctor.Args, 1)
	require.Equal(t, "name", ctor.Args[0].Name)

	require.Equal(t, " interface Foo {\n  constructor(DOMString name);};", writer.String(iface))
}

func TestCheckConstructorMemberKeepsOtherAttrs(t *testing.T) {
	f := mustParse(t, "[Exposed=Window, Constructor] interface Foo {};")
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkConstructorMember(iface)
	require.Len(t, diags, 1)
	require.True(t, diags[0].Apply())

	require.NotNil(t, iface.ExtAttrs, "Exposed must survive removal of Constructor")
	require.Len(t, iface.ExtAttrs.Items, 1)
	require.Equal(t, "Exposed", iface.ExtAttrs.Items[0].Name)
}

func TestCheckNoConstructibleGlobal(t *testing.T) {
	f := mustParse(t, `[Exposed=Window, Global] interface Foo { constructor(); };`)
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkNoConstructibleGlobal(iface)
	require.Len(t, diags, 1)
	require.Equal(t, "no-constructible-global", diags[0].Rule)
	require.Equal(t, Error, diags[0].Severity)
	require.False(t, diags[0].HasFix())
	_, isCtor := diags[0].Node.(*ast.Constructor)
	require.True(t, isCtor)
}

func TestCheckNoConstructibleGlobalNamedConstructor(t *testing.T) {
	f := mustParse(t, `[Exposed=Window, Global, NamedConstructor=Foo()] interface Foo {};`)
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkNoConstructibleGlobal(iface)
	require.Len(t, diags, 1)
	require.Equal(t, "no-constructible-global", diags[0].Rule)
	require.Equal(t, Error, diags[0].Severity)
	_, isAttr := diags[0].Node.(*ast.ExtAttr)
	require.True(t, isAttr)
}

func TestCheckNoConstructibleGlobalWithoutGlobalIsFine(t *testing.T) {
	f := mustParse(t, `[Exposed=Window] interface Foo { constructor(); };`)
	iface := f.Declarations[0].(*ast.Interface)
	require.Empty(t, checkNoConstructibleGlobal(iface))
}

func TestCheckIncompleteOperations(t *testing.T) {
	f := mustParse(t, `interface Foo { void (); };`)
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkIncompleteOperations(iface)
	require.Len(t, diags, 1)
	require.Equal(t, "incomplete-op", diags[0].Rule)
	require.Equal(t, Error, diags[0].Severity)
}

func TestCheckDuplicateOperations(t *testing.T) {
	f := mustParse(t, `interface Foo { void bar(); void bar(); };`)
	iface := f.Declarations[0].(*ast.Interface)

	diags := checkDuplicateOperations(iface)
	require.Len(t, diags, 1)
	require.Equal(t, "no-cross-overload", diags[0].Rule)
	require.Contains(t, diags[0].Message, `"bar"`)

	op, ok := diags[0].Node.(*ast.Operation)
	require.True(t, ok)
	require.Same(t, iface.Members[1], ast.Node(op))
}

func TestCheckDuplicateOperationsDifferentArityIsFine(t *testing.T) {
	f := mustParse(t, `interface Foo { void bar(); void bar(long x); };`)
	iface := f.Declarations[0].(*ast.Interface)
	require.Empty(t, checkDuplicateOperations(iface))
}

func TestCheckEnumValueUnique(t *testing.T) {
	f := mustParse(t, `enum Color { "red", "red", "blue" };`)
	enum := f.Declarations[0].(*ast.Enum)

	diags := checkEnumValueUnique(enum)
	require.Len(t, diags, 1)
	require.Equal(t, "enum-value-unique", diags[0].Rule)
	require.Contains(t, diags[0].Message, "red")
}

func TestCheckDictionaryRequiredCycle(t *testing.T) {
	f := mustParse(t, `
		dictionary A { B inner; };
		dictionary B { A inner; };
	`)
	idx := buildIndex(f)

	diags := Run(idx)
	cycles := byRule(diags, "dictionary-containment-cycle")
	require.Len(t, cycles, 2)

	names := map[string]bool{}
	for _, d := range cycles {
		dict := d.Node.(*ast.Dictionary)
		names[dict.Name] = true
	}
	require.True(t, names["A"])
	require.True(t, names["B"])
}

func TestCheckDictionaryNoCycleForPlainInheritance(t *testing.T) {
	f := mustParse(t, `
		dictionary Base { DOMString id; };
		dictionary Derived : Base { DOMString extra; };
	`)
	idx := buildIndex(f)
	require.Empty(t, byRule(Run(idx), "dictionary-containment-cycle"))
}

func TestCheckDictArgDefaultAutofix(t *testing.T) {
	f := mustParse(t, `
		dictionary D { required DOMString label; };
		interface Foo { void bar(optional D d); };
	`)
	idx := buildIndex(f)

	diags := byRule(Run(idx), "dict-arg-default")
	require.Len(t, diags, 1)
	d := diags[0]
	require.Equal(t, Warning, d.Severity)
	require.True(t, d.HasFix())

	arg, ok := d.Node.(*ast.Argument)
	require.True(t, ok)
	require.Equal(t, "d", arg.Name)

	require.True(t, d.Apply())
	require.Equal(t, "{}", arg.Default)
	require.Equal(t, "optional D d ={}", writer.String(arg))
}

func TestCheckDictArgDefaultNotNeededWhenDefaultGiven(t *testing.T) {
	f := mustParse(t, `
		dictionary D { required DOMString label; };
		interface Foo { void bar(optional D d = {}); };
	`)
	idx := buildIndex(f)
	require.Empty(t, byRule(Run(idx), "dict-arg-default"))
}

func TestCheckDictArgDefaultNotNeededWithoutRequiredFields(t *testing.T) {
	f := mustParse(t, `
		dictionary D { DOMString label; };
		interface Foo { void bar(optional D d); };
	`)
	idx := buildIndex(f)
	require.Empty(t, byRule(Run(idx), "dict-arg-default"))
}

func TestCheckDictArgDefaultThroughTypedef(t *testing.T) {
	f := mustParse(t, `
		dictionary D { required DOMString label; };
		typedef D T;
		interface Foo { void bar(optional T t); };
	`)
	idx := buildIndex(f)

	diags := byRule(Run(idx), "dict-arg-default")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, `"D"`)

	arg, ok := diags[0].Node.(*ast.Argument)
	require.True(t, ok)
	require.Equal(t, "t", arg.Name)
}

func TestCheckDictArgDefaultThroughUnion(t *testing.T) {
	f := mustParse(t, `
		dictionary D { required DOMString label; };
		interface Foo { void bar(optional (D or DOMString) u); };
	`)
	idx := buildIndex(f)

	diags := byRule(Run(idx), "dict-arg-default")
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, `"D"`)
}
