package ast

// ---- extended attributes ----

// ExtAttrList is the bracketed `[ ... ]` block preceding a definition
// or member. Tokens: "open" ("["), "close" ("]").
type ExtAttrList struct {
	BaseNode
	Items []*ExtAttr
}

func NewExtAttrList() *ExtAttrList { return &ExtAttrList{BaseNode: NewBase(KindExtAttr)} }

func (n *ExtAttrList) Children() []Node {
	out := make([]Node, 0, len(n.Items))
	for _, it := range n.Items {
		out = append(out, it)
	}
	return out
}

// ExtAttr is one `Name`, `Name=Value`, `Name=(a,b,c)`, `Name(args)`, or
// `Name=Ident(args)` annotation. Tokens: "name", "eq", "lparen",
// "rparen".
type ExtAttr struct {
	BaseNode
	Name     string
	Value    string   // Name=Value
	Values   []string // Name=(a,b,c)
	ArgsName string   // Name=Ident(args): the Ident
	Args     []*Argument
}

func NewExtAttr() *ExtAttr { return &ExtAttr{BaseNode: NewBase(KindExtAttr)} }

func (n *ExtAttr) Children() []Node {
	out := make([]Node, 0, len(n.Args))
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}

// ---- types ----

// Type is an idlType: a named/primitive type, a generic
// (sequence/record/Promise/FrozenArray), or a union. Tokens: "prefix"
// (e.g. "unsigned"/"unrestricted"), "name", "open" ("<" or "("),
// "close" (">" or ")"), "question".
type Type struct {
	BaseNode
	Name     string // resolved type name, e.g. "unsigned long", "DOMString", "Foo"
	Generic  string // "sequence", "record", "Promise", "FrozenArray", or "" for non-generics
	Params   []*Type
	Union    []*Type
	Nullable bool
}

func NewType() *Type { return &Type{BaseNode: NewBase(KindType)} }

func (n *Type) Children() []Node {
	out := make([]Node, 0, len(n.Params)+len(n.Union))
	for _, p := range n.Params {
		out = append(out, p)
	}
	for _, u := range n.Union {
		out = append(out, u)
	}
	return out
}

// IsDictionaryCompatible reports whether this is a plain named type
// that could refer to a dictionary (not a union, not a generic, not a
// nullable-excluded case — callers decide nullability handling).
func (n *Type) IsDictionaryCompatible() bool {
	return n.Generic == "" && len(n.Union) == 0 && n.Name != ""
}

// ---- arguments ----

// Argument is a parameter in an operation/constructor/callback
// argument list. Tokens: "optional", "ellipsis", "name", "eq".
type Argument struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Optional bool
	Type     *Type
	Variadic bool
	Name     string
	Default  string // raw default-value text, empty if absent
}

func NewArgument() *Argument { return &Argument{BaseNode: NewBase(KindArgument)} }

func (n *Argument) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// ---- members ----

// Const is `const type name = value;`. Tokens: "const", "name", "eq",
// "value", "termination".
type Const struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Type     *Type
	Name     string
	Value    string
}

func NewConst() *Const { return &Const{BaseNode: NewBase(KindConst)} }

func (n *Const) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// Attribute is `[stringifier] [inherit] [readonly] attribute type
// name;`. Tokens: "stringifier", "inherit", "readonly", "static",
// "attribute", "name", "termination".
type Attribute struct {
	BaseNode
	ExtAttrs    *ExtAttrList
	Stringifier bool
	Inherit     bool
	Readonly    bool
	Static      bool
	Type        *Type
	Name        string
}

func NewAttribute() *Attribute { return &Attribute{BaseNode: NewBase(KindAttribute)} }

func (n *Attribute) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// Operation is a regular/special (getter/setter/deleter/stringifier)
// or static operation. Tokens: "special", "static", "name", "open",
// "close", "termination".
type Operation struct {
	BaseNode
	ExtAttrs   *ExtAttrList
	Special    string // "getter", "setter", "deleter", "stringifier", or ""
	Static     bool
	ReturnType *Type // nil for a bare `stringifier;`
	Name       string
	Args       []*Argument
}

func NewOperation() *Operation { return &Operation{BaseNode: NewBase(KindOperation)} }

func (n *Operation) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.ReturnType != nil {
		out = append(out, n.ReturnType)
	}
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}

// Constructor is `constructor(args);`, either parsed directly or
// synthesized by the constructor-member autofix. Tokens: "constructor",
// "open", "close", "termination".
type Constructor struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Args     []*Argument
}

func NewConstructor() *Constructor { return &Constructor{BaseNode: NewBase(KindConstructor)} }

func (n *Constructor) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}

// Iterable is `iterable<V>;` or `iterable<K, V>;`. Tokens: "async",
// "iterable", "open", "comma", "close", "termination".
type Iterable struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Async    bool
	KeyType  *Type // non-nil only for the map-like key/value form
	ValueType *Type
}

func NewIterable() *Iterable { return &Iterable{BaseNode: NewBase(KindIterable)} }

func (n *Iterable) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.KeyType != nil {
		out = append(out, n.KeyType)
	}
	if n.ValueType != nil {
		out = append(out, n.ValueType)
	}
	return out
}

// Maplike is `[readonly] maplike<K, V>;`. Tokens: "readonly",
// "maplike", "open", "comma", "close", "termination".
type Maplike struct {
	BaseNode
	ExtAttrs  *ExtAttrList
	Readonly  bool
	KeyType   *Type
	ValueType *Type
}

func NewMaplike() *Maplike { return &Maplike{BaseNode: NewBase(KindMaplike)} }

func (n *Maplike) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.KeyType != nil {
		out = append(out, n.KeyType)
	}
	if n.ValueType != nil {
		out = append(out, n.ValueType)
	}
	return out
}

// Setlike is `[readonly] setlike<T>;`. Tokens: "readonly", "setlike",
// "open", "close", "termination".
type Setlike struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Readonly bool
	Type     *Type
}

func NewSetlike() *Setlike { return &Setlike{BaseNode: NewBase(KindSetlike)} }

func (n *Setlike) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// DictionaryMember is a dictionary field. Tokens: "required", "name",
// "eq", "termination".
type DictionaryMember struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Required bool
	Type     *Type
	Name     string
	Default  string
}

func NewDictionaryMember() *DictionaryMember {
	return &DictionaryMember{BaseNode: NewBase(KindDictionaryMember)}
}

func (n *DictionaryMember) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// ---- top-level definitions ----

// GenDecl marks the top-level definition kinds, mirroring the
// teacher's isGenDecl() marker pattern (ast.go), generalized to the
// full set of top-level productions.
type GenDecl interface {
	Node
	isGenDecl()
}

// File is the root node: an ordered sequence of top-level definitions,
// plus the trailing trivia of the stream's EOF token.
type File struct {
	BaseNode
	Declarations []GenDecl
	EOFTrivia    string
}

func NewFile() *File { return &File{BaseNode: NewBase(KindFile)} }

func (n *File) Children() []Node {
	out := make([]Node, 0, len(n.Declarations))
	for _, d := range n.Declarations {
		out = append(out, d)
	}
	return out
}

// Interface is `[partial] interface [mixin] Name [: Parent] { members };`.
// Tokens: "partial", "interface", "mixin", "name", "colon",
// "inheritance", "open", "close", "termination".
type Interface struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Partial  bool
	Mixin    bool
	Name     string
	Inherits string
	Members  []Node
}

func NewInterface() *Interface { return &Interface{BaseNode: NewBase(KindInterface)} }

func (Interface) isGenDecl() {}

func (n *Interface) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	out = append(out, n.Members...)
	return out
}

// HasAnnotation reports whether the interface's extended-attribute
// block contains an attribute with the given name.
func (n *Interface) HasAnnotation(name string) bool {
	return hasAnnotation(n.ExtAttrs, name)
}

// Dictionary is `[partial] dictionary Name [: Parent] { members };`.
// Tokens as Interface, minus "mixin".
type Dictionary struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Partial  bool
	Name     string
	Inherits string
	Members  []*DictionaryMember
}

func NewDictionary() *Dictionary { return &Dictionary{BaseNode: NewBase(KindDictionary)} }

func (Dictionary) isGenDecl() {}

func (n *Dictionary) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	for _, m := range n.Members {
		out = append(out, m)
	}
	return out
}

// EnumValue is one double-quoted string in an enum body. Tokens:
// "value", "comma".
type EnumValue struct {
	BaseNode
	Value string
}

func NewEnumValue() *EnumValue { return &EnumValue{BaseNode: NewBase(KindEnumValue)} }
func (n *EnumValue) Children() []Node { return nil }

// Enum is `enum Name { "a", "b" };`. Tokens: "enum", "name", "open",
// "close", "termination".
type Enum struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Name     string
	Values   []*EnumValue
}

func NewEnum() *Enum { return &Enum{BaseNode: NewBase(KindEnum)} }

func (Enum) isGenDecl() {}

func (n *Enum) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	for _, v := range n.Values {
		out = append(out, v)
	}
	return out
}

// Typedef is `typedef type Name;`. Tokens: "typedef", "name",
// "termination".
type Typedef struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Type     *Type
	Name     string
}

func NewTypedef() *Typedef { return &Typedef{BaseNode: NewBase(KindTypedef)} }

func (Typedef) isGenDecl() {}

func (n *Typedef) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

// Namespace is `[partial] namespace Name { members };`. Tokens:
// "partial", "namespace", "name", "open", "close", "termination".
type Namespace struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Partial  bool
	Name     string
	Members  []Node
}

func NewNamespace() *Namespace { return &Namespace{BaseNode: NewBase(KindNamespace)} }

func (Namespace) isGenDecl() {}

func (n *Namespace) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	out = append(out, n.Members...)
	return out
}

// CallbackInterface is `callback interface Name { members };`. Tokens:
// "callback", "interface", "name", "open", "close", "termination".
type CallbackInterface struct {
	BaseNode
	ExtAttrs *ExtAttrList
	Name     string
	Members  []Node
}

func NewCallbackInterface() *CallbackInterface {
	return &CallbackInterface{BaseNode: NewBase(KindCallbackInterface)}
}

func (CallbackInterface) isGenDecl() {}

func (n *CallbackInterface) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	out = append(out, n.Members...)
	return out
}

// Callback is `callback Name = ReturnType (args);`. Tokens: "callback",
// "name", "eq", "open", "close", "termination".
type Callback struct {
	BaseNode
	ExtAttrs   *ExtAttrList
	Name       string
	ReturnType *Type
	Args       []*Argument
}

func NewCallback() *Callback { return &Callback{BaseNode: NewBase(KindCallback)} }

func (Callback) isGenDecl() {}

func (n *Callback) Children() []Node {
	out := extAttrChildren(n.ExtAttrs)
	if n.ReturnType != nil {
		out = append(out, n.ReturnType)
	}
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}

// Includes is `Target includes Source;`. Tokens: "target", "includes",
// "source", "termination".
type Includes struct {
	BaseNode
	Target string
	Source string
}

func NewIncludes() *Includes { return &Includes{BaseNode: NewBase(KindIncludes)} }

func (Includes) isGenDecl() {}
func (n *Includes) Children() []Node { return nil }

// ---- shared helpers ----

func extAttrChildren(l *ExtAttrList) []Node {
	if l == nil {
		return nil
	}
	return []Node{l}
}

func hasAnnotation(l *ExtAttrList, name string) bool {
	if l == nil {
		return false
	}
	for _, it := range l.Items {
		if it.Name == name {
			return true
		}
	}
	return false
}
