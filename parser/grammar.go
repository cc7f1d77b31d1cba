package parser

import (
	"github.com/webidl-go/core/ast"
	"github.com/webidl-go/core/token"
)

// finish sorts a node's Parts into token order and returns it, so every
// production function can end with "return finish(n)" regardless of
// what order its Put/SetChild calls happened in.
func finish[T ast.Node](n T) T {
	n.Base().Finish()
	return n
}

// attachExtAttrs wires an optional extended-attribute block onto owner.
// A plain "if extAttrs != nil" guard is not enough here: passing a typed
// nil *ast.ExtAttrList straight to ast.SetChild's Node parameter would
// produce a non-nil interface wrapping a nil pointer, defeating
// SetChild's own nil check.
func attachExtAttrs(owner ast.Node, extAttrs *ast.ExtAttrList) {
	if extAttrs != nil {
		ast.SetChild(owner, extAttrs)
	}
}

// argumentNameKeywords are reserved words the grammar re-accepts as
// plain names in argument/attribute/operation name position, per the
// tokenizer's keyword-table comment.
var argumentNameKeywords = []token.Kind{
	token.KwAsync, token.KwAttribute, token.KwCallback, token.KwConst,
	token.KwConstructor, token.KwDeleter, token.KwDictionary, token.KwEnum,
	token.KwGetter, token.KwIncludes, token.KwInherit, token.KwInterface,
	token.KwIterable, token.KwMaplike, token.KwNamespace, token.KwPartial,
	token.KwRequired, token.KwSetlike, token.KwSetter, token.KwStatic,
	token.KwStringifier, token.KwTypedef, token.KwUnrestricted,
}

var nameKinds = append([]token.Kind{token.Identifier}, argumentNameKeywords...)

// consumeName accepts an Identifier or any argument-name keyword.
func (p *parser) consumeName() (token.Token, bool) {
	return p.consume(nameKinds...)
}

var constValueKinds = []token.Kind{
	token.KwTrue, token.KwFalse, token.KwNull,
	token.KwInfinity, token.KwNegativeInfinity, token.KwNaN,
	token.Decimal, token.Integer,
}

func (p *parser) consumeConstValue() token.Token {
	t, ok := p.consume(constValueKinds...)
	if !ok {
		p.error("expected a constant value")
	}
	return t
}

// typeStartKinds is the full set of tokens that can begin an idlType;
// tryType uses it to decide, without committing, whether a type is
// present at all.
var typeStartKinds = []token.Kind{
	token.KwAny, token.KwSequence, token.KwRecord, token.KwPromise,
	token.KwFrozenArray, token.LeftParen,
	token.KwUnsigned, token.KwUnrestricted, token.KwLong, token.KwShort,
	token.KwByte, token.KwOctet, token.KwFloat, token.KwDouble,
	token.KwBoolean, token.KwObject, token.KwSymbol,
	token.KwByteString, token.KwDOMString, token.KwUSVString,
	token.KwArrayBuffer, token.KwDataView,
	token.KwInt8Array, token.KwInt16Array, token.KwInt32Array,
	token.KwUint8Array, token.KwUint16Array, token.KwUint32Array,
	token.KwUint8ClampedArray, token.KwFloat32Array, token.KwFloat64Array,
	token.Identifier,
}

var simpleTypeNameKinds = []token.Kind{
	token.KwShort, token.KwByte, token.KwOctet, token.KwFloat, token.KwDouble,
	token.KwBoolean, token.KwObject, token.KwSymbol,
	token.KwByteString, token.KwDOMString, token.KwUSVString,
	token.KwArrayBuffer, token.KwDataView,
	token.KwInt8Array, token.KwInt16Array, token.KwInt32Array,
	token.KwUint8Array, token.KwUint16Array, token.KwUint32Array,
	token.KwUint8ClampedArray, token.KwFloat32Array, token.KwFloat64Array,
}

// tryType reports whether a type begins at the cursor without
// committing; on a match it delegates to consumeType, which owns all
// the fatal-error commitments for malformed generics and prefixes.
func (p *parser) tryType() (*ast.Type, bool) {
	if !p.probeAny(typeStartKinds...) {
		return nil, false
	}
	return p.consumeType(), true
}

// consumeType parses a single idlType. Call only once tryType (or an
// equivalent lookahead) has confirmed a type starts here.
func (p *parser) consumeType() *ast.Type {
	n := ast.NewType()

	if t, ok := p.consume(token.KwAny); ok {
		n.Put("name", t)
		n.Name = "any"
		return finish(n)
	}

	if t, ok := p.consume(token.KwSequence); ok {
		n.Put("name", t)
		n.Generic = "sequence"
		n.Put("open", p.expect("sequence<T> requires '<'", token.LeftAngle))
		inner := p.consumeType()
		n.Params = []*ast.Type{ast.AppendChild(n, inner)}
		n.Put("close", p.expect("sequence<T> requires '>'", token.RightAngle))
		p.consumeNullable(n)
		return finish(n)
	}

	if t, ok := p.consume(token.KwFrozenArray); ok {
		n.Put("name", t)
		n.Generic = "FrozenArray"
		n.Put("open", p.expect("FrozenArray<T> requires '<'", token.LeftAngle))
		inner := p.consumeType()
		n.Params = []*ast.Type{ast.AppendChild(n, inner)}
		n.Put("close", p.expect("FrozenArray<T> requires '>'", token.RightAngle))
		p.consumeNullable(n)
		return finish(n)
	}

	if t, ok := p.consume(token.KwPromise); ok {
		n.Put("name", t)
		n.Generic = "Promise"
		n.Put("open", p.expect("Promise<T> requires '<'", token.LeftAngle))
		var inner *ast.Type
		if voidTok, ok := p.consume(token.KwVoid); ok {
			inner = ast.NewType()
			inner.Put("name", voidTok)
			inner.Name = "void"
			inner = finish(inner)
		} else {
			inner = p.consumeType()
		}
		n.Params = []*ast.Type{ast.AppendChild(n, inner)}
		n.Put("close", p.expect("Promise<T> requires '>'", token.RightAngle))
		return finish(n)
	}

	if t, ok := p.consume(token.KwRecord); ok {
		n.Put("name", t)
		n.Generic = "record"
		n.Put("open", p.expect("record<K, V> requires '<'", token.LeftAngle))
		keyType := p.consumeType()
		ast.AppendChild(n, keyType)
		n.Put("comma", p.expect("record<K, V> requires ','", token.Comma))
		valType := p.consumeType()
		ast.AppendChild(n, valType)
		n.Params = []*ast.Type{keyType, valType}
		n.Put("close", p.expect("record<K, V> requires '>'", token.RightAngle))
		p.consumeNullable(n)
		return finish(n)
	}

	if open, ok := p.consume(token.LeftParen); ok {
		n.Put("open", open)
		var types []*ast.Type
		first := p.consumeType()
		types = append(types, first)
		ast.AppendChild(n, first)
		for {
			orTok, ok := p.consume(token.KwOr)
			if !ok {
				break
			}
			n.Put("or", orTok)
			next := p.consumeType()
			types = append(types, next)
			ast.AppendChild(n, next)
		}
		if len(types) < 2 {
			p.error("a parenthesized type must be a union of at least two members")
		}
		n.Put("close", p.expect("union type requires ')'", token.RightParen))
		n.Union = types
		p.consumeNullable(n)
		return finish(n)
	}

	text, toks, ok := p.tryTypeNameBase()
	if !ok {
		p.error("expected a type")
	}
	for i, t := range toks {
		if i == len(toks)-1 {
			n.Put("name", t)
		} else {
			n.Put("prefix", t)
		}
	}
	n.Name = text
	p.consumeNullable(n)
	return finish(n)
}

// consumeNullable consumes a trailing "?" if present.
func (p *parser) consumeNullable(n *ast.Type) {
	if q, ok := p.consume(token.Question); ok {
		n.Nullable = true
		n.Put("question", q)
	}
}

// tryTypeNameBase parses the non-generic, non-union type names: the
// two-word prefixed numerics ("unsigned long", "unrestricted double",
// "long long"), the single-keyword primitives/buffer-source types, and
// plain identifier type references. Once a prefix keyword is consumed
// the production is committed: a missing mandatory follow-up is a
// fatal error, not a backtrack.
func (p *parser) tryTypeNameBase() (string, []token.Token, bool) {
	if t, ok := p.consume(token.KwUnsigned); ok {
		if t2, ok2 := p.consume(token.KwShort); ok2 {
			return "unsigned short", []token.Token{t, t2}, true
		}
		if t2, ok2 := p.consume(token.KwLong); ok2 {
			if t3, ok3 := p.consume(token.KwLong); ok3 {
				return "unsigned long long", []token.Token{t, t2, t3}, true
			}
			return "unsigned long", []token.Token{t, t2}, true
		}
		p.error("expected 'short' or 'long' after 'unsigned'")
	}

	if t, ok := p.consume(token.KwUnrestricted); ok {
		if t2, ok2 := p.consume(token.KwFloat); ok2 {
			return "unrestricted float", []token.Token{t, t2}, true
		}
		if t2, ok2 := p.consume(token.KwDouble); ok2 {
			return "unrestricted double", []token.Token{t, t2}, true
		}
		p.error("expected 'float' or 'double' after 'unrestricted'")
	}

	if t, ok := p.consume(token.KwLong); ok {
		if t2, ok2 := p.consume(token.KwLong); ok2 {
			return "long long", []token.Token{t, t2}, true
		}
		return "long", []token.Token{t}, true
	}

	if t, ok := p.consume(simpleTypeNameKinds...); ok {
		return t.Kind.String(), []token.Token{t}, true
	}

	if t, ok := p.consume(token.Identifier); ok {
		return t.Lexeme, []token.Token{t}, true
	}

	return "", nil, false
}

// consumeReturnType is consumeType plus "void", for operation and
// callback return positions.
func (p *parser) consumeReturnType() *ast.Type {
	if t, ok := p.consume(token.KwVoid); ok {
		n := ast.NewType()
		n.Put("name", t)
		n.Name = "void"
		return finish(n)
	}
	return p.consumeType()
}

// tryReturnType is the non-committing lookahead form of
// consumeReturnType, mirroring tryType's relationship to consumeType.
// Operations need this rather than tryType directly: "void" is not in
// typeStartKinds (it is never valid in an ordinary type position), but
// it is the single most common operation return type.
func (p *parser) tryReturnType() (*ast.Type, bool) {
	if p.probe(token.KwVoid) {
		return p.consumeReturnType(), true
	}
	return p.tryType()
}

// ---- extended attributes ----

func (p *parser) consumeExtAttrs() *ast.ExtAttrList {
	if !p.probe(token.LeftBracket) {
		return nil
	}
	l := ast.NewExtAttrList()
	open, _ := p.consume(token.LeftBracket)
	l.Put("open", open)
	items := list(p, func() (*ast.ExtAttr, bool) { return p.tryExtAttr() }, false, "extended attribute list",
		func(item *ast.ExtAttr, comma token.Token) { item.Put("comma", comma); item.Finish() })
	l.Items = items
	for _, it := range items {
		ast.SetChild(l, it)
	}
	l.Put("close", p.expect("extended attribute list must end with ']'", token.RightBracket))
	return finish(l)
}

func (p *parser) tryExtAttr() (*ast.ExtAttr, bool) {
	nameTok, ok := p.consume(token.Identifier)
	if !ok {
		return nil, false
	}
	n := ast.NewExtAttr()
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme

	if eq, ok := p.consume(token.Equals); ok {
		n.Put("eq", eq)
		switch {
		case p.probe(token.LeftParen):
			open, _ := p.consume(token.LeftParen)
			n.Put("lparen", open)
			n.Values = list(p, func() (string, bool) {
				t, ok := p.consume(token.Identifier)
				if !ok {
					return "", false
				}
				n.Put("value", t)
				return t.Lexeme, true
			}, false, "extended attribute value list",
				func(_ string, comma token.Token) { n.Put("comma", comma) })
			n.Put("rparen", p.expect("expected ')'", token.RightParen))
		default:
			idTok, ok := p.consume(token.Identifier)
			if !ok {
				p.error("expected an identifier or '(' after '='")
			}
			n.Put("value", idTok)
			n.Value = idTok.Lexeme
			if popen, ok := p.consume(token.LeftParen); ok {
				n.ArgsName = idTok.Lexeme
				n.Value = ""
				n.Put("lparen", popen)
				n.Args = p.argumentListInner()
				for _, a := range n.Args {
					ast.SetChild(n, a)
				}
				n.Put("rparen", p.expect("expected ')'", token.RightParen))
			}
		}
	} else if p.probe(token.LeftParen) {
		open, _ := p.consume(token.LeftParen)
		n.Put("lparen", open)
		n.Args = p.argumentListInner()
		for _, a := range n.Args {
			ast.SetChild(n, a)
		}
		n.Put("rparen", p.expect("expected ')'", token.RightParen))
	}

	return finish(n), true
}

// ---- arguments ----

// argumentListInner parses zero or more comma-separated arguments up
// to (but not consuming) the closing ')'. Callers consume both parens
// themselves so the parens register on the node that owns them.
func (p *parser) argumentListInner() []*ast.Argument {
	if p.probe(token.RightParen) {
		return nil
	}
	return list(p, func() (*ast.Argument, bool) { return p.tryArgument() }, false, "argument list",
		func(item *ast.Argument, comma token.Token) { item.Put("comma", comma); item.Finish() })
}

func (p *parser) tryArgument() (*ast.Argument, bool) {
	extAttrs := p.consumeExtAttrs()
	n := ast.NewArgument()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs

	optTok, optional := p.consume(token.KwOptional)
	if optional {
		n.Optional = true
		n.Put("optional", optTok)
	}

	typ, ok := p.tryType()
	if !ok {
		if optional {
			p.error("expected a type after 'optional'")
		}
		return nil, false
	}
	n.Type = typ
	ast.SetChild(n, typ)

	if ell, ok := p.consume(token.Ellipsis); ok {
		n.Variadic = true
		n.Put("ellipsis", ell)
	}

	nameTok, ok := p.consumeName()
	if !ok {
		p.error("argument lacks a name")
	}
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme

	if v, ok := p.consumeDefaultValueInto(n); ok {
		n.Default = v
	}

	return finish(n), true
}

// consumeDefaultValueInto consumes "= value" if present, registering
// every token it reads onto n so the writer can round-trip it.
func (p *parser) consumeDefaultValueInto(n interface {
	Put(string, token.Token) token.Token
}) (string, bool) {
	eq, ok := p.consume(token.Equals)
	if !ok {
		return "", false
	}
	n.Put("eq", eq)
	if openB, ok := p.consume(token.LeftBracket); ok {
		n.Put("defaultOpen", openB)
		n.Put("defaultClose", p.expect("expected ']' for empty default list", token.RightBracket))
		return "[]", true
	}
	if openB, ok := p.consume(token.LeftBrace); ok {
		n.Put("defaultOpen", openB)
		n.Put("defaultClose", p.expect("expected '}' for empty default dictionary", token.RightBrace))
		return "{}", true
	}
	valTok, ok := p.consume(token.String, token.Decimal, token.Integer,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwInfinity, token.KwNegativeInfinity, token.KwNaN)
	if !ok {
		p.error("expected a default value")
	}
	n.Put("default", valTok)
	return valTok.Lexeme, true
}

// ---- bodies ----

// memberParser parses one member given the extended attributes already
// consumed ahead of it, reporting whether it matched.
type memberParser func(extAttrs *ast.ExtAttrList) (ast.Node, bool)

// body parses members until '}', trying each parser at the current
// position (after a shared extended-attribute parse) in order and
// backtracking between attempts — the container productions' shared
// member-body loop (spec §4.2's "shared body-parser").
func (p *parser) body(owner ast.Node, parsers ...memberParser) []ast.Node {
	var out []ast.Node
	for !p.probe(token.RightBrace) {
		extAttrs := p.consumeExtAttrs()
		alts := make([]func() (ast.Node, bool), len(parsers))
		for i, try := range parsers {
			try := try
			alts[i] = func() (ast.Node, bool) { return try(extAttrs) }
		}
		found, matched := oneOf(p, alts...)
		if !matched {
			p.errorf("unexpected token in member list: %v", p.current().Kind)
		}
		ast.SetChild(owner, found)
		out = append(out, found)
	}
	return out
}

func (p *parser) tryConst(extAttrs *ast.ExtAttrList) (ast.Node, bool) {
	constTok, ok := p.consume(token.KwConst)
	if !ok {
		return nil, false
	}
	n := ast.NewConst()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	n.Put("const", constTok)
	typ := p.consumeType()
	n.Type = typ
	ast.SetChild(n, typ)
	nameTok := p.expect("const lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme
	n.Put("eq", p.expect("expected '='", token.Equals))
	valTok := p.consumeConstValue()
	n.Value = valTok.Lexeme
	n.Put("value", valTok)
	n.Put("termination", p.expect("unterminated const, expected ';'", token.Semicolon))
	return finish(n), true
}

func (p *parser) tryConstructor(extAttrs *ast.ExtAttrList) (ast.Node, bool) {
	ctorTok, ok := p.consume(token.KwConstructor)
	if !ok {
		return nil, false
	}
	n := ast.NewConstructor()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	n.Put("constructor", ctorTok)
	n.Put("open", p.expect("constructor requires '('", token.LeftParen))
	n.Args = p.argumentListInner()
	for _, a := range n.Args {
		ast.SetChild(n, a)
	}
	n.Put("close", p.expect("constructor requires ')'", token.RightParen))
	n.Put("termination", p.expect("unterminated constructor, expected ';'", token.Semicolon))
	return finish(n), true
}

var attributeNameKinds = []token.Kind{token.Identifier, token.KwAsync, token.KwRequired}

func (p *parser) tryAttribute(extAttrs *ast.ExtAttrList) (*ast.Attribute, bool) {
	saved := p.mark()
	n := ast.NewAttribute()

	var stringifierTok token.Token
	hasStringifier := false
	if t, ok := p.consume(token.KwStringifier); ok {
		stringifierTok, hasStringifier = t, true
	}

	var inheritTok token.Token
	hasInherit := false
	if t, ok := p.consume(token.KwInherit); ok {
		inheritTok, hasInherit = t, true
		if p.probe(token.KwReadonly) {
			p.error("inherited attributes cannot be read-only")
		}
	}

	var readonlyTok token.Token
	hasReadonly := false
	if t, ok := p.consume(token.KwReadonly); ok {
		readonlyTok, hasReadonly = t, true
	}

	attrTok, ok := p.consume(token.KwAttribute)
	if !ok {
		p.unconsume(saved)
		return nil, false
	}

	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	if hasStringifier {
		n.Stringifier = true
		n.Put("stringifier", stringifierTok)
	}
	if hasInherit {
		n.Inherit = true
		n.Put("inherit", inheritTok)
	}
	if hasReadonly {
		n.Readonly = true
		n.Put("readonly", readonlyTok)
	}
	n.Put("attribute", attrTok)

	typ, ok := p.tryType()
	if !ok {
		p.error("attribute lacks a type")
	}
	if typ.Generic == "sequence" || typ.Generic == "record" {
		p.errorf("attributes cannot accept %s types", typ.Generic)
	}
	n.Type = typ
	ast.SetChild(n, typ)

	nameTok, ok := p.consume(attributeNameKinds...)
	if !ok {
		p.error("attribute lacks a name")
	}
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme

	n.Put("termination", p.expect("unterminated attribute, expected ';'", token.Semicolon))
	return finish(n), true
}

var specialKinds = []token.Kind{token.KwGetter, token.KwSetter, token.KwDeleter, token.KwStringifier}

func (p *parser) tryOperation(extAttrs *ast.ExtAttrList) (*ast.Operation, bool) {
	n := ast.NewOperation()

	var specialTok token.Token
	hasSpecial := false
	if t, ok := p.consume(specialKinds...); ok {
		specialTok, hasSpecial = t, true
	}

	// A bare "stringifier;" has no return type, name, or argument list.
	if hasSpecial && specialTok.Kind == token.KwStringifier {
		if semi, ok := p.consume(token.Semicolon); ok {
			attachExtAttrs(n, extAttrs)
			n.ExtAttrs = extAttrs
			n.Special = "stringifier"
			n.Put("special", specialTok)
			n.Put("termination", semi)
			return finish(n), true
		}
		// "stringifier attribute ..." is a distinct member kind
		// (tryAttribute, with its own leading-stringifier handling),
		// not a stringifier operation — back off instead of chasing a
		// return type that can never be "attribute".
		if p.probe(token.KwAttribute) {
			return nil, false
		}
	}

	retType, ok := p.tryReturnType()
	if !ok {
		if hasSpecial {
			p.error("operation lacks a return type")
		}
		return nil, false
	}

	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	if hasSpecial {
		n.Special = specialTok.Kind.String()
		n.Put("special", specialTok)
	}
	n.ReturnType = retType
	ast.SetChild(n, retType)

	if nameTok, ok := p.consumeName(); ok {
		n.Put("name", nameTok)
		n.Name = nameTok.Lexeme
	}

	n.Put("open", p.expect("operation requires '('", token.LeftParen))
	n.Args = p.argumentListInner()
	for _, a := range n.Args {
		ast.SetChild(n, a)
	}
	n.Put("close", p.expect("operation requires ')'", token.RightParen))
	n.Put("termination", p.expect("unterminated operation, expected ';'", token.Semicolon))
	return finish(n), true
}

func (p *parser) tryStaticMember(extAttrs *ast.ExtAttrList) (ast.Node, bool) {
	saved := p.mark()
	staticTok, ok := p.consume(token.KwStatic)
	if !ok {
		return nil, false
	}
	if attr, ok := p.tryAttribute(extAttrs); ok {
		attr.Static = true
		attr.Put("static", staticTok)
		attr.Finish()
		return attr, true
	}
	if op, ok := p.tryOperation(extAttrs); ok {
		op.Static = true
		op.Put("static", staticTok)
		op.Finish()
		return op, true
	}
	p.unconsume(saved)
	return nil, false
}

func (p *parser) tryIterableLike(extAttrs *ast.ExtAttrList) (ast.Node, bool) {
	if asyncTok, ok := p.consume(token.KwAsync); ok {
		iterTok, ok := p.consume(token.KwIterable)
		if !ok {
			p.error("expected 'iterable' after 'async'")
		}
		n := ast.NewIterable()
		attachExtAttrs(n, extAttrs)
		n.ExtAttrs = extAttrs
		n.Async = true
		n.Put("async", asyncTok)
		n.Put("iterable", iterTok)
		n.Put("open", p.expect("iterable<> requires '<'", token.LeftAngle))
		first := p.consumeType()
		if comma, ok := p.consume(token.Comma); ok {
			n.Put("comma", comma)
			second := p.consumeType()
			n.KeyType = ast.AppendChild(n, first)
			n.ValueType = ast.AppendChild(n, second)
		} else {
			n.ValueType = ast.AppendChild(n, first)
		}
		n.Put("close", p.expect("iterable<> requires '>'", token.RightAngle))
		n.Put("termination", p.expect("unterminated iterable declaration, expected ';'", token.Semicolon))
		return finish(n), true
	}

	if iterTok, ok := p.consume(token.KwIterable); ok {
		n := ast.NewIterable()
		attachExtAttrs(n, extAttrs)
		n.ExtAttrs = extAttrs
		n.Put("iterable", iterTok)
		n.Put("open", p.expect("iterable<> requires '<'", token.LeftAngle))
		first := p.consumeType()
		if comma, ok := p.consume(token.Comma); ok {
			n.Put("comma", comma)
			second := p.consumeType()
			n.KeyType = ast.AppendChild(n, first)
			n.ValueType = ast.AppendChild(n, second)
		} else {
			n.ValueType = ast.AppendChild(n, first)
		}
		n.Put("close", p.expect("iterable<> requires '>'", token.RightAngle))
		n.Put("termination", p.expect("unterminated iterable declaration, expected ';'", token.Semicolon))
		return finish(n), true
	}

	var readonlyTok token.Token
	hasReadonly := false
	saved := p.mark()
	if t, ok := p.consume(token.KwReadonly); ok {
		readonlyTok, hasReadonly = t, true
	}

	if mapTok, ok := p.consume(token.KwMaplike); ok {
		n := ast.NewMaplike()
		attachExtAttrs(n, extAttrs)
		n.ExtAttrs = extAttrs
		if hasReadonly {
			n.Readonly = true
			n.Put("readonly", readonlyTok)
		}
		n.Put("maplike", mapTok)
		n.Put("open", p.expect("maplike<> requires '<'", token.LeftAngle))
		n.KeyType = ast.AppendChild(n, p.consumeType())
		n.Put("comma", p.expect("maplike<K, V> requires ','", token.Comma))
		n.ValueType = ast.AppendChild(n, p.consumeType())
		n.Put("close", p.expect("maplike<> requires '>'", token.RightAngle))
		n.Put("termination", p.expect("unterminated maplike declaration, expected ';'", token.Semicolon))
		return finish(n), true
	}

	if setTok, ok := p.consume(token.KwSetlike); ok {
		n := ast.NewSetlike()
		attachExtAttrs(n, extAttrs)
		n.ExtAttrs = extAttrs
		if hasReadonly {
			n.Readonly = true
			n.Put("readonly", readonlyTok)
		}
		n.Put("setlike", setTok)
		n.Put("open", p.expect("setlike<> requires '<'", token.LeftAngle))
		n.Type = ast.AppendChild(n, p.consumeType())
		n.Put("close", p.expect("setlike<> requires '>'", token.RightAngle))
		n.Put("termination", p.expect("unterminated setlike declaration, expected ';'", token.Semicolon))
		return finish(n), true
	}

	p.unconsume(saved)
	return nil, false
}

// ---- top-level definitions ----

func (p *parser) parseFile() *ast.File {
	f := ast.NewFile()
	for !p.probe(token.EOF) {
		decl := p.consumeDefinition()
		f.Declarations = append(f.Declarations, decl)
		ast.SetChild(f, decl)
	}
	eofTok, _ := p.consume(token.EOF)
	f.EOFTrivia = eofTok.Trivia
	return finish(f)
}

func (p *parser) consumeDefinition() ast.GenDecl {
	extAttrs := p.consumeExtAttrs()
	partialTok, partial := p.consume(token.KwPartial)

	switch {
	case p.probe(token.KwInterface):
		return p.consumeInterfaceOrMixin(extAttrs, partialTok, partial)
	case p.probe(token.KwDictionary):
		return p.consumeDictionary(extAttrs, partialTok, partial)
	case p.probe(token.KwNamespace):
		return p.consumeNamespace(extAttrs, partialTok, partial)
	case partial:
		p.error("expected 'interface', 'dictionary', or 'namespace' after 'partial'")
	case p.probe(token.KwEnum):
		return p.consumeEnum(extAttrs)
	case p.probe(token.KwTypedef):
		return p.consumeTypedef(extAttrs)
	case p.probe(token.KwCallback):
		return p.consumeCallbackOrCallbackInterface(extAttrs)
	case p.probe(token.Identifier):
		return p.consumeIncludes(extAttrs)
	}
	p.errorf("unexpected token at top level: %v", p.current().Kind)
	panic("unreachable")
}

func (p *parser) consumeIncludes(_ *ast.ExtAttrList) *ast.Includes {
	n := ast.NewIncludes()
	targetTok := p.expect("expected an interface name", token.Identifier)
	n.Put("target", targetTok)
	n.Target = targetTok.Lexeme
	n.Put("includes", p.expect("expected 'includes'", token.KwIncludes))
	sourceTok := p.expect("expected a mixin name", token.Identifier)
	n.Put("source", sourceTok)
	n.Source = sourceTok.Lexeme
	n.Put("termination", p.expect("unterminated includes statement, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeInterfaceOrMixin(extAttrs *ast.ExtAttrList, partialTok token.Token, partial bool) ast.GenDecl {
	n := ast.NewInterface()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	if partial {
		n.Partial = true
		n.Put("partial", partialTok)
	}
	n.Put("interface", p.expect("expected 'interface'", token.KwInterface))
	if mixinTok, ok := p.consume(token.KwMixin); ok {
		n.Mixin = true
		n.Put("mixin", mixinTok)
	}
	nameTok := p.expect("interface lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme

	if !n.Mixin {
		if colon, ok := p.consume(token.Colon); ok {
			n.Put("colon", colon)
			parentTok := p.expect("expected a parent interface name", token.Identifier)
			n.Put("inheritance", parentTok)
			n.Inherits = parentTok.Lexeme
		}
	}

	n.Put("open", p.expect("interface body requires '{'", token.LeftBrace))
	members := p.body(n,
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryConst(e) },
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryConstructor(e) },
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryStaticMember(e) },
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryIterableLike(e) },
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryAttribute(e) },
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryOperation(e) },
	)
	n.Members = members
	n.Put("close", p.expect("interface body requires '}'", token.RightBrace))
	n.Put("termination", p.expect("unterminated interface, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeDictionary(extAttrs *ast.ExtAttrList, partialTok token.Token, partial bool) ast.GenDecl {
	n := ast.NewDictionary()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	if partial {
		n.Partial = true
		n.Put("partial", partialTok)
	}
	n.Put("dictionary", p.expect("expected 'dictionary'", token.KwDictionary))
	nameTok := p.expect("dictionary lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme

	if colon, ok := p.consume(token.Colon); ok {
		n.Put("colon", colon)
		parentTok := p.expect("expected a parent dictionary name", token.Identifier)
		n.Put("inheritance", parentTok)
		n.Inherits = parentTok.Lexeme
	}

	n.Put("open", p.expect("dictionary body requires '{'", token.LeftBrace))
	for !p.probe(token.RightBrace) {
		m := p.consumeDictionaryMember()
		n.Members = append(n.Members, m)
		ast.SetChild(n, m)
	}
	n.Put("close", p.expect("dictionary body requires '}'", token.RightBrace))
	n.Put("termination", p.expect("unterminated dictionary, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeDictionaryMember() *ast.DictionaryMember {
	extAttrs := p.consumeExtAttrs()
	n := ast.NewDictionaryMember()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs

	if reqTok, ok := p.consume(token.KwRequired); ok {
		n.Required = true
		n.Put("required", reqTok)
	}

	typ, ok := p.tryType()
	if !ok {
		p.error("dictionary member lacks a type")
	}
	n.Type = typ
	ast.SetChild(n, typ)

	nameTok, ok := p.consumeName()
	if !ok {
		p.error("dictionary member lacks a name")
	}
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme

	if v, ok := p.consumeDefaultValueInto(n); ok {
		n.Default = v
	}
	if n.Required && n.Default != "" {
		p.error("a required dictionary member cannot have a default value")
	}

	n.Put("termination", p.expect("unterminated dictionary member, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeEnum(extAttrs *ast.ExtAttrList) ast.GenDecl {
	n := ast.NewEnum()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	n.Put("enum", p.expect("expected 'enum'", token.KwEnum))
	nameTok := p.expect("enum lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme
	n.Put("open", p.expect("enum body requires '{'", token.LeftBrace))

	values := list(p, func() (*ast.EnumValue, bool) {
		t, ok := p.consume(token.String)
		if !ok {
			return nil, false
		}
		v := ast.NewEnumValue()
		v.Put("value", t)
		v.Value = t.Lexeme
		return finish(v), true
	}, false, "enum value list",
		func(item *ast.EnumValue, comma token.Token) { item.Put("comma", comma); item.Finish() })
	if len(values) == 0 {
		p.error("an enum requires at least one value")
	}
	n.Values = values
	for _, v := range values {
		ast.SetChild(n, v)
	}

	n.Put("close", p.expect("enum body requires '}'", token.RightBrace))
	n.Put("termination", p.expect("unterminated enum, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeTypedef(extAttrs *ast.ExtAttrList) ast.GenDecl {
	n := ast.NewTypedef()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	n.Put("typedef", p.expect("expected 'typedef'", token.KwTypedef))
	typ := p.consumeType()
	n.Type = typ
	ast.SetChild(n, typ)
	nameTok := p.expect("typedef lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme
	n.Put("termination", p.expect("unterminated typedef, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeNamespace(extAttrs *ast.ExtAttrList, partialTok token.Token, partial bool) ast.GenDecl {
	n := ast.NewNamespace()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	if partial {
		n.Partial = true
		n.Put("partial", partialTok)
	}
	n.Put("namespace", p.expect("expected 'namespace'", token.KwNamespace))
	nameTok := p.expect("namespace lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme
	n.Put("open", p.expect("namespace body requires '{'", token.LeftBrace))
	members := p.body(n,
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryAttribute(e) },
		func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryOperation(e) },
	)
	n.Members = members
	n.Put("close", p.expect("namespace body requires '}'", token.RightBrace))
	n.Put("termination", p.expect("unterminated namespace, expected ';'", token.Semicolon))
	return finish(n)
}

func (p *parser) consumeCallbackOrCallbackInterface(extAttrs *ast.ExtAttrList) ast.GenDecl {
	callbackTok := p.expect("expected 'callback'", token.KwCallback)

	if ifaceTok, ok := p.consume(token.KwInterface); ok {
		n := ast.NewCallbackInterface()
		attachExtAttrs(n, extAttrs)
		n.ExtAttrs = extAttrs
		n.Put("callback", callbackTok)
		n.Put("interface", ifaceTok)
		nameTok := p.expect("callback interface lacks a name", token.Identifier)
		n.Put("name", nameTok)
		n.Name = nameTok.Lexeme
		n.Put("open", p.expect("callback interface body requires '{'", token.LeftBrace))
		members := p.body(n,
			func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryConst(e) },
			func(e *ast.ExtAttrList) (ast.Node, bool) { return p.tryOperation(e) },
		)
		n.Members = members
		n.Put("close", p.expect("callback interface body requires '}'", token.RightBrace))
		n.Put("termination", p.expect("unterminated callback interface, expected ';'", token.Semicolon))
		return finish(n)
	}

	n := ast.NewCallback()
	attachExtAttrs(n, extAttrs)
	n.ExtAttrs = extAttrs
	n.Put("callback", callbackTok)
	nameTok := p.expect("callback lacks a name", token.Identifier)
	n.Put("name", nameTok)
	n.Name = nameTok.Lexeme
	n.Put("eq", p.expect("expected '='", token.Equals))
	n.ReturnType = ast.AppendChild(n, p.consumeReturnType())
	n.Put("open", p.expect("callback requires '('", token.LeftParen))
	n.Args = p.argumentListInner()
	for _, a := range n.Args {
		ast.SetChild(n, a)
	}
	n.Put("close", p.expect("callback requires ')'", token.RightParen))
	n.Put("termination", p.expect("unterminated callback, expected ';'", token.Semicolon))
	return finish(n)
}
