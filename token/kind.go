// Package token defines the closed set of WebIDL token kinds and the
// tokenizer that turns source text into an ordered, trivia-carrying
// token stream.
package token

// Kind identifies the lexical category of a Token. The set is closed:
// every reserved word and punctuation symbol in the WebIDL grammar has
// its own Kind, plus the open categories (Identifier, String, Decimal,
// Integer, Other) and the terminal EOF.
type Kind int

const (
	Invalid Kind = iota

	EOF
	Identifier
	String
	Decimal
	Integer
	Other

	// Punctuation.
	LeftParen    // (
	RightParen   // )
	Comma        // ,
	Ellipsis     // ...
	Colon        // :
	Semicolon    // ;
	LeftAngle    // <
	Equals       // =
	RightAngle   // >
	Question     // ?
	LeftBracket  // [
	RightBracket // ]
	LeftBrace    // {
	RightBrace   // }

	// Type-name keywords.
	KwArrayBuffer
	KwDataView
	KwInt8Array
	KwInt16Array
	KwInt32Array
	KwUint8Array
	KwUint16Array
	KwUint32Array
	KwUint8ClampedArray
	KwFloat32Array
	KwFloat64Array
	KwAny
	KwObject
	KwSymbol

	// String-type keywords.
	KwByteString
	KwDOMString
	KwUSVString

	// Argument-name keywords (also usable as plain identifiers in some
	// productions, but re-kinded by the tokenizer regardless; the parser
	// re-accepts them where the grammar allows).
	KwAsync
	KwAttribute
	KwCallback
	KwConst
	KwConstructor
	KwDeleter
	KwDictionary
	KwEnum
	KwGetter
	KwIncludes
	KwInherit
	KwInterface
	KwIterable
	KwMaplike
	KwNamespace
	KwPartial
	KwRequired
	KwSetlike
	KwSetter
	KwStatic
	KwStringifier
	KwTypedef
	KwUnrestricted

	// Other terminals.
	KwNegativeInfinity // -Infinity
	KwFrozenArray
	KwInfinity
	KwNaN
	KwPromise
	KwBoolean
	KwByte
	KwDouble
	KwFalse
	KwFloat
	KwLong
	KwMixin
	KwNull
	KwOctet
	KwOptional
	KwOr
	KwReadonly
	KwRecord
	KwSequence
	KwShort
	KwTrue
	KwUnsigned
	KwVoid
)

// keywords maps every reserved-word lexeme to the Kind an Identifier
// token is re-kinded to when its lexeme matches. Reserved identifiers
// (see Reserved below) are checked before this table is consulted.
var keywords = map[string]Kind{
	"ArrayBuffer":       KwArrayBuffer,
	"DataView":          KwDataView,
	"Int8Array":         KwInt8Array,
	"Int16Array":        KwInt16Array,
	"Int32Array":        KwInt32Array,
	"Uint8Array":        KwUint8Array,
	"Uint16Array":       KwUint16Array,
	"Uint32Array":       KwUint32Array,
	"Uint8ClampedArray": KwUint8ClampedArray,
	"Float32Array":      KwFloat32Array,
	"Float64Array":      KwFloat64Array,
	"any":               KwAny,
	"object":            KwObject,
	"symbol":            KwSymbol,

	"ByteString": KwByteString,
	"DOMString":  KwDOMString,
	"USVString":  KwUSVString,

	"async":        KwAsync,
	"attribute":    KwAttribute,
	"callback":     KwCallback,
	"const":        KwConst,
	"constructor":  KwConstructor,
	"deleter":      KwDeleter,
	"dictionary":   KwDictionary,
	"enum":         KwEnum,
	"getter":       KwGetter,
	"includes":     KwIncludes,
	"inherit":      KwInherit,
	"interface":    KwInterface,
	"iterable":     KwIterable,
	"maplike":      KwMaplike,
	"namespace":    KwNamespace,
	"partial":      KwPartial,
	"required":     KwRequired,
	"setlike":      KwSetlike,
	"setter":       KwSetter,
	"static":       KwStatic,
	"stringifier":  KwStringifier,
	"typedef":      KwTypedef,
	"unrestricted": KwUnrestricted,

	"-Infinity":   KwNegativeInfinity,
	"FrozenArray": KwFrozenArray,
	"Infinity":    KwInfinity,
	"NaN":         KwNaN,
	"Promise":     KwPromise,
	"boolean":     KwBoolean,
	"byte":        KwByte,
	"double":      KwDouble,
	"false":       KwFalse,
	"float":       KwFloat,
	"long":        KwLong,
	"mixin":       KwMixin,
	"null":        KwNull,
	"octet":       KwOctet,
	"optional":    KwOptional,
	"or":          KwOr,
	"readonly":    KwReadonly,
	"record":      KwRecord,
	"sequence":    KwSequence,
	"short":       KwShort,
	"true":        KwTrue,
	"unsigned":    KwUnsigned,
	"void":        KwVoid,
}

// Reserved identifiers are syntax errors wherever they appear, even
// though "constructor" is itself a keyword (the reserved check runs
// before keyword rewriting, per the grammar's documented ordering).
var Reserved = map[string]bool{
	"_constructor": true,
	"toString":     true,
	"_toString":    true,
}

// LookupKeyword returns the Kind a keyword lexeme re-kinds to, and
// whether the lexeme is a keyword at all. Reserved identifiers are not
// keywords and report false.
func LookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

var kindNames = map[Kind]string{
	Invalid: "invalid", EOF: "eof", Identifier: "identifier", String: "string",
	Decimal: "decimal", Integer: "integer", Other: "other",
	LeftParen: "(", RightParen: ")", Comma: ",", Ellipsis: "...", Colon: ":",
	Semicolon: ";", LeftAngle: "<", Equals: "=", RightAngle: ">", Question: "?",
	LeftBracket: "[", RightBracket: "]", LeftBrace: "{", RightBrace: "}",
}

// String renders a Kind for diagnostics. Keyword kinds render as their
// lexeme by walking the keywords table once; this keeps the table the
// single source of truth instead of duplicating names.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	for lexeme, kind := range keywords {
		if kind == k {
			return lexeme
		}
	}
	return "unknown"
}
