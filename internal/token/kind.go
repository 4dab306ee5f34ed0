package token

// Kind is the category of a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	FloatLit
	CharLit
	StringLit

	kwBegin
	KwAuto
	KwBool
	KwBreak
	KwCase
	KwCatch
	KwChar
	KwClass
	KwConst
	KwConstexpr
	KwContinue
	KwDefault
	KwDelete
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExplicit
	KwExtern
	KwFalse
	KwFloat
	KwFor
	KwFriend
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwMutable
	KwNamespace
	KwNew
	KwNullptr
	KwOperator
	KwPrivate
	KwProtected
	KwPublic
	KwRegister
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStaticAssert
	KwStruct
	KwSwitch
	KwTemplate
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypedef
	KwTypename
	KwUnion
	KwUnsigned
	KwUsing
	KwVirtual
	KwVoid
	KwVolatile
	KwWcharT
	KwWhile
	kwEnd

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	PlusPlus      // ++
	MinusMinus    // --
	Question      // ?
	Colon         // :
	ColonColon    // ::
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	DotStar       // .*
	Arrow         // ->
	ArrowStar     // ->*
	Ellipsis      // ...
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]

	kindCount
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	CharLit:   "CharLit",
	StringLit: "StringLit",

	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=",
	CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=", EqEq: "==",
	Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	AndAnd: "&&", OrOr: "||", PlusPlus: "++", MinusMinus: "--",
	Question: "?", Colon: ":", ColonColon: "::", Semicolon: ";", Comma: ",",
	Dot: ".", DotStar: ".*", Arrow: "->", ArrowStar: "->*", Ellipsis: "...",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return keywordSpelling[k]
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

func (k Kind) IsKeyword() bool { return k > kwBegin && k < kwEnd }

func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, CharLit, StringLit, KwTrue, KwFalse, KwNullptr:
		return true
	}
	return false
}

func (k Kind) IsPunct() bool { return k > kwEnd && k < kindCount }

// IsBuiltinType reports keywords that can start a builtin type specifier.
func (k Kind) IsBuiltinType() bool {
	switch k {
	case KwVoid, KwBool, KwChar, KwWcharT, KwShort, KwInt, KwLong, KwFloat, KwDouble,
		KwSigned, KwUnsigned, KwAuto:
		return true
	}
	return false
}

// IsCVQualifier reports const and volatile.
func (k Kind) IsCVQualifier() bool { return k == KwConst || k == KwVolatile }

// IsDeclSpecifier reports storage and function specifiers that carry no name.
func (k Kind) IsDeclSpecifier() bool {
	switch k {
	case KwStatic, KwExtern, KwInline, KwVirtual, KwExplicit, KwFriend, KwMutable,
		KwRegister, KwConstexpr, KwTypedef:
		return true
	}
	return false
}
