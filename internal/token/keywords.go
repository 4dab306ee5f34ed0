package token

var keywords = map[string]Kind{
	"auto":          KwAuto,
	"bool":          KwBool,
	"break":         KwBreak,
	"case":          KwCase,
	"catch":         KwCatch,
	"char":          KwChar,
	"class":         KwClass,
	"const":         KwConst,
	"constexpr":     KwConstexpr,
	"continue":      KwContinue,
	"default":       KwDefault,
	"delete":        KwDelete,
	"do":            KwDo,
	"double":        KwDouble,
	"else":          KwElse,
	"enum":          KwEnum,
	"explicit":      KwExplicit,
	"extern":        KwExtern,
	"false":         KwFalse,
	"float":         KwFloat,
	"for":           KwFor,
	"friend":        KwFriend,
	"goto":          KwGoto,
	"if":            KwIf,
	"inline":        KwInline,
	"int":           KwInt,
	"long":          KwLong,
	"mutable":       KwMutable,
	"namespace":     KwNamespace,
	"new":           KwNew,
	"nullptr":       KwNullptr,
	"operator":      KwOperator,
	"private":       KwPrivate,
	"protected":     KwProtected,
	"public":        KwPublic,
	"register":      KwRegister,
	"return":        KwReturn,
	"short":         KwShort,
	"signed":        KwSigned,
	"sizeof":        KwSizeof,
	"static":        KwStatic,
	"static_assert": KwStaticAssert,
	"struct":        KwStruct,
	"switch":        KwSwitch,
	"template":      KwTemplate,
	"this":          KwThis,
	"throw":         KwThrow,
	"true":          KwTrue,
	"try":           KwTry,
	"typedef":       KwTypedef,
	"typename":      KwTypename,
	"union":         KwUnion,
	"unsigned":      KwUnsigned,
	"using":         KwUsing,
	"virtual":       KwVirtual,
	"void":          KwVoid,
	"volatile":      KwVolatile,
	"wchar_t":       KwWcharT,
	"while":         KwWhile,
}

var keywordSpelling = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		out[k] = s
	}
	return out
}()

// cxxOnly lists C++ keywords that are plain identifiers in C.
var cxxOnly = map[Kind]bool{
	KwCatch: true, KwClass: true, KwConstexpr: true, KwDelete: true, KwExplicit: true,
	KwFalse: true, KwFriend: true, KwMutable: true, KwNamespace: true, KwNew: true,
	KwNullptr: true, KwOperator: true, KwPrivate: true, KwProtected: true, KwPublic: true,
	KwTemplate: true, KwThis: true, KwThrow: true, KwTrue: true, KwTry: true,
	KwTypename: true, KwUsing: true, KwVirtual: true, KwBool: true, KwWcharT: true,
	KwStaticAssert: true,
}

// LookupKeyword classifies ident. In C mode C++-only keywords are identifiers.
func LookupKeyword(ident string, cxx bool) (Kind, bool) {
	k, ok := keywords[ident]
	if !ok {
		return Ident, false
	}
	if !cxx && cxxOnly[k] {
		return Ident, false
	}
	return k, true
}
