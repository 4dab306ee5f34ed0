package dialect

import (
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

type signal struct {
	Kind   Kind
	Score  int
	Reason string
}

// keywordSignals lists C++ keywords that never start a C construct.
var keywordSignals = map[token.Kind]signal{
	token.KwClass:     {CXX, 3, "keyword `class`"},
	token.KwNamespace: {CXX, 6, "keyword `namespace`"},
	token.KwTemplate:  {CXX, 6, "keyword `template`"},
	token.KwTypename:  {CXX, 4, "keyword `typename`"},
	token.KwUsing:     {CXX, 3, "keyword `using`"},
	token.KwPublic:    {CXX, 3, "access specifier `public`"},
	token.KwPrivate:   {CXX, 3, "access specifier `private`"},
	token.KwProtected: {CXX, 3, "access specifier `protected`"},
	token.KwVirtual:   {CXX, 3, "keyword `virtual`"},
	token.KwOperator:  {CXX, 4, "keyword `operator`"},
	token.KwFriend:    {CXX, 3, "keyword `friend`"},
	token.KwMutable:   {CXX, 3, "keyword `mutable`"},
	token.KwExplicit:  {CXX, 3, "keyword `explicit`"},
	token.KwNullptr:   {CXX, 5, "keyword `nullptr`"},
	token.KwConstexpr: {CXX, 4, "keyword `constexpr`"},
	token.KwThis:      {CXX, 2, "keyword `this`"},
	token.KwNew:       {CXX, 2, "keyword `new`"},
	token.KwDelete:    {CXX, 2, "keyword `delete`"},
	token.KwTry:       {CXX, 3, "keyword `try`"},
	token.KwCatch:     {CXX, 3, "keyword `catch`"},
	token.KwThrow:     {CXX, 3, "keyword `throw`"},
}

// identSignals lists C spellings that C++ does not have.
var identSignals = map[string]signal{
	"restrict":       {C, 4, "C99 qualifier `restrict`"},
	"_Bool":          {C, 4, "C99 type `_Bool`"},
	"_Complex":       {C, 3, "C99 type `_Complex`"},
	"_Generic":       {C, 5, "C11 `_Generic` selection"},
	"_Noreturn":      {C, 4, "C11 `_Noreturn`"},
	"_Static_assert": {C, 4, "C11 `_Static_assert`"},
	"_Atomic":        {C, 3, "C11 `_Atomic`"},
	"_Alignas":       {C, 3, "C11 `_Alignas`"},
}

// RecordToken collects keyword and identifier evidence for one token.
func RecordToken(e *Evidence, tok token.Token) {
	if e == nil {
		return
	}
	var sig signal
	var ok bool
	if tok.Kind == token.Ident {
		sig, ok = identSignals[tok.Text]
	} else {
		sig, ok = keywordSignals[tok.Kind]
	}
	if !ok {
		return
	}
	e.Add(Hint{Kind: sig.Kind, Score: sig.Score, Reason: sig.Reason, Span: tok.Span})
}

func recordSignal(e *Evidence, sig signal, span source.Span) {
	e.Add(Hint{Kind: sig.Kind, Score: sig.Score, Reason: sig.Reason, Span: span})
}
