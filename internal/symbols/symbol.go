package symbols

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
)

// SymbolKind classifies the declared entity. The set is closed.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolConst
	SymbolType
	SymbolTypedef
	SymbolClass
	SymbolEnum
	SymbolDependent
	SymbolClassTemplate
	SymbolFunction
	SymbolFunctionTemplate
	SymbolNamespace
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolConst:
		return "const"
	case SymbolType:
		return "type"
	case SymbolTypedef:
		return "typedef"
	case SymbolClass:
		return "class"
	case SymbolEnum:
		return "enum"
	case SymbolDependent:
		return "dependent"
	case SymbolClassTemplate:
		return "class template"
	case SymbolFunction:
		return "function"
	case SymbolFunctionTemplate:
		return "function template"
	case SymbolNamespace:
		return "namespace"
	default:
		return "invalid"
	}
}

// IsType reports the TypeName family and class templates.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolType, SymbolTypedef, SymbolClass, SymbolEnum, SymbolDependent, SymbolClassTemplate:
		return true
	}
	return false
}

// IsFunction reports functions and function templates.
func (k SymbolKind) IsFunction() bool {
	return k == SymbolFunction || k == SymbolFunctionTemplate
}

// IsClass reports kinds whose definition opens a class scope.
func (k SymbolKind) IsClass() bool {
	return k == SymbolClass || k == SymbolClassTemplate
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagTag marks struct/union/enum tags in C, visible to elaborated lookup only.
	SymbolFlagTag SymbolFlags = 1 << iota
	SymbolFlagRemoved
	SymbolFlagAnonymous
	SymbolFlagParameter
	SymbolFlagTemplateParam
	SymbolFlagAlias
	SymbolFlagStatic
	SymbolFlagExtern
	SymbolFlagPureVirtual
	SymbolFlagMember
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	names := [...]struct {
		flag  SymbolFlags
		label string
	}{
		{SymbolFlagTag, "tag"},
		{SymbolFlagRemoved, "removed"},
		{SymbolFlagAnonymous, "anonymous"},
		{SymbolFlagParameter, "parameter"},
		{SymbolFlagTemplateParam, "template-parameter"},
		{SymbolFlagAlias, "alias"},
		{SymbolFlagStatic, "static"},
		{SymbolFlagExtern, "extern"},
		{SymbolFlagPureVirtual, "pure"},
		{SymbolFlagMember, "member"},
	}
	for _, n := range names {
		if f&n.flag != 0 {
			labels = append(labels, n.label)
		}
	}
	return labels
}

// Symbol describes a declared entity. Kind-specific fields are zero for
// the kinds that do not use them.
type Symbol struct {
	Kind  SymbolKind
	Name  encoding.Encoding
	Type  encoding.Encoding
	Decl  ast.Node // declaring node, not owned
	Span  source.Span
	Scope ScopeID // owning scope
	// Inner is the scope the symbol introduces; NoScopeID until its
	// definition or body has been entered.
	Inner        ScopeID
	IsDefinition bool
	Flags        SymbolFlags

	// SymbolConst
	Defined bool
	Value   int64

	// SymbolTypedef
	Aliased SymbolID

	// SymbolFunction, SymbolFunctionTemplate
	Params      int
	DefaultArgs int

	// Previous is the declaration this symbol replaced, if any.
	Previous SymbolID
}

// Removed reports tombstoned symbols.
func (s *Symbol) Removed() bool { return s.Flags&SymbolFlagRemoved != 0 }

// AsScope returns the scope introduced by a class, class template,
// function, function template or namespace. The result is NoScopeID for
// other kinds and for forward declarations.
func (s *Symbol) AsScope() ScopeID {
	switch s.Kind {
	case SymbolClass, SymbolClassTemplate, SymbolFunction, SymbolFunctionTemplate, SymbolNamespace:
		return s.Inner
	}
	return NoScopeID
}

// SymbolVisitor has one method per symbol kind.
type SymbolVisitor interface {
	VisitVariable(*Symbol)
	VisitConst(*Symbol)
	VisitType(*Symbol)
	VisitTypedef(*Symbol)
	VisitClass(*Symbol)
	VisitEnum(*Symbol)
	VisitDependent(*Symbol)
	VisitClassTemplate(*Symbol)
	VisitFunction(*Symbol)
	VisitFunctionTemplate(*Symbol)
	VisitNamespace(*Symbol)
}

// Accept dispatches s to the visitor method of its kind.
func (s *Symbol) Accept(v SymbolVisitor) {
	switch s.Kind {
	case SymbolVariable:
		v.VisitVariable(s)
	case SymbolConst:
		v.VisitConst(s)
	case SymbolType:
		v.VisitType(s)
	case SymbolTypedef:
		v.VisitTypedef(s)
	case SymbolClass:
		v.VisitClass(s)
	case SymbolEnum:
		v.VisitEnum(s)
	case SymbolDependent:
		v.VisitDependent(s)
	case SymbolClassTemplate:
		v.VisitClassTemplate(s)
	case SymbolFunction:
		v.VisitFunction(s)
	case SymbolFunctionTemplate:
		v.VisitFunctionTemplate(s)
	case SymbolNamespace:
		v.VisitNamespace(s)
	}
}
