package symbols

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeNamespace
	ScopeClass
	ScopeFunction
	ScopePrototype // function parameters
	ScopeLocal     // block statements
	ScopeTemplateParameter
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeNamespace:
		return "namespace"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopePrototype:
		return "prototype"
	case ScopeLocal:
		return "local"
	case ScopeTemplateParameter:
		return "template-parameter"
	default:
		return "invalid"
	}
}

// Scope is a lexical region owning a name map.
//
// Outer is a back-link and holds no reference: the outer scope always
// outlives its nested scopes. References are held by the table for the
// global scope, by every stack entry and by every registration in an
// outer scope's Nested table.
type Scope struct {
	Kind  ScopeKind
	Outer ScopeID
	Owner ast.Node
	Span  source.Span
	// Name is the namespace or class name, empty for other kinds.
	Name   encoding.Encoding
	Symbol SymbolID // symbol introducing this scope, if any

	NameIndex map[encoding.Encoding][]SymbolID
	Symbols   []SymbolID // declared here, in order
	Imported  []SymbolID // made visible by using-declarations
	Nested    map[ast.Node]ScopeID
	Children  []ScopeID // creation order

	// Usings lists namespaces nominated by using-directives.
	Usings []ScopeID
	// Bases lists resolved base classes in declaration order.
	Bases []ScopeID
	// TemplateParams is the parameter scope of a class template or of a
	// function template prototype.
	TemplateParams ScopeID
	// Prototype is the parameter scope of a function body.
	Prototype ScopeID
	// Class is the class of a member function body.
	Class ScopeID
	// Enclosing is where a function was declared, when that differs from
	// where its body appears.
	Enclosing ScopeID

	refs    int32
	Retired bool
}

// Refs reports the current reference count.
func (s *Scope) Refs() int32 { return s.refs }

func (s *Scope) hasUsing(id ScopeID) bool {
	for _, u := range s.Usings {
		if u == id {
			return true
		}
	}
	return false
}
