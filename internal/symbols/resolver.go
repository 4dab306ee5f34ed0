package symbols

import (
	"cxxscope/internal/ast"
	"cxxscope/internal/consteval"
	"cxxscope/internal/encoding"
)

const maxConstDepth = 16

// constResolver answers constant-expression name queries as seen from one
// scope.
type constResolver struct {
	t     *Table
	scope ScopeID
}

var _ consteval.Resolver = constResolver{}

// Constant accepts enumerators and template value parameters with a known
// value, plus const-qualified variables with an evaluable initializer.
func (r constResolver) Constant(name encoding.Encoding) (int64, bool) {
	for _, id := range r.t.LookupFrom(r.scope, name, LookupDefault) {
		sym := r.t.Symbols.Get(id)
		switch sym.Kind {
		case SymbolConst:
			return sym.Value, sym.Defined
		case SymbolVariable:
			return r.t.constVariable(id)
		}
		return 0, false
	}
	return 0, false
}

// Type follows typedefs; enums count as int.
func (r constResolver) Type(name encoding.Encoding) (encoding.Encoding, bool) {
	for _, ctx := range []LookupContext{LookupDefault, LookupElaborate} {
		for _, id := range r.t.LookupFrom(r.scope, name, ctx) {
			sym := r.t.Symbols.Get(id)
			switch sym.Kind {
			case SymbolTypedef:
				if sym.Type == name {
					return "", false
				}
				return sym.Type, true
			case SymbolEnum:
				return encoding.Int, true
			}
			if sym.Kind.IsType() {
				return "", false
			}
		}
	}
	return "", false
}

func (t *Table) constVariable(id SymbolID) (int64, bool) {
	sym := t.Symbols.Get(id)
	if len(sym.Type) == 0 || sym.Type[0] != 'C' || sym.Decl.Kind != ast.NodeDeclarator {
		return 0, false
	}
	d := t.b.Declarators.Get(ast.DeclaratorID(sym.Decl.ID))
	if d == nil || !d.Init.IsValid() {
		return 0, false
	}
	if t.evaluating[id] || len(t.evaluating) >= maxConstDepth {
		return 0, false
	}
	if t.evaluating == nil {
		t.evaluating = make(map[SymbolID]bool)
	}
	t.evaluating[id] = true
	defer delete(t.evaluating, id)
	v, ok := consteval.Evaluate(t.b, d.Init, constResolver{t: t, scope: sym.Scope})
	if !ok {
		return 0, false
	}
	return consteval.Convert(v, sym.Type[1:], constResolver{t: t, scope: sym.Scope})
}

// EvaluateConst folds expr as seen from the current scope.
func (t *Table) EvaluateConst(expr ast.ExprID) (int64, bool) {
	if !t.enabled() {
		return 0, false
	}
	sp := t.span("Table.EvaluateConst")
	defer sp.End("")
	return consteval.Evaluate(t.b, expr, constResolver{t: t, scope: t.CurrentScope()})
}
