package symbols

import (
	"github.com/bits-and-blooms/bitset"

	"cxxscope/internal/encoding"
)

// LookupContext filters which symbols a lookup accepts.
type LookupContext uint8

const (
	// LookupDefault accepts any visible name. A class or enum name sharing
	// its name with a variable or function in the same scope is hidden.
	LookupDefault LookupContext = iota
	// LookupDeclaration accepts everything, hidden names and C tags included.
	LookupDeclaration
	// LookupElaborate accepts class and enum names only ("struct X").
	LookupElaborate
	// LookupScope accepts names that can precede "::".
	LookupScope
)

func (c LookupContext) String() string {
	switch c {
	case LookupDefault:
		return "default"
	case LookupDeclaration:
		return "declaration"
	case LookupElaborate:
		return "elaborate"
	case LookupScope:
		return "scope"
	}
	return "unknown"
}

func (t *Table) accepts(c LookupContext, sym *Symbol) bool {
	if sym.Removed() {
		return false
	}
	tag := sym.Flags&SymbolFlagTag != 0
	switch c {
	case LookupDeclaration:
		return true
	case LookupElaborate:
		if t.lang == LanguageC {
			return tag
		}
		switch sym.Kind {
		case SymbolClass, SymbolEnum, SymbolClassTemplate, SymbolDependent, SymbolTypedef:
			return true
		}
		return false
	case LookupScope:
		if tag {
			return false
		}
		switch sym.Kind {
		case SymbolNamespace, SymbolClass, SymbolClassTemplate, SymbolTypedef, SymbolEnum,
			SymbolDependent, SymbolType:
			return true
		}
		return false
	}
	return !tag
}

// local returns the matches for name declared in, or imported into, scope.
func (t *Table) local(id ScopeID, name encoding.Encoding, ctx LookupContext) []SymbolID {
	scope := t.Scope(id)
	if scope == nil {
		return nil
	}
	bucket := scope.NameIndex[name]
	if len(bucket) == 0 {
		return nil
	}
	var out []SymbolID
	hasValue := false
	for _, sid := range bucket {
		sym := t.Symbols.Get(sid)
		if sym == nil || !t.accepts(ctx, sym) {
			continue
		}
		if !sym.Kind.IsType() && sym.Kind != SymbolNamespace {
			hasValue = true
		}
		out = appendUnique(out, sid)
	}
	if ctx != LookupDefault || !hasValue || t.lang == LanguageC {
		return out
	}
	// "struct stat" and "int stat()" may coexist; the function wins.
	kept := out[:0]
	for _, sid := range out {
		if k := t.Symbols.Get(sid).Kind; k == SymbolClass || k == SymbolEnum {
			continue
		}
		kept = append(kept, sid)
	}
	return kept
}

func appendUnique(out []SymbolID, ids ...SymbolID) []SymbolID {
next:
	for _, id := range ids {
		for _, have := range out {
			if have == id {
				continue next
			}
		}
		out = append(out, id)
	}
	return out
}

// lookupKey maps a template-id to the template it names.
func lookupKey(name encoding.Encoding) encoding.Encoding {
	if name.IsTemplate() {
		return name.TemplateName()
	}
	return name
}

// Lookup resolves name from the current scope: qualified names with
// QualifiedLookup, others with UnqualifiedLookup.
func (t *Table) Lookup(name encoding.Encoding, ctx LookupContext) []SymbolID {
	return t.LookupFrom(t.CurrentScope(), name, ctx)
}

// LookupFrom resolves name as if from inside scope.
func (t *Table) LookupFrom(scope ScopeID, name encoding.Encoding, ctx LookupContext) []SymbolID {
	if !t.enabled() || name.Empty() {
		return nil
	}
	if name.IsQualified() {
		return t.qualified(scope, name, ctx)
	}
	return t.unqualified(scope, lookupKey(name), ctx)
}

// UnqualifiedLookup searches the current scope and then its enclosing
// scopes, stopping at the first scope with a match.
func (t *Table) UnqualifiedLookup(name encoding.Encoding, ctx LookupContext) []SymbolID {
	if !t.enabled() {
		return nil
	}
	return t.unqualified(t.CurrentScope(), lookupKey(name), ctx)
}

// QualifiedLookup resolves A::B::x. The final component is searched only
// in the scope the qualifier names, never in its enclosing scopes.
func (t *Table) QualifiedLookup(name encoding.Encoding, ctx LookupContext) []SymbolID {
	if !t.enabled() {
		return nil
	}
	return t.qualified(t.CurrentScope(), name, ctx)
}

func (t *Table) newVisited() *bitset.BitSet {
	return bitset.New(uint(t.Scopes.Len() + 1))
}

func (t *Table) unqualified(from ScopeID, name encoding.Encoding, ctx LookupContext) []SymbolID {
	usings := t.newVisited()
	for id := from; id.IsValid(); {
		scope := t.Scope(id)
		if scope == nil {
			return nil
		}
		if hits := t.local(id, name, ctx); len(hits) > 0 {
			return hits
		}
		next := scope.Outer
		switch scope.Kind {
		case ScopeClass:
			if hits := t.baseLookup(id, name, ctx, t.newVisited()); len(hits) > 0 {
				return hits
			}
		case ScopeFunction:
			if hits := t.local(scope.Prototype, name, ctx); len(hits) > 0 {
				return hits
			}
			if scope.Enclosing.IsValid() && scope.Enclosing != scope.Outer {
				// template parameters of an out-of-line definition
				for next.IsValid() {
					ns := t.Scope(next)
					if ns == nil || ns.Kind != ScopeTemplateParameter {
						break
					}
					if hits := t.local(next, name, ctx); len(hits) > 0 {
						return hits
					}
					next = ns.Outer
				}
				next = scope.Enclosing
			}
		}
		if hits := t.usingLookup(id, name, ctx, usings); len(hits) > 0 {
			return hits
		}
		id = next
	}
	return nil
}

// baseLookup searches the bases of a class, in order. Matches from
// unrelated bases are all returned.
func (t *Table) baseLookup(id ScopeID, name encoding.Encoding, ctx LookupContext, visited *bitset.BitSet) []SymbolID {
	scope := t.Scope(id)
	if scope == nil {
		return nil
	}
	var out []SymbolID
	for _, base := range scope.Bases {
		if visited.Test(uint(base)) {
			continue
		}
		visited.Set(uint(base))
		hits := t.local(base, name, ctx)
		if len(hits) == 0 {
			hits = t.baseLookup(base, name, ctx, visited)
		}
		out = appendUnique(out, hits...)
	}
	return out
}

// usingLookup searches namespaces nominated by using-directives of scope,
// transitively. visited keeps cycles finite.
func (t *Table) usingLookup(id ScopeID, name encoding.Encoding, ctx LookupContext, visited *bitset.BitSet) []SymbolID {
	scope := t.Scope(id)
	if scope == nil {
		return nil
	}
	var out []SymbolID
	for _, u := range scope.Usings {
		if visited.Test(uint(u)) {
			continue
		}
		visited.Set(uint(u))
		out = appendUnique(out, t.local(u, name, ctx)...)
		out = appendUnique(out, t.usingLookup(u, name, ctx, visited)...)
	}
	return out
}

// member searches scope only: its own names, then bases or nominated
// namespaces.
func (t *Table) member(id ScopeID, name encoding.Encoding, ctx LookupContext) []SymbolID {
	if hits := t.local(id, name, ctx); len(hits) > 0 {
		return hits
	}
	scope := t.Scope(id)
	if scope == nil {
		return nil
	}
	visited := t.newVisited()
	visited.Set(uint(id))
	if scope.Kind == ScopeClass {
		return t.baseLookup(id, name, ctx, visited)
	}
	return t.usingLookup(id, name, ctx, visited)
}

func (t *Table) qualified(from ScopeID, name encoding.Encoding, ctx LookupContext) []SymbolID {
	scope := from
	first := true
	base, ok := name.GetBaseName(func(q encoding.Encoding) bool {
		if q.IsGlobal() {
			scope, first = t.global, false
			return true
		}
		var hits []SymbolID
		if first {
			hits = t.unqualified(scope, lookupKey(q), LookupScope)
			first = false
		} else {
			hits = t.member(scope, lookupKey(q), LookupScope)
		}
		scope = t.scopeOf(hits)
		return scope.IsValid()
	})
	if !ok {
		return nil
	}
	return t.member(scope, lookupKey(base), ctx)
}

// ResolveScope returns the scope a qualifier such as "A::B" denotes.
func (t *Table) ResolveScope(name encoding.Encoding) ScopeID {
	if !t.enabled() {
		return NoScopeID
	}
	if name.IsGlobal() {
		return t.global
	}
	return t.scopeOf(t.LookupFrom(t.CurrentScope(), name, LookupScope))
}

// scopeOf picks the first symbol that denotes a scope.
func (t *Table) scopeOf(ids []SymbolID) ScopeID {
	for _, id := range ids {
		if s := t.symbolScope(id, 0); s.IsValid() {
			return s
		}
	}
	return NoScopeID
}

func (t *Table) symbolScope(id SymbolID, depth int) ScopeID {
	sym := t.Symbols.Get(id)
	if sym == nil || depth > 8 {
		return NoScopeID
	}
	switch sym.Kind {
	case SymbolTypedef:
		return t.symbolScope(sym.Aliased, depth+1)
	case SymbolEnum:
		// enumerators live in the enum's enclosing scope
		return sym.Scope
	}
	return sym.AsScope()
}

// Dependent reports whether a qualified name starts with a template
// parameter, which makes it unresolvable before instantiation.
func (t *Table) Dependent(name encoding.Encoding) bool {
	if !t.enabled() || !name.IsQualified() {
		return false
	}
	comps := name.Components()
	if comps[0].IsGlobal() {
		return false
	}
	for _, id := range t.unqualified(t.CurrentScope(), lookupKey(comps[0]), LookupScope) {
		if sym := t.Symbols.Get(id); sym != nil {
			switch sym.Kind {
			case SymbolDependent, SymbolType:
				return true
			}
			if sym.Kind == SymbolTypedef && !sym.Aliased.IsValid() {
				return true
			}
		}
	}
	return false
}

// MemberLookup searches scope and its bases or nominated namespaces only.
func (t *Table) MemberLookup(scope ScopeID, name encoding.Encoding, ctx LookupContext) []SymbolID {
	if !t.enabled() {
		return nil
	}
	return t.member(scope, lookupKey(name), ctx)
}

// EnclosingClass returns the class whose member scope, or member function
// body, the current scope is nested in.
func (t *Table) EnclosingClass() ScopeID {
	for i := len(t.stack) - 1; i >= 0; i-- {
		scope := t.Scope(t.stack[i])
		if scope == nil {
			continue
		}
		switch {
		case scope.Kind == ScopeClass:
			return t.stack[i]
		case scope.Kind == ScopeFunction && scope.Class.IsValid():
			return scope.Class
		}
	}
	return NoScopeID
}
