package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	// Check scopes.
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := &t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Retired {
			continue
		}
		if scope.refs <= 0 {
			errs = append(errs, fmt.Errorf("live scope %d has no references", scopeID))
		}
		if !scope.Outer.IsValid() {
			if scopeID != t.global {
				errs = append(errs, fmt.Errorf("scope %d has no outer scope", scopeID))
			}
			continue
		}
		if scope.Outer >= scopeID {
			errs = append(errs, fmt.Errorf("scope %d has invalid outer %d", scopeID, scope.Outer))
			continue
		}
		outer := t.Scopes.data[scope.Outer]
		if outer.Retired {
			errs = append(errs, fmt.Errorf("scope %d outlives its outer scope %d", scopeID, scope.Outer))
		}
		found := false
		for _, child := range outer.Children {
			if child == scopeID {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("scope %d outer %d missing backlink", scopeID, scope.Outer))
		}
	}

	// Check name index consistency.
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := &t.Scopes.data[idx]
		if scope.Retired {
			continue
		}
		owned := make(map[SymbolID]struct{}, len(scope.Symbols))
		for _, id := range scope.Symbols {
			owned[id] = struct{}{}
		}
		imported := make(map[SymbolID]struct{}, len(scope.Imported))
		for _, id := range scope.Imported {
			imported[id] = struct{}{}
		}
		covered := make(map[SymbolID]struct{}, len(scope.Symbols))
		for name, bucket := range scope.NameIndex {
			for _, id := range bucket {
				sym := t.Symbols.Get(id)
				switch {
				case sym == nil:
					errs = append(errs, fmt.Errorf("scope %d name index %q references missing symbol %d", scopeID, name, id))
					continue
				case sym.Removed():
					errs = append(errs, fmt.Errorf("scope %d name index %q keeps removed symbol %d", scopeID, name, id))
				}
				if _, ok := owned[id]; ok {
					if sym.Name != name {
						errs = append(errs, fmt.Errorf("scope %d symbol %d indexed under %q", scopeID, id, name))
					}
					covered[id] = struct{}{}
					continue
				}
				if _, ok := imported[id]; !ok {
					errs = append(errs, fmt.Errorf("scope %d name index %q references foreign symbol %d", scopeID, name, id))
				}
			}
		}
		for _, id := range scope.Symbols {
			if sym := t.Symbols.Get(id); sym != nil && sym.Removed() {
				continue
			}
			if _, ok := covered[id]; !ok {
				errs = append(errs, fmt.Errorf("scope %d symbol %d missing in name index", scopeID, id))
			}
		}
	}

	// Check symbols.
	for idx := 1; idx < len(t.Symbols.data); idx++ {
		symbolID, err := toSymbolID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		symbol := t.Symbols.data[idx]
		if symbol.Kind == SymbolInvalid {
			errs = append(errs, fmt.Errorf("symbol %d has invalid kind", symbolID))
		}
		if !symbol.Scope.IsValid() || int(symbol.Scope) >= len(t.Scopes.data) {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", symbolID, symbol.Scope))
			continue
		}
		scope := t.Scopes.data[symbol.Scope]
		found := false
		for _, id := range scope.Symbols {
			if id == symbolID {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", symbolID, symbol.Scope))
		}
		if symbol.Inner.IsValid() && int(symbol.Inner) >= len(t.Scopes.data) {
			errs = append(errs, fmt.Errorf("symbol %d has invalid inner scope %d", symbolID, symbol.Inner))
		}
	}

	// Check the stack.
	if !t.closed {
		if len(t.stack) == 0 || t.stack[0] != t.global {
			errs = append(errs, errors.New("global scope is not at the bottom of the stack"))
		}
		for i, id := range t.stack {
			if t.Scope(id) == nil {
				errs = append(errs, fmt.Errorf("stack entry %d refers to retired scope %d", i, id))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}

func toSymbolID(idx int) (SymbolID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoSymbolID, fmt.Errorf("symbol index %d overflow: %w", idx, err)
	}
	return SymbolID(value), nil
}
