package source

// StringID is an interned identifier spelling.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier spellings for one translation unit.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, adding a private copy on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	cpy := string([]byte(s))
	id := StringID(len(in.byID)) //nolint:gosec // grows one by one
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup panics on an id that this interner did not produce.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: unknown string id")
	}
	return s
}

func (in *Interner) Len() int { return len(in.byID) }
